package handler

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeCached serves a response-cache value verbatim: it already holds
// the serialized shape the client expects from the last refresh.
func writeCached(w http.ResponseWriter, buf []byte) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf)
}
