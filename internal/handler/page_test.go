package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPageParams(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantPage int
		wantSize int
	}{
		{"defaults", "", 1, 10},
		{"explicit page", "page=3", 3, 10},
		{"explicit size", "page_size=25", 1, 25},
		{"size clamped to max", "page_size=1000", 1, 50},
		{"zero page falls back", "page=0", 1, 10},
		{"negative size falls back", "page_size=-5", 1, 10},
		{"garbage falls back", "page=abc&page_size=xyz", 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			page, size := pageParams(req)
			if page != tt.wantPage {
				t.Errorf("page = %d, want %d", page, tt.wantPage)
			}
			if size != tt.wantSize {
				t.Errorf("size = %d, want %d", size, tt.wantSize)
			}
		})
	}
}
