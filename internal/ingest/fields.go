package ingest

import (
	"reflect"
	"strings"
)

// fieldsOf derives the recognized-key allow-list for a target record
// shape from its json struct tags. Derived once per pipeline, then used
// as a plain lookup table so filtering stays independent of reflection.
//
// Fields tagged `ingest:"-"` are store-assigned (row ids, timestamps)
// and never accepted from an upstream payload, even when the upstream
// happens to carry a same-named key of a different type.
func fieldsOf(t reflect.Type) map[string]struct{} {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	fields := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Tag.Get("ingest") == "-" {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}
		fields[name] = struct{}{}
	}
	return fields
}
