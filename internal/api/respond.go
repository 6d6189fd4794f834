package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// decodeBody decodes a JSON request body of at most limit bytes into v.
// An empty body leaves v untouched when optional is set.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any, optional bool) (int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", limit)
		case errors.Is(err, io.EOF) && optional:
			return 0, nil
		}
		return http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err)
	}
	return 0, nil
}
