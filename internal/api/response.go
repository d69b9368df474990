package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Marshal encodes v as WriteJSON would, including the trailing newline.
func Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// WriteJSON marshals v as JSON and writes it to w with the given status code.
// Encoding happens before the header is sent; a value that cannot be encoded
// produces a 500 instead.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	body, err := Marshal(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
		status = http.StatusInternalServerError
		body = []byte("{\"error\":\"Internal Server Error\"}\n")
	}
	WriteBody(w, status, body)
}

// WriteBody writes an already encoded JSON body.
func WriteBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}
