// Package netx holds the JSON-over-HTTP helpers shared by the API client
// and the server handlers.
package netx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxBodySize caps how much of a request or response body is decoded.
const MaxBodySize = 1 << 20

// ErrorBody is the error envelope written by the server.
type ErrorBody struct {
	Error string `json:"error"`
}

// WriteJSON writes v as the JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an ErrorBody with msg.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorBody{Error: msg})
}

// DecodeJSON decodes at most MaxBodySize bytes of r into v.
func DecodeJSON(r io.Reader, v any) error {
	if err := json.NewDecoder(io.LimitReader(r, MaxBodySize)).Decode(v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// ErrorMessage extracts a readable message from a non-2xx response body,
// preferring the ErrorBody envelope and falling back to the raw text.
func ErrorMessage(resp *http.Response) string {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var eb ErrorBody
	if err := json.Unmarshal(b, &eb); err == nil && eb.Error != "" {
		return eb.Error
	}
	if s := strings.TrimSpace(string(b)); s != "" {
		return s
	}
	return resp.Status
}
