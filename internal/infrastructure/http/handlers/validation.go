package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// MaxRequestBody caps JSON request bodies.
const MaxRequestBody = 64 << 10

// decodeJSON reads a single JSON object into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		msg := "invalid JSON body"
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			msg = "request body too large"
		case errors.Is(err, io.EOF):
			msg = "request body required"
		case strings.HasPrefix(err.Error(), "json: unknown field"):
			msg = err.Error()
		}
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidRequest, msg)
		return false
	}
	return true
}

// isUUID accepts only the canonical hyphenated form so 32-character hex slugs stay slugs.
func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
