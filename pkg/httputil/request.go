package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Request body errors returned by DecodeJSON.
var (
	ErrEmptyBody     = errors.New("request body is empty")
	ErrBodyTooLarge  = errors.New("request body too large")
	ErrMalformedJSON = errors.New("malformed JSON")
)

// DecodeJSON decodes the request body into v, reading at most maxBytes.
// Unknown fields are ignored. The returned error wraps one of the
// Err* values above so handlers can pick a status with errors.Is.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any, maxBytes int64) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	body := http.MaxBytesReader(w, r.Body, maxBytes)

	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return ErrEmptyBody
		case errors.As(err, &maxErr):
			return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxErr.Limit)
		default:
			return fmt.Errorf("%w: %v", ErrMalformedJSON, err)
		}
	}

	// Trailing data after the first value is a malformed body.
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON value", ErrMalformedJSON)
	}
	return nil
}
