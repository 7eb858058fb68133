package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"

	"creationrights/internal/config"
)

// ParseJSON decodes JSON from the request body into the given destination.
// The body is capped at config.MaxRequestBodyBytes; larger bodies fail to decode.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}
