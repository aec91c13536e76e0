package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const maxRequestBodySize = 10 << 20 // 10 MB

// ParseJSON decodes a JSON request body into dst, enforcing a size
// limit and rejecting unknown fields.
func ParseJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	return nil
}
