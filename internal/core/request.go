// AngelaMos | 2026
// request.go

package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// NormalizeEmail folds an address to its canonical stored form. Every
// write and every lookup goes through this so case never splits one
// account into two.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DecodeJSON reads the request body into dst. Oversized bodies are cut
// off by the MaxBody middleware before they reach the decoder.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return ValidationError("request body too large")
		}
		return ValidationError("invalid JSON body")
	}
	return nil
}
