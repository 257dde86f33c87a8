package handlers

import (
	"encoding/json"
	"net/http"
)

// maxBodyBytes caps request bodies. Credentials are small.
const maxBodyBytes = 64 << 10

// decodeJSONBody decodes a JSON request body into the provided pointer.
// Returns true if successful, false if decoding fails (error response is written automatically).
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		BadRequest(w, "Invalid request body")
		return false
	}
	return true
}
