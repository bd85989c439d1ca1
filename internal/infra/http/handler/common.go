// Package handler contains the HTTP handlers for the comparison API.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/scandelta/api/pkg/apierror"
)

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// decodeJSON decodes a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// parsePathInt parses an integer path parameter.
func parsePathInt(raw string) (int, *apierror.Error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierror.BadRequest("invalid numeric path parameter: " + raw)
	}
	return n, nil
}
