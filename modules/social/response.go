package social

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/publishkit/pkg/connect"
	"github.com/dmitrymomot/publishkit/pkg/social"
)

// Error categories let API clients distinguish a stale or forged callback
// from a user declining consent, a provider-side failure, and a
// misconfigured platform.
const (
	categoryCSRF          = "csrf"
	categoryConsentDenied = "consent_denied"
	categoryProvider      = "provider"
	categoryConfig        = "config"
)

type errorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeConnectError maps connect-flow errors onto the category taxonomy.
func writeConnectError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, connect.ErrInvalidState), errors.Is(err, connect.ErrVerifierMissing):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:    "authorization session expired or invalid, start over",
			Category: categoryCSRF,
		})
	case errors.Is(err, connect.ErrConsentDenied):
		writeJSON(w, http.StatusForbidden, errorResponse{
			Error:    "access was not granted",
			Category: categoryConsentDenied,
		})
	case errors.Is(err, social.ErrUnsupportedPlatform):
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error:    err.Error(),
			Category: categoryConfig,
		})
	case errors.Is(err, connect.ErrInvalidCode):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:    "authorization code was rejected",
			Category: categoryProvider,
		})
	default:
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error:    err.Error(),
			Category: categoryProvider,
		})
	}
}
