package sessionsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/oakhall/depot/pkg/httpx"
)

// Error codes returned by the session service. These mirror the service's
// rejection taxonomy so callers can branch on the reason without string
// matching on descriptions.
const (
	ErrorCodeInvalidRequest = "invalid_request"
	ErrorCodeInvalidToken   = "invalid_token"
	ErrorCodeTokenExpired   = "token_expired"
	ErrorCodeSessionExpired = "session_expired"
	ErrorCodeTheftDetected  = "token_theft_detected"
	ErrorCodeTokenRevoked   = "token_revoked"
	ErrorCodeRefreshExpired = "refresh_expired_or_reused"
	ErrorCodeServerError    = "server_error"
	ErrorCodeUnavailable    = "temporarily_unavailable"
)

// APIError is the error body the session service writes and the client
// decodes. It implements the error interface so it flows through err
// returns on both sides.
type APIError struct {
	// StatusCode is the HTTP status the error travels with.
	StatusCode int `json:"-"`

	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this error to an HTTP response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteError(w, e.StatusCode, e.Code, e.Description)
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the token is malformed or its integrity check failed",
	}

	ErrTokenExpired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeTokenExpired,
		Description: "the token has expired",
	}

	ErrSessionExpired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeSessionExpired,
		Description: "no live session backs this token",
	}

	ErrTheftDetected = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeTheftDetected,
		Description: "the token was presented from a different device and the session has been terminated",
	}

	ErrTokenRevoked = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeTokenRevoked,
		Description: "the token has been revoked",
	}

	ErrRefreshExpired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeRefreshExpired,
		Description: "the refresh token is expired or was already used",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "the service encountered an unexpected condition",
	}

	ErrUnavailable = &APIError{
		StatusCode:  http.StatusServiceUnavailable,
		Code:        ErrorCodeUnavailable,
		Description: "the session store is unreachable",
	}
)

// decodeAPIError turns a non-2xx response body into an *APIError. Bodies
// that do not carry the conventional shape become a generic server error
// with the original status preserved.
func decodeAPIError(statusCode int, body []byte) *APIError {
	var e APIError
	if err := json.Unmarshal(body, &e); err != nil || e.Code == "" {
		return &APIError{
			StatusCode:  statusCode,
			Code:        ErrorCodeServerError,
			Description: http.StatusText(statusCode),
		}
	}
	e.StatusCode = statusCode
	return &e
}
