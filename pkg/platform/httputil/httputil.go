package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "labcheckout/pkg/domain-errors"
)

// ErrorResponse is the JSON body written for failed requests.
type ErrorResponse struct {
	Error       string `json:"error"`
	Reason      string `json:"reason,omitempty"`
	Description string `json:"error_description,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError centralizes domain error translation to HTTP responses.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), ErrorResponse{
			Error:       string(domainErr.Code),
			Reason:      string(domainErr.Reason),
			Description: domainErr.Message,
		})
		return
	}

	// Foreign errors never leak their text to clients.
	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: string(dErrors.CodeInternal),
	})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeSecurityViolation:
		return http.StatusForbidden
	case dErrors.CodePolicyViolation:
		return http.StatusPreconditionFailed
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeCapacityExceeded:
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}
