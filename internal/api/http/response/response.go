// Package response writes JSON bodies and maps errors to HTTP statuses.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtroode/places-server/internal/apierror"
	"github.com/dtroode/places-server/internal/logger"
)

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

var statusByKind = map[apierror.Kind]int{
	apierror.KindNotFound:        http.StatusNotFound,
	apierror.KindDenied:          http.StatusForbidden,
	apierror.KindValidation:      http.StatusUnprocessableEntity,
	apierror.KindUpstream:        http.StatusBadGateway,
	apierror.KindPersistence:     http.StatusInternalServerError,
	apierror.KindConflict:        http.StatusConflict,
	apierror.KindUnauthenticated: http.StatusUnauthorized,
	apierror.KindAlreadyExists:   http.StatusConflict,
}

// Status returns the HTTP status for an error kind.
func Status(kind apierror.Kind) int {
	if code, ok := statusByKind[kind]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes err as an ErrorBody. Errors that are not APIErrors are
// logged and reported as a generic internal error.
func Error(w http.ResponseWriter, err error, log *logger.Logger) {
	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		log.Error("unhandled error", "error", err.Error())
		JSON(w, http.StatusInternalServerError, ErrorBody{
			Message: "internal server error",
			Code:    string(apierror.KindPersistence),
		})
		return
	}

	if apierror.IsRetryable(apiErr) {
		w.Header().Set("Retry-After", "1")
	}
	JSON(w, Status(apiErr.Kind), ErrorBody{Message: apiErr.Message, Code: string(apiErr.Kind)})
}
