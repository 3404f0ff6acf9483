// Package apierror defines the structured errors returned by services.
// Every error carries a Kind that transports map to their own status codes.
package apierror

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Kind classifies a failure.
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindDenied          Kind = "denied"
	KindValidation      Kind = "validation"
	KindUpstream        Kind = "upstream"
	KindPersistence     Kind = "persistence"
	KindConflict        Kind = "conflict"
	KindUnauthenticated Kind = "unauthenticated"
	KindAlreadyExists   Kind = "already_exists"
)

// APIError is a failure with a kind and a client-safe message.
// Err holds the underlying cause and is never shown to clients.
type APIError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches any APIError of the same kind, so errors.Is(err, &APIError{Kind: KindDenied}) works.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Retryable reports whether the whole operation may safely be attempted again.
func (e *APIError) Retryable() bool {
	return e.Kind == KindConflict
}

// KindOf returns the kind of err. Errors that are not APIErrors are persistence failures.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindPersistence
}

// IsRetryable reports whether err is a conflict that the caller may retry.
func IsRetryable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Retryable()
}

func NewErrPlaceNotFound(placeID uuid.UUID) *APIError {
	return &APIError{Kind: KindNotFound, Message: fmt.Sprintf("could not find place for id %s", placeID)}
}

func NewErrUserNotFound(userID uuid.UUID) *APIError {
	return &APIError{Kind: KindNotFound, Message: fmt.Sprintf("could not find user for id %s", userID)}
}

func NewErrOwnerNotFound(userID uuid.UUID) *APIError {
	return &APIError{Kind: KindNotFound, Message: fmt.Sprintf("could not find owner for id %s", userID)}
}

func NewErrNoPlacesForUser(userID uuid.UUID) *APIError {
	return &APIError{Kind: KindNotFound, Message: fmt.Sprintf("could not find places for user id %s", userID)}
}

func NewErrImageNotFound(key string) *APIError {
	return &APIError{Kind: KindNotFound, Message: fmt.Sprintf("could not find image %s", key)}
}

func NewErrDenied(placeID uuid.UUID) *APIError {
	return &APIError{Kind: KindDenied, Message: fmt.Sprintf("not allowed to modify place %s", placeID)}
}

func NewErrValidation(msg string) *APIError {
	return &APIError{Kind: KindValidation, Message: msg}
}

func NewErrGeocode(address string, err error) *APIError {
	return &APIError{Kind: KindUpstream, Message: fmt.Sprintf("could not find location for address %q", address), Err: err}
}

func NewErrStorage(err error) *APIError {
	return &APIError{Kind: KindUpstream, Message: "image storage is unavailable", Err: err}
}

func NewErrPersistence(op string, err error) *APIError {
	return &APIError{Kind: KindPersistence, Message: fmt.Sprintf("%s failed, please try again", op), Err: err}
}

func NewErrConflict(op string, err error) *APIError {
	return &APIError{Kind: KindConflict, Message: fmt.Sprintf("%s conflicted with a concurrent change, please retry", op), Err: err}
}

func NewErrEmailIsTaken(email string) *APIError {
	return &APIError{Kind: KindAlreadyExists, Message: fmt.Sprintf("user with email %s already exists", email)}
}

func NewErrInvalidCredentials() *APIError {
	return &APIError{Kind: KindUnauthenticated, Message: "invalid credentials, could not log you in"}
}

func NewErrMissingAuthorizationToken() *APIError {
	return &APIError{Kind: KindUnauthenticated, Message: "missing authorization token"}
}

func NewErrInvalidAuthorizationToken() *APIError {
	return &APIError{Kind: KindUnauthenticated, Message: "invalid authorization token"}
}
