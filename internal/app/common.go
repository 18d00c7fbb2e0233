// Package app declares the request types of every operation the
// platform exposes and the handlers that execute them. Each file covers
// one feature area and registers its handlers on the shared dispatch mux.
package app

import (
	"database/sql"
	"errors"
	"time"

	"edubackend/internal/dispatch"
	"edubackend/internal/domain"
)

// failureFrom translates a collaborator error into a handled failure
// envelope when it is an expected outcome. Anything unrecognized passes
// through as a fault for the transport boundary.
func failureFrom[T any](err error) (dispatch.Result[T], error) {
	switch {
	case domain.IsNotFound(err) || errors.Is(err, sql.ErrNoRows):
		return dispatch.Failure[T](err.Error(), domain.CodeNotFound), nil
	case domain.IsConflict(err):
		return dispatch.Failure[T](err.Error(), domain.CodeConflict), nil
	case domain.IsValidation(err):
		return dispatch.Failure[T](err.Error(), domain.CodeValidationFailed), nil
	default:
		return dispatch.Result[T]{}, err
	}
}

func invalid[T any](message string) (dispatch.Result[T], error) {
	return dispatch.Failure[T](message, domain.CodeValidationFailed), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
