package query

import (
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-lms/core"
)

func queryDependencyError(message string) error {
	return core.NewInternalError(message)
}

func queryValidationError(field string, message string) error {
	return core.NewValidationError("query: validation failed", goerrors.FieldError{
		Field:   field,
		Message: message,
	})
}
