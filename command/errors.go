package command

import (
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-lms/core"
)

func commandDependencyError(message string) error {
	return core.NewInternalError(message)
}

func commandValidationError(field string, message string) error {
	return core.NewValidationError("command: validation failed", goerrors.FieldError{
		Field:   field,
		Message: message,
	})
}
