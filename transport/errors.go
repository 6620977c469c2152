package transport

import (
	"github.com/goliatone/go-lms/core"
)

func dependencyError(message string) error {
	return core.NewInternalError(message)
}

func requestError(source error, message string, req Request, method string, target string) error {
	return core.NewRequestError(source, message, describe(req, method, target))
}
