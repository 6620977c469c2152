package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

type ErrorKind string

const (
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindAPI        ErrorKind = "api"
	ErrorKindRequest    ErrorKind = "request"
)

const (
	ErrorTextValidation = "LMS_VALIDATION"
	ErrorTextAPI        = "LMS_API"
	ErrorTextRequest    = "LMS_REQUEST"
	ErrorTextInternal   = "LMS_INTERNAL"
)

const (
	MetadataKind      = "kind"
	MetadataStatus    = "status"
	MetadataRequest   = "request"
	MetadataRequestID = "request_id"
	MetadataProvider  = "provider"
)

// NewAPIError reports a non-2xx response. Status is the HTTP status and
// request describes the outgoing exchange.
func NewAPIError(status int, message string, request map[string]any) *goerrors.Error {
	message = strings.TrimSpace(message)
	if message == "" {
		message = http.StatusText(status)
	}
	if message == "" {
		message = "lms: api request failed"
	}
	err := goerrors.New(message, apiCategory(status)).
		WithCode(status).
		WithTextCode(ErrorTextAPI)
	err.WithMetadata(errorMetadata(ErrorKindAPI, status, request))
	return err
}

// NewRequestError reports an exchange that failed before any response was
// received. The status is null, encoded as code 0.
func NewRequestError(source error, message string, request map[string]any) *goerrors.Error {
	message = strings.TrimSpace(message)
	switch {
	case message == "" && source != nil:
		message = source.Error()
	case source != nil:
		message = message + ": " + source.Error()
	case message == "":
		message = "lms: request failed"
	}
	var err *goerrors.Error
	if source != nil {
		err = goerrors.Wrap(source, goerrors.CategoryExternal, message)
	} else {
		err = goerrors.New(message, goerrors.CategoryExternal)
	}
	err = err.WithCode(0).WithTextCode(ErrorTextRequest)
	err.WithMetadata(errorMetadata(ErrorKindRequest, 0, request))
	return err
}

// NewValidationError reports input rejected before any call was attempted.
func NewValidationError(message string, fields ...goerrors.FieldError) *goerrors.Error {
	message = strings.TrimSpace(message)
	if message == "" {
		message = "lms: validation failed"
	}
	err := goerrors.NewValidation(message, fields...).
		WithCode(http.StatusBadRequest).
		WithTextCode(ErrorTextValidation).
		WithSeverity(goerrors.SeverityError)
	err.WithMetadata(map[string]any{MetadataKind: string(ErrorKindValidation)})
	return err
}

func NewInternalError(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(ErrorTextInternal)
}

// KindOf returns the taxonomy kind of err, or an empty kind when err is not
// one of ours.
func KindOf(err error) ErrorKind {
	var rich *goerrors.Error
	if err == nil || !goerrors.As(err, &rich) {
		return ""
	}
	switch rich.TextCode {
	case ErrorTextAPI:
		return ErrorKindAPI
	case ErrorTextRequest:
		return ErrorKindRequest
	case ErrorTextValidation:
		return ErrorKindValidation
	}
	if rich.Category == goerrors.CategoryValidation {
		return ErrorKindValidation
	}
	return ""
}

// StatusOf returns the HTTP status carried by an api error and 0 otherwise.
func StatusOf(err error) int {
	if KindOf(err) != ErrorKindAPI {
		return 0
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return 0
	}
	return rich.Code
}

// IsAuthFailure reports whether err is an api error with status 401.
func IsAuthFailure(err error) bool {
	return KindOf(err) == ErrorKindAPI && StatusOf(err) == http.StatusUnauthorized
}

// ErrorContext returns the metadata attached to err.
func ErrorContext(err error) map[string]any {
	var rich *goerrors.Error
	if err == nil || !goerrors.As(err, &rich) {
		return map[string]any{}
	}
	return cloneFields(rich.Metadata)
}

func errorMetadata(kind ErrorKind, status int, request map[string]any) map[string]any {
	metadata := map[string]any{
		MetadataKind: string(kind),
	}
	if status > 0 {
		metadata[MetadataStatus] = status
	}
	if len(request) > 0 {
		metadata[MetadataRequest] = RedactSensitiveMap(request)
		if requestID, ok := request[MetadataRequestID]; ok {
			metadata[MetadataRequestID] = requestID
		}
		if provider, ok := request[MetadataProvider]; ok {
			metadata[MetadataProvider] = provider
		}
	}
	return metadata
}

func apiCategory(status int) goerrors.Category {
	switch {
	case status == http.StatusUnauthorized:
		return goerrors.CategoryAuth
	case status == http.StatusForbidden:
		return goerrors.CategoryAuthz
	case status == http.StatusNotFound:
		return goerrors.CategoryNotFound
	case status == http.StatusConflict:
		return goerrors.CategoryConflict
	case status == http.StatusTooManyRequests:
		return goerrors.CategoryRateLimit
	case status >= 400 && status < 500:
		return goerrors.CategoryBadInput
	default:
		return goerrors.CategoryExternal
	}
}

// FieldErrors collects field level validation failures before a call.
type FieldErrors []goerrors.FieldError

func (f *FieldErrors) Add(field string, message string) {
	*f = append(*f, goerrors.FieldError{Field: field, Message: message})
}

// Required records field when value is blank.
func (f *FieldErrors) Required(field string, value string) {
	if strings.TrimSpace(value) == "" {
		f.Add(field, "is required")
	}
}

// Err returns nil when nothing was collected and a validation error
// otherwise.
func (f FieldErrors) Err(message string) error {
	if len(f) == 0 {
		return nil
	}
	return NewValidationError(message, f...)
}
