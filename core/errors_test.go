package core

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestNewAPIError_CarriesStatusAndRedactedRequest(t *testing.T) {
	err := NewAPIError(http.StatusNotFound, "", map[string]any{
		"method":        "GET",
		"authorization": "Bearer secret-access",
		"request_id":    "req-1",
		"provider":      "canvas",
	})
	if KindOf(err) != ErrorKindAPI {
		t.Fatalf("expected api kind, got %q", KindOf(err))
	}
	if StatusOf(err) != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", StatusOf(err))
	}
	if !strings.Contains(err.Error(), http.StatusText(http.StatusNotFound)) {
		t.Fatalf("expected status text message, got %q", err.Error())
	}
	if err.Category != goerrors.CategoryNotFound {
		t.Fatalf("expected not found category, got %v", err.Category)
	}

	ctx := ErrorContext(err)
	if ctx[MetadataRequestID] != "req-1" || ctx[MetadataProvider] != "canvas" {
		t.Fatalf("expected traceability metadata, got %#v", ctx)
	}
	request, ok := ctx[MetadataRequest].(map[string]any)
	if !ok {
		t.Fatalf("expected request metadata map, got %#v", ctx[MetadataRequest])
	}
	if request["authorization"] != RedactedValue {
		t.Fatalf("expected authorization to be redacted, got %#v", request["authorization"])
	}
	if request["method"] != "GET" {
		t.Fatalf("expected method to survive redaction, got %#v", request["method"])
	}
}

func TestIsAuthFailure(t *testing.T) {
	if !IsAuthFailure(NewAPIError(http.StatusUnauthorized, "expired", nil)) {
		t.Fatalf("expected 401 api error to be an auth failure")
	}
	if IsAuthFailure(NewAPIError(http.StatusForbidden, "denied", nil)) {
		t.Fatalf("expected 403 not to be an auth failure")
	}
	if IsAuthFailure(NewRequestError(errors.New("dial tcp"), "", nil)) {
		t.Fatalf("expected request error not to be an auth failure")
	}
}

func TestNewRequestError_HasNullStatus(t *testing.T) {
	source := errors.New("connection refused")
	err := NewRequestError(source, "lms: exchange failed", nil)
	if KindOf(err) != ErrorKindRequest {
		t.Fatalf("expected request kind, got %q", KindOf(err))
	}
	if StatusOf(err) != 0 || err.Code != 0 {
		t.Fatalf("expected null status, got %d", err.Code)
	}
	if !strings.Contains(err.Error(), "lms: exchange failed: connection refused") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestFieldErrors(t *testing.T) {
	var fields FieldErrors
	if fields.Err("lms: invalid") != nil {
		t.Fatalf("expected no error without fields")
	}
	fields.Required("course_id", " ")
	fields.Required("url", "https://game.example/")
	fields.Add("points", "must be >= 0")

	err := fields.Err("lms: invalid assignment")
	if KindOf(err) != ErrorKindValidation {
		t.Fatalf("expected validation kind, got %q", KindOf(err))
	}
	if StatusOf(err) != 0 {
		t.Fatalf("expected validation status to be hidden from StatusOf")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope")
	}
	validation := rich.AllValidationErrors()
	if len(validation) != 2 {
		t.Fatalf("expected 2 field errors, got %#v", validation)
	}
	if validation[0].Field != "course_id" || validation[0].Message != "is required" {
		t.Fatalf("unexpected first field error %#v", validation[0])
	}
}

func TestKindOf_ForeignErrors(t *testing.T) {
	if KindOf(nil) != "" || KindOf(errors.New("plain")) != "" {
		t.Fatalf("expected empty kind for foreign errors")
	}
	if KindOf(NewInternalError("lms: nil adapter")) != "" {
		t.Fatalf("expected internal errors to carry no taxonomy kind")
	}
}
