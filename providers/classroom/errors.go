package classroom

import (
	"strings"

	"github.com/goliatone/go-lms/core"
	"github.com/goliatone/go-lms/providers"
)

// ParseError reads the Google api envelope {"error":{"code","message",
// "status"}} and falls back to the oauth {"error","error_description"} pair.
func ParseError(data any) core.ParsedError {
	payload, ok := data.(map[string]any)
	if !ok {
		return providers.DefaultErrorParser(data)
	}
	if nested, ok := payload["error"].(map[string]any); ok {
		message, _ := nested["message"].(string)
		status, _ := nested["status"].(string)
		message = strings.TrimSpace(message)
		status = strings.TrimSpace(status)
		switch {
		case message != "" && status != "":
			return core.ParsedError{Message: status + ": " + message}
		case message != "":
			return core.ParsedError{Message: message}
		case status != "":
			return core.ParsedError{Message: status}
		}
	}
	return providers.DefaultErrorParser(data)
}
