package canvas

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-lms/core"
	"github.com/goliatone/go-lms/providers"
)

// ParseError reads the Canvas error envelopes: {"errors":[{"message"}]},
// {"errors":{"field":[{"message"}]}}, {"message"} and the oauth
// {"error","error_description"} pair.
func ParseError(data any) core.ParsedError {
	payload, ok := data.(map[string]any)
	if !ok {
		return providers.DefaultErrorParser(data)
	}
	messages := []string{}
	switch typed := payload["errors"].(type) {
	case []any:
		messages = append(messages, messagesOf(typed)...)
	case map[string]any:
		fields := make([]string, 0, len(typed))
		for field := range typed {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			items, _ := typed[field].([]any)
			for _, message := range messagesOf(items) {
				messages = append(messages, field+": "+message)
			}
		}
	case string:
		if trimmed := strings.TrimSpace(typed); trimmed != "" {
			messages = append(messages, trimmed)
		}
	}
	if len(messages) > 0 {
		return core.ParsedError{Message: strings.Join(messages, "; ")}
	}
	return providers.DefaultErrorParser(data)
}

func messagesOf(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch typed := item.(type) {
		case map[string]any:
			if message, ok := typed["message"]; ok && message != nil {
				if trimmed := strings.TrimSpace(fmt.Sprint(message)); trimmed != "" {
					out = append(out, trimmed)
				}
			}
		case string:
			if trimmed := strings.TrimSpace(typed); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
