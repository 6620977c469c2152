package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-lms/core"
)

const defaultRESTClientTimeout = 30 * time.Second
const defaultRESTResponseBodyLimit int64 = 10 << 20 // 10 MiB

// Request is one outgoing HTTP exchange. Query values are appended to any
// query already present on URL.
type Request struct {
	Method               string
	URL                  string
	Headers              map[string]string
	Query                url.Values
	Body                 []byte
	Timeout              time.Duration
	MaxResponseBodyBytes int64
	Metadata             map[string]any
}

type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Duration   time.Duration
}

func (r Response) OK() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// RESTAdapter performs a single HTTP exchange. Any status code is returned as
// a response; only failures that leave no response become errors.
type RESTAdapter struct {
	Client               core.HTTPDoer
	DefaultHeaders       map[string]string
	MaxResponseBodyBytes int64
}

func NewRESTAdapter(client core.HTTPDoer) *RESTAdapter {
	if client == nil {
		client = &http.Client{Timeout: defaultRESTClientTimeout}
	}
	return &RESTAdapter{
		Client:               client,
		DefaultHeaders:       map[string]string{"Accept": "application/json"},
		MaxResponseBodyBytes: defaultRESTResponseBodyLimit,
	}
}

func (a *RESTAdapter) Do(ctx context.Context, req Request) (Response, error) {
	if a == nil || a.Client == nil {
		return Response{}, dependencyError("transport: rest adapter requires an http client")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	method := strings.TrimSpace(strings.ToUpper(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	rawURL := strings.TrimSpace(req.URL)
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return Response{}, requestError(err, "transport: invalid request url", req, method, rawURL)
	}
	if parsedURL.String() == "" {
		return Response{}, requestError(nil, "transport: request url is required", req, method, rawURL)
	}
	if len(req.Query) > 0 {
		query := parsedURL.Query()
		for key, values := range req.Query {
			if strings.TrimSpace(key) == "" {
				continue
			}
			for _, value := range values {
				query.Add(key, value)
			}
		}
		parsedURL.RawQuery = query.Encode()
	}
	target := parsedURL.String()

	requestCtx := ctx
	cancel := func() {}
	if req.Timeout > 0 {
		requestCtx, cancel = context.WithTimeout(ctx, req.Timeout)
	}
	defer cancel()

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(requestCtx, method, target, body)
	if err != nil {
		return Response{}, requestError(err, "transport: create http request", req, method, target)
	}
	for key, value := range a.DefaultHeaders {
		if strings.TrimSpace(key) == "" {
			continue
		}
		httpReq.Header.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	for key, value := range req.Headers {
		if strings.TrimSpace(key) == "" {
			continue
		}
		httpReq.Header.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}

	startedAt := time.Now()
	httpRes, err := a.Client.Do(httpReq)
	if err != nil {
		return Response{}, requestError(err, "transport: execute http request", req, method, target)
	}
	defer httpRes.Body.Close()

	maxBodyBytes := resolveResponseBodyLimit(req.MaxResponseBodyBytes, a.MaxResponseBodyBytes)
	payload, err := io.ReadAll(io.LimitReader(httpRes.Body, maxBodyBytes+1))
	if err != nil {
		return Response{}, requestError(err, "transport: read response body", req, method, target)
	}
	if int64(len(payload)) > maxBodyBytes {
		return Response{}, requestError(
			nil,
			fmt.Sprintf("transport: response body exceeds limit of %d bytes", maxBodyBytes),
			req,
			method,
			target,
		)
	}

	return Response{
		StatusCode: httpRes.StatusCode,
		Headers:    flattenHeaders(httpRes.Header),
		Body:       payload,
		Duration:   time.Since(startedAt),
	}, nil
}

// Describe renders the request for error context and logs.
func Describe(req Request) map[string]any {
	method := strings.TrimSpace(strings.ToUpper(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	return describe(req, method, strings.TrimSpace(req.URL))
}

func describe(req Request, method string, target string) map[string]any {
	description := core.CloneFields(req.Metadata)
	description["method"] = method
	description["url"] = target
	if len(req.Headers) > 0 {
		headers := make(map[string]string, len(req.Headers))
		for key, value := range req.Headers {
			headers[key] = value
		}
		description["headers"] = headers
	}
	if len(req.Query) > 0 {
		description["query"] = req.Query.Encode()
	}
	if req.Timeout > 0 {
		description["timeout_ms"] = req.Timeout.Milliseconds()
	}
	return description
}

func flattenHeaders(headers http.Header) map[string]string {
	if len(headers) == 0 {
		return map[string]string{}
	}
	flat := make(map[string]string, len(headers))
	for key, values := range headers {
		if len(values) == 0 {
			flat[key] = ""
			continue
		}
		flat[key] = strings.Join(values, ",")
	}
	return flat
}

func resolveResponseBodyLimit(requestLimit int64, adapterLimit int64) int64 {
	if requestLimit > 0 {
		return requestLimit
	}
	if adapterLimit > 0 {
		return adapterLimit
	}
	return defaultRESTResponseBodyLimit
}
