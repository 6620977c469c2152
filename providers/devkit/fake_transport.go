package devkit

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// HTTPScript is one scripted reply. A non-nil Err fails the exchange before
// any response, the way a network error would.
type HTTPScript struct {
	Status  int
	Headers map[string]string
	Body    string
	Err     error
}

func JSON(status int, body string) HTTPScript {
	return HTTPScript{
		Status:  status,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    body,
	}
}

// RecordedRequest is a detached copy of a request seen by FakeHTTPDoer.
type RecordedRequest struct {
	Method  string
	URL     string
	Path    string
	Query   map[string][]string
	Headers http.Header
	Body    string
}

// FakeHTTPDoer replays scripts in order and records every request. Once the
// scripts run out the last one is repeated.
type FakeHTTPDoer struct {
	mu       sync.Mutex
	scripts  []HTTPScript
	requests []RecordedRequest
}

func NewFakeHTTPDoer(scripts ...HTTPScript) *FakeHTTPDoer {
	return &FakeHTTPDoer{scripts: append([]HTTPScript(nil), scripts...)}
}

func (d *FakeHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	if d == nil {
		return nil, fmt.Errorf("devkit: fake http doer is nil")
	}
	recorded := RecordedRequest{
		Method:  req.Method,
		URL:     req.URL.String(),
		Path:    req.URL.Path,
		Query:   req.URL.Query(),
		Headers: req.Header.Clone(),
	}
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		recorded.Body = string(body)
	}

	d.mu.Lock()
	d.requests = append(d.requests, recorded)
	index := len(d.requests) - 1
	script := HTTPScript{Status: http.StatusOK}
	switch {
	case index < len(d.scripts):
		script = d.scripts[index]
	case len(d.scripts) > 0:
		script = d.scripts[len(d.scripts)-1]
	}
	d.mu.Unlock()

	if script.Err != nil {
		return nil, script.Err
	}
	status := script.Status
	if status == 0 {
		status = http.StatusOK
	}
	header := http.Header{}
	for key, value := range script.Headers {
		header.Set(key, value)
	}
	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader([]byte(script.Body))),
		Request:    req,
	}, nil
}

func (d *FakeHTTPDoer) Requests() []RecordedRequest {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]RecordedRequest(nil), d.requests...)
}

// Count returns how many recorded requests hit a path ending in suffix.
func (d *FakeHTTPDoer) Count(suffix string) int {
	count := 0
	for _, req := range d.Requests() {
		if strings.HasSuffix(req.Path, suffix) {
			count++
		}
	}
	return count
}
