package providers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-lms/core"
	"github.com/goliatone/go-lms/transport"
)

func (p *OAuth2Provider) Get(ctx context.Context, target string, data map[string]any, token core.Token, opts core.CallOptions) (core.CallResult, error) {
	return p.Call(ctx, core.CallRequest{Method: http.MethodGet, URL: target, Data: data, Token: token, Options: opts})
}

func (p *OAuth2Provider) Post(ctx context.Context, target string, data map[string]any, token core.Token, opts core.CallOptions) (core.CallResult, error) {
	return p.Call(ctx, core.CallRequest{Method: http.MethodPost, URL: target, Data: data, Token: token, Options: opts})
}

func (p *OAuth2Provider) Put(ctx context.Context, target string, data map[string]any, token core.Token, opts core.CallOptions) (core.CallResult, error) {
	return p.Call(ctx, core.CallRequest{Method: http.MethodPut, URL: target, Data: data, Token: token, Options: opts})
}

func (p *OAuth2Provider) Patch(ctx context.Context, target string, data map[string]any, token core.Token, opts core.CallOptions) (core.CallResult, error) {
	return p.Call(ctx, core.CallRequest{Method: http.MethodPatch, URL: target, Data: data, Token: token, Options: opts})
}

func (p *OAuth2Provider) Delete(ctx context.Context, target string, data map[string]any, token core.Token, opts core.CallOptions) (core.CallResult, error) {
	return p.Call(ctx, core.CallRequest{Method: http.MethodDelete, URL: target, Data: data, Token: token, Options: opts})
}

// Call issues an authenticated request while keeping the token valid.
//
// A token whose deadline is older than now minus core.ProactiveRefreshWindow
// is refreshed before the request. Otherwise the request is sent as is and a
// first 401 triggers exactly one refresh and one retry; errors from the retry
// are returned unchanged. Whenever a refresh succeeded, result.Refresh holds
// the new token, including when the request that followed it failed.
//
// Concurrent calls sharing one stale token may each refresh. Callers that
// need a single refresh per credential must serialise calls themselves.
func (p *OAuth2Provider) Call(ctx context.Context, req core.CallRequest) (core.CallResult, error) {
	if p == nil {
		return core.CallResult{}, core.NewInternalError("providers: oauth2 provider is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := p.resolve(req.Options.Config)
	if err != nil {
		return core.CallResult{}, err
	}
	requestID := uuid.NewString()
	method := req.NormalizedMethod()
	tags := map[string]string{"provider": p.name, "method": method}

	state := core.ResolveTokenState(p.settings.now(), req.Token)
	p.observer.Debug(ctx, "lms: refresh decision", map[string]any{
		"provider":          p.name,
		"request_id":        requestID,
		"method":            method,
		"url":               req.URL,
		"deadline":          state.Deadline,
		"seconds_remaining": state.SecondsRemaining,
		"refresh_needed":    state.RefreshAhead,
	})

	if state.RefreshAhead {
		refreshed, err := p.refreshFor(ctx, req, requestID, core.RefreshReasonAhead)
		if err != nil {
			return core.CallResult{}, err
		}
		response, err := p.exchange(ctx, cfg, req, refreshed, requestID)
		p.recordCall(ctx, tags, response, err)
		return core.CallResult{Refresh: &refreshed, Response: response}, err
	}

	response, err := p.exchange(ctx, cfg, req, req.Token, requestID)
	if err == nil {
		p.recordCall(ctx, tags, response, nil)
		return core.CallResult{Response: response}, nil
	}
	if !core.IsAuthFailure(err) {
		p.recordCall(ctx, tags, response, err)
		return core.CallResult{}, err
	}

	p.observer.Debug(ctx, "lms: unauthorized, retrying once with refreshed token", map[string]any{
		"provider":   p.name,
		"request_id": requestID,
		"url":        req.URL,
	})
	refreshed, refreshErr := p.refreshFor(ctx, req, requestID, core.RefreshReasonOn401)
	if refreshErr != nil {
		return core.CallResult{}, refreshErr
	}
	response, err = p.exchange(ctx, cfg, req, refreshed, requestID)
	p.recordCall(ctx, tags, response, err)
	return core.CallResult{Refresh: &refreshed, Response: response}, err
}

func (p *OAuth2Provider) refreshFor(ctx context.Context, req core.CallRequest, requestID string, reason string) (core.Token, error) {
	p.observer.Count(ctx, core.MetricRefreshTotal, map[string]string{
		"provider":               p.name,
		core.RefreshReasonTagKey: reason,
	})
	refreshed, err := p.RefreshToken(ctx, req.Token.RefreshToken, req.Options, nil)
	if err != nil {
		p.observer.Error(ctx, "lms: token refresh failed", map[string]any{
			"provider":   p.name,
			"request_id": requestID,
			"reason":     reason,
			"error":      err.Error(),
		})
		return core.Token{}, err
	}
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = req.Token.RefreshToken
	}
	if refreshed.Info == nil && req.Token.Info != nil {
		refreshed.Info = req.Token.Clone().Info
	}
	p.observer.Info(ctx, "lms: token refreshed", map[string]any{
		"provider":   p.name,
		"request_id": requestID,
		"reason":     reason,
		"expires_in": refreshed.ExpiresIn,
	})
	return refreshed, nil
}

// exchange performs one authenticated HTTP round trip. GET, HEAD and DELETE
// carry data in the query string; other verbs encode it in the body.
func (p *OAuth2Provider) exchange(
	ctx context.Context,
	cfg core.ProviderConfig,
	req core.CallRequest,
	token core.Token,
	requestID string,
) (core.Response, error) {
	method := req.NormalizedMethod()
	headers := cloneHeaders(req.Options.Headers)
	headers["Authorization"] = token.AuthorizationHeader()

	outgoing := transport.Request{
		Method:  method,
		URL:     req.URL,
		Headers: headers,
		Timeout: p.timeout(req.Options),
		Metadata: map[string]any{
			"provider":   p.name,
			"request_id": requestID,
		},
	}
	if carriesQuery(method) {
		if len(req.Data) > 0 {
			outgoing.Query = core.FormValues(req.Data)
		}
	} else {
		encoded, err := core.EncodeBody(cfg.APIBodyType, req.Data)
		if err != nil {
			return core.Response{}, err
		}
		outgoing.Body = encoded.Body
		outgoing.Headers["Content-Type"] = encoded.ContentType
		outgoing.Metadata["body_type"] = string(cfg.APIBodyType)
	}

	res, err := p.rest.Do(ctx, outgoing)
	if err != nil {
		p.observer.Error(ctx, "lms: request failed", map[string]any{
			"provider":   p.name,
			"request_id": requestID,
			"method":     method,
			"url":        req.URL,
			"error":      err.Error(),
		})
		return core.Response{}, err
	}

	p.observer.Observe(ctx, core.MetricCallDuration, float64(res.Duration.Milliseconds()), map[string]string{
		"provider": p.name,
		"method":   method,
	})
	data := decodeBody(res.Body, res.Headers["Content-Type"])
	if !res.OK() {
		apiErr := core.NewAPIError(res.StatusCode, p.parseError(data), transport.Describe(outgoing))
		p.observer.Error(ctx, "lms: api error", map[string]any{
			"provider":   p.name,
			"request_id": requestID,
			"method":     method,
			"url":        req.URL,
			"status":     res.StatusCode,
			"data":       data,
		})
		return core.Response{Status: res.StatusCode, Data: data, Headers: res.Headers}, apiErr
	}
	return core.Response{
		Status:  res.StatusCode,
		Data:    data,
		Headers: res.Headers,
	}, nil
}

func (p *OAuth2Provider) recordCall(ctx context.Context, tags map[string]string, response core.Response, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	out := map[string]string{"status": status}
	for key, value := range tags {
		out[key] = value
	}
	if response.Status > 0 {
		out["status_code"] = strconv.Itoa(response.Status)
	}
	if kind := core.KindOf(err); kind != "" {
		out["error_kind"] = string(kind)
	}
	p.observer.Count(ctx, core.MetricCallTotal, out)
}

func carriesQuery(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead, http.MethodDelete:
		return true
	default:
		return false
	}
}
