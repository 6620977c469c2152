package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-lms/core"
)

// LMSAdapter is the shared base of the LMS endpoint catalogs. It resolves
// routes against the provider api url and tags responses with the adapter
// name.
type LMSAdapter struct {
	name     string
	apiURL   *url.URL
	provider *OAuth2Provider
}

func NewLMSAdapter(name string, cfg core.ProviderConfig, errorParser core.ErrorParser, opts ...Option) (*LMSAdapter, error) {
	provider, err := NewOAuth2Provider(name, cfg, errorParser, opts...)
	if err != nil {
		return nil, err
	}
	return newLMSAdapter(provider)
}

func newLMSAdapter(provider *OAuth2Provider) (*LMSAdapter, error) {
	apiURL := strings.TrimSpace(provider.cfg.APIURL)
	if apiURL == "" {
		return nil, fmt.Errorf("providers: api url is required for provider %q", provider.name)
	}
	parsed, err := url.Parse(apiURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("providers: api url %q is not absolute for provider %q", apiURL, provider.name)
	}
	return &LMSAdapter{
		name:     provider.name,
		apiURL:   parsed,
		provider: provider,
	}, nil
}

func (a *LMSAdapter) Name() string {
	if a == nil {
		return ""
	}
	return a.name
}

func (a *LMSAdapter) Provider() *OAuth2Provider {
	if a == nil {
		return nil
	}
	return a.provider
}

// ResolveURL passes absolute urls through and resolves anything else against
// the api url.
func (a *LMSAdapter) ResolveURL(target string) (string, error) {
	if a == nil || a.apiURL == nil {
		return "", core.NewInternalError("providers: lms adapter is nil")
	}
	target = strings.TrimSpace(target)
	ref, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("providers: invalid route %q: %w", target, err)
	}
	if ref.Scheme != "" && ref.Host != "" {
		return ref.String(), nil
	}
	return a.apiURL.ResolveReference(ref).String(), nil
}

func (a *LMSAdapter) AuthorizeURL(overrides core.ProviderConfig, extras map[string]any) (string, error) {
	return a.Provider().AuthorizeURL(overrides, extras)
}

func (a *LMSAdapter) GetToken(ctx context.Context, code string, overrides core.CallOptions, extras map[string]any) (core.Token, error) {
	return a.Provider().GetToken(ctx, code, overrides, extras)
}

func (a *LMSAdapter) RefreshToken(ctx context.Context, refreshToken string, overrides core.CallOptions, extras map[string]any) (core.Token, error) {
	return a.Provider().RefreshToken(ctx, refreshToken, overrides, extras)
}

func (a *LMSAdapter) Call(
	ctx context.Context,
	method string,
	route string,
	data map[string]any,
	token core.Token,
	opts core.CallOptions,
) (core.CallResult, error) {
	if a == nil || a.provider == nil {
		return core.CallResult{}, core.NewInternalError("providers: lms adapter is nil")
	}
	target, err := a.ResolveURL(route)
	if err != nil {
		return core.CallResult{}, err
	}
	result, err := a.provider.Call(ctx, core.CallRequest{
		Method:  method,
		URL:     target,
		Data:    data,
		Token:   token,
		Options: opts,
	})
	result.Response.Provider = a.name
	return result, err
}

func (a *LMSAdapter) Get(ctx context.Context, route string, data map[string]any, token core.Token, opts core.CallOptions) (core.CallResult, error) {
	return a.Call(ctx, http.MethodGet, route, data, token, opts)
}

func (a *LMSAdapter) Post(ctx context.Context, route string, data map[string]any, token core.Token, opts core.CallOptions) (core.CallResult, error) {
	return a.Call(ctx, http.MethodPost, route, data, token, opts)
}

func (a *LMSAdapter) Put(ctx context.Context, route string, data map[string]any, token core.Token, opts core.CallOptions) (core.CallResult, error) {
	return a.Call(ctx, http.MethodPut, route, data, token, opts)
}

func (a *LMSAdapter) Patch(ctx context.Context, route string, data map[string]any, token core.Token, opts core.CallOptions) (core.CallResult, error) {
	return a.Call(ctx, http.MethodPatch, route, data, token, opts)
}

func (a *LMSAdapter) Delete(ctx context.Context, route string, data map[string]any, token core.Token, opts core.CallOptions) (core.CallResult, error) {
	return a.Call(ctx, http.MethodDelete, route, data, token, opts)
}
