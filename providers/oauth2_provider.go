package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-lms/core"
	"github.com/goliatone/go-lms/transport"
)

const (
	GrantTypeAuthorizationCode = "authorization_code"
	GrantTypeRefreshToken      = "refresh_token"
)

// OAuth2Provider runs the OAuth2 flows for one provider and issues
// authenticated calls that keep the caller's token valid. It holds no token
// state; every call receives and returns tokens explicitly.
type OAuth2Provider struct {
	name        string
	cfg         core.ProviderConfig
	errorParser core.ErrorParser
	rest        *transport.RESTAdapter
	settings    settings
	observer    core.Observer
}

func NewOAuth2Provider(name string, cfg core.ProviderConfig, errorParser core.ErrorParser, opts ...Option) (*OAuth2Provider, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return nil, fmt.Errorf("providers: provider name is required")
	}
	s := buildSettings(opts)
	resolved, err := s.optionsResolver.Resolve(core.DefaultProviderConfig(), cfg, core.ProviderConfig{})
	if err != nil {
		return nil, fmt.Errorf("providers: resolve %q config: %w", name, err)
	}
	if strings.TrimSpace(resolved.ClientID) == "" {
		return nil, fmt.Errorf("providers: client id is required for provider %q", name)
	}
	if errorParser == nil {
		errorParser = DefaultErrorParser
	}
	_, logger := core.ResolveLogger(core.LoggerName+"."+name, s.loggerProvider, s.logger)

	return &OAuth2Provider{
		name:        name,
		cfg:         resolved,
		errorParser: errorParser,
		rest:        transport.NewRESTAdapter(s.httpClient),
		settings:    s,
		observer:    core.NewObserver(logger, s.metrics),
	}, nil
}

func (p *OAuth2Provider) Name() string {
	if p == nil {
		return ""
	}
	return p.name
}

// Config returns a copy of the resolved adapter configuration.
func (p *OAuth2Provider) Config() core.ProviderConfig {
	if p == nil {
		return core.ProviderConfig{}
	}
	out := p.cfg
	out.Scope = append([]string(nil), p.cfg.Scope...)
	return out
}

// AuthorizeURL builds the consent page url. The query carries the space
// joined scope and the client id, followed by extras.
func (p *OAuth2Provider) AuthorizeURL(overrides core.ProviderConfig, extras map[string]any) (string, error) {
	if p == nil {
		return "", core.NewInternalError("providers: oauth2 provider is nil")
	}
	cfg, err := p.resolve(overrides)
	if err != nil {
		return "", err
	}
	authURL := strings.TrimSpace(cfg.AuthURL)
	if authURL == "" {
		return "", missingEndpoint(p.name, "auth_url")
	}

	query := map[string]any{
		"scope":     strings.Join(cfg.Scope, " "),
		"client_id": cfg.ClientID,
	}
	for key, value := range extras {
		query[key] = value
	}
	p.observer.Debug(context.Background(), "lms: generating auth url", map[string]any{
		"provider": p.name,
		"url":      authURL,
		"query":    query,
	})

	separator := "?"
	if strings.Contains(authURL, "?") {
		separator = "&"
	}
	return authURL + separator + core.EncodeQuery(query), nil
}

// GetToken exchanges an authorization code at the token endpoint.
func (p *OAuth2Provider) GetToken(ctx context.Context, code string, overrides core.CallOptions, extras map[string]any) (core.Token, error) {
	if p == nil {
		return core.Token{}, core.NewInternalError("providers: oauth2 provider is nil")
	}
	cfg, err := p.resolve(overrides.Config)
	if err != nil {
		return core.Token{}, err
	}
	grantType := firstNonEmpty(overrides.GrantType, GrantTypeAuthorizationCode)
	data := map[string]any{
		"code":          code,
		"client_id":     cfg.ClientID,
		"client_secret": cfg.ClientSecret,
		"redirect_uri":  cfg.RedirectURI,
		"grant_type":    grantType,
	}
	for key, value := range extras {
		data[key] = value
	}
	p.observer.Debug(ctx, "lms: getting token from code", map[string]any{
		"provider":  p.name,
		"url":       cfg.TokenURL,
		"data":      data,
		"body_type": string(cfg.ProviderBodyType),
	})
	return p.postToken(ctx, cfg.TokenURL, data, cfg.ProviderBodyType, overrides)
}

// RefreshToken runs the refresh grant. Providers commonly omit refresh_token
// in the response; callers that keep the returned token must carry the
// original refresh token over in that case.
func (p *OAuth2Provider) RefreshToken(ctx context.Context, refreshToken string, overrides core.CallOptions, extras map[string]any) (core.Token, error) {
	if p == nil {
		return core.Token{}, core.NewInternalError("providers: oauth2 provider is nil")
	}
	cfg, err := p.resolve(overrides.Config)
	if err != nil {
		return core.Token{}, err
	}
	grantType := firstNonEmpty(overrides.GrantType, GrantTypeRefreshToken)
	data := map[string]any{
		"client_id":     cfg.ClientID,
		"client_secret": cfg.ClientSecret,
		"grant_type":    grantType,
		"refresh_token": refreshToken,
	}
	for key, value := range extras {
		data[key] = value
	}
	refreshURL := cfg.ResolvedRefreshURL()
	p.observer.Debug(ctx, "lms: refreshing token", map[string]any{
		"provider":  p.name,
		"url":       refreshURL,
		"data":      data,
		"body_type": string(cfg.ProviderBodyType),
	})
	return p.postToken(ctx, refreshURL, data, cfg.ProviderBodyType, overrides)
}

func (p *OAuth2Provider) postToken(
	ctx context.Context,
	tokenURL string,
	data map[string]any,
	bodyType core.BodyType,
	overrides core.CallOptions,
) (core.Token, error) {
	if strings.TrimSpace(tokenURL) == "" {
		return core.Token{}, missingEndpoint(p.name, "token_url")
	}
	encoded, err := core.EncodeBody(bodyType, data)
	if err != nil {
		return core.Token{}, err
	}
	headers := cloneHeaders(overrides.Headers)
	headers["Content-Type"] = encoded.ContentType

	req := transport.Request{
		Method:   http.MethodPost,
		URL:      tokenURL,
		Headers:  headers,
		Body:     encoded.Body,
		Timeout:  p.timeout(overrides),
		Metadata: map[string]any{"provider": p.name, "body_type": string(bodyType), "data": data},
	}
	res, err := p.rest.Do(ctx, req)
	if err != nil {
		p.observer.Error(ctx, "lms: token request failed", map[string]any{"provider": p.name, "url": tokenURL, "error": err.Error()})
		return core.Token{}, err
	}
	decoded := decodeBody(res.Body, res.Headers["Content-Type"])
	if !res.OK() {
		apiErr := core.NewAPIError(res.StatusCode, p.parseError(decoded), transport.Describe(req))
		p.observer.Error(ctx, "lms: token endpoint error", map[string]any{
			"provider": p.name,
			"url":      tokenURL,
			"status":   res.StatusCode,
			"error":    apiErr.Error(),
		})
		return core.Token{}, apiErr
	}

	token, ok := tokenFromPayload(decoded)
	if !ok {
		return core.Token{}, core.NewAPIError(
			res.StatusCode,
			"providers: token endpoint response missing access token",
			transport.Describe(req),
		)
	}
	token.LastRefresh = p.settings.now().UTC()
	return token, nil
}

func (p *OAuth2Provider) resolve(overrides core.ProviderConfig) (core.ProviderConfig, error) {
	if overrides.IsZero() {
		return p.Config(), nil
	}
	resolved, err := p.settings.optionsResolver.Resolve(core.DefaultProviderConfig(), p.cfg, overrides)
	if err != nil {
		return core.ProviderConfig{}, fmt.Errorf("providers: resolve %q call options: %w", p.name, err)
	}
	return resolved, nil
}

func (p *OAuth2Provider) parseError(data any) string {
	message := strings.TrimSpace(p.errorParser(data).Message)
	if message == "" {
		message = strings.TrimSpace(DefaultErrorParser(data).Message)
	}
	return message
}

func (p *OAuth2Provider) timeout(opts core.CallOptions) time.Duration {
	if opts.Timeout > 0 {
		return opts.Timeout
	}
	return p.settings.requestTimeout
}

// DefaultErrorParser reads the common OAuth2 and REST error shapes.
func DefaultErrorParser(data any) core.ParsedError {
	switch typed := data.(type) {
	case string:
		return core.ParsedError{Message: strings.TrimSpace(typed)}
	case map[string]any:
		if description := readAnyString(typed["error_description"]); description != "" {
			return core.ParsedError{Message: description}
		}
		if message := readAnyString(typed["message"]); message != "" {
			return core.ParsedError{Message: message}
		}
		switch nested := typed["error"].(type) {
		case map[string]any:
			if message := readAnyString(nested["message"]); message != "" {
				return core.ParsedError{Message: message}
			}
		case string:
			return core.ParsedError{Message: strings.TrimSpace(nested)}
		}
	}
	return core.ParsedError{}
}

func decodeBody(body []byte, contentType string) any {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil
	}
	contentType = strings.ToLower(contentType)
	if strings.Contains(contentType, "x-www-form-urlencoded") {
		if values, err := url.ParseQuery(trimmed); err == nil {
			return formToMap(values)
		}
	}
	var decoded any
	decoder := json.NewDecoder(strings.NewReader(trimmed))
	decoder.UseNumber()
	if err := decoder.Decode(&decoded); err == nil {
		return decoded
	}
	if strings.Contains(contentType, "text/plain") {
		if values, err := url.ParseQuery(trimmed); err == nil && len(values) > 0 && values.Get("access_token") != "" {
			return formToMap(values)
		}
	}
	return trimmed
}

func formToMap(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for key, items := range values {
		if len(items) == 1 {
			out[key] = items[0]
			continue
		}
		list := make([]any, 0, len(items))
		for _, item := range items {
			list = append(list, item)
		}
		out[key] = list
	}
	return out
}

func tokenFromPayload(payload any) (core.Token, bool) {
	decoded, ok := payload.(map[string]any)
	if !ok {
		return core.Token{}, false
	}
	token := core.Token{
		AccessToken:  readAnyString(decoded["access_token"]),
		RefreshToken: readAnyString(decoded["refresh_token"]),
		TokenType:    readAnyString(decoded["token_type"]),
		ExpiresIn:    readAnyInt64(decoded["expires_in"]),
		IDToken:      readAnyString(decoded["id_token"]),
	}
	if info, ok := decoded["info"].(map[string]any); ok {
		token.Info = core.CloneFields(info)
	}
	if token.AccessToken == "" {
		return core.Token{}, false
	}
	if token.TokenType == "" {
		token.TokenType = core.DefaultTokenType
	}
	return token, true
}

func readAnyString(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(typed)
	case json.Number:
		return strings.TrimSpace(typed.String())
	case fmt.Stringer:
		return strings.TrimSpace(typed.String())
	default:
		return strings.TrimSpace(fmt.Sprint(value))
	}
}

func readAnyInt64(value any) int64 {
	switch typed := value.(type) {
	case int:
		return int64(typed)
	case int64:
		return typed
	case float64:
		return int64(typed)
	case json.Number:
		parsed, err := typed.Int64()
		if err == nil {
			return parsed
		}
		floatParsed, floatErr := typed.Float64()
		if floatErr == nil {
			return int64(floatParsed)
		}
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err == nil {
			return parsed
		}
	}
	return 0
}

// missingEndpoint reports an endpoint left unset by every config layer. It
// is raised before any request is sent.
func missingEndpoint(provider string, field string) error {
	var fields core.FieldErrors
	fields.Add(field, "is required")
	return fields.Err(fmt.Sprintf("providers: %s is required for provider %q", field, provider))
}

func cloneHeaders(input map[string]string) map[string]string {
	out := make(map[string]string, len(input)+2)
	for key, value := range input {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			continue
		}
		out[trimmed] = strings.TrimSpace(value)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
