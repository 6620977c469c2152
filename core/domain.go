package core

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type BodyType string

const (
	BodyTypeForm BodyType = "form"
	BodyTypeJSON BodyType = "json"
)

func (b BodyType) Valid() bool {
	switch b {
	case BodyTypeForm, BodyTypeJSON:
		return true
	default:
		return false
	}
}

func (b BodyType) ContentType() string {
	if b == BodyTypeForm {
		return "application/x-www-form-urlencoded"
	}
	return "application/json"
}

func ParseBodyType(value string) (BodyType, error) {
	normalized := BodyType(strings.TrimSpace(strings.ToLower(value)))
	if normalized == "" {
		return "", nil
	}
	if !normalized.Valid() {
		return "", fmt.Errorf("core: unsupported body type %q", value)
	}
	return normalized, nil
}

const DefaultTokenType = "Bearer"

// Token is an OAuth2 credential for one principal at one provider. Tokens are
// owned by the caller and treated as immutable values.
type Token struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int64          `json:"expires_in"`
	LastRefresh  time.Time      `json:"lastRefresh"`
	Info         map[string]any `json:"info,omitempty"`
	IDToken      string         `json:"id_token,omitempty"`
}

// Deadline returns the unix second at which the token stops being valid.
func (t Token) Deadline() int64 {
	return t.LastRefresh.Unix() + t.ExpiresIn
}

func (t Token) Clone() Token {
	out := t
	if t.Info != nil {
		out.Info = cloneFields(t.Info)
	}
	return out
}

// ProviderConfig holds the per-provider OAuth2 and API settings. Values are
// built once per adapter and shared read-only across calls.
type ProviderConfig struct {
	AuthURL          string   `koanf:"auth_url" mapstructure:"auth_url" json:"auth_url,omitempty"`
	TokenURL         string   `koanf:"token_url" mapstructure:"token_url" json:"token_url,omitempty"`
	RefreshURL       string   `koanf:"refresh_url" mapstructure:"refresh_url" json:"refresh_url,omitempty"`
	APIURL           string   `koanf:"api_url" mapstructure:"api_url" json:"api_url,omitempty"`
	ClientID         string   `koanf:"client_id" mapstructure:"client_id" json:"client_id,omitempty"`
	ClientSecret     string   `koanf:"client_secret" mapstructure:"client_secret" json:"client_secret,omitempty"`
	Scope            []string `koanf:"scope" mapstructure:"scope" json:"scope,omitempty"`
	RedirectURI      string   `koanf:"redirect_uri" mapstructure:"redirect_uri" json:"redirect_uri,omitempty"`
	ProviderBodyType BodyType `koanf:"provider_body_type" mapstructure:"provider_body_type" json:"provider_body_type,omitempty"`
	APIBodyType      BodyType `koanf:"api_body_type" mapstructure:"api_body_type" json:"api_body_type,omitempty"`
}

func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		Scope:            []string{},
		ProviderBodyType: BodyTypeForm,
		APIBodyType:      BodyTypeJSON,
	}
}

func (c ProviderConfig) Validate() error {
	if c.ProviderBodyType != "" && !c.ProviderBodyType.Valid() {
		return fmt.Errorf("core: provider_body_type %q is invalid", c.ProviderBodyType)
	}
	if c.APIBodyType != "" && !c.APIBodyType.Valid() {
		return fmt.Errorf("core: api_body_type %q is invalid", c.APIBodyType)
	}
	return nil
}

// ResolvedRefreshURL falls back to the token url when no dedicated refresh
// endpoint is configured.
func (c ProviderConfig) ResolvedRefreshURL() string {
	if refreshURL := strings.TrimSpace(c.RefreshURL); refreshURL != "" {
		return refreshURL
	}
	return strings.TrimSpace(c.TokenURL)
}

// CallOptions carries per-call overrides. Non-zero Config fields take
// precedence over the adapter configuration.
type CallOptions struct {
	Config    ProviderConfig
	GrantType string
	Headers   map[string]string
	Timeout   time.Duration
}

type CallRequest struct {
	Method  string
	URL     string
	Data    map[string]any
	Token   Token
	Options CallOptions
}

func (r CallRequest) NormalizedMethod() string {
	method := strings.TrimSpace(strings.ToUpper(r.Method))
	if method == "" {
		return http.MethodGet
	}
	return method
}

// Response is the decoded outcome of a single resource exchange.
type Response struct {
	Status   int               `json:"status"`
	Data     any               `json:"data"`
	Headers  map[string]string `json:"headers,omitempty"`
	Provider string            `json:"name,omitempty"`
}

// CallResult pairs the response with the token minted during the call, if any.
// Refresh is nil unless a refresh happened; callers must persist it before
// issuing the next call with the same credential.
type CallResult struct {
	Refresh  *Token   `json:"refresh"`
	Response Response `json:"response"`
}

func (r CallResult) Refreshed() bool {
	return r.Refresh != nil
}

type ParsedError struct {
	Message string
}

// ErrorParser extracts a human message from a non-2xx response body. The
// body is the decoded JSON document when possible, the raw string otherwise.
type ErrorParser func(data any) ParsedError

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Clock func() time.Time

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}
