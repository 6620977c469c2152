package core

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-config/cfgx"
	opts "github.com/goliatone/go-options"
)

// OptionsResolver merges provider configuration layers with the precedence
// defaults < adapter config < per-call overrides.
type OptionsResolver interface {
	Resolve(defaults ProviderConfig, adapter ProviderConfig, call ProviderConfig) (ProviderConfig, error)
}

type GoOptionsResolver struct{}

func (GoOptionsResolver) Resolve(defaults ProviderConfig, adapter ProviderConfig, call ProviderConfig) (ProviderConfig, error) {
	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			providerConfigToLayerMap(defaults, true),
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("adapter", 10),
			providerConfigToLayerMap(adapter, false),
			opts.WithSnapshotID[map[string]any]("adapter"),
		),
		opts.NewLayer(
			opts.NewScope("call", 20),
			providerConfigToLayerMap(call, false),
			opts.WithSnapshotID[map[string]any]("call"),
		),
	)
	if err != nil {
		return ProviderConfig{}, fmt.Errorf("core: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return ProviderConfig{}, fmt.Errorf("core: options merge failed: %w", err)
	}
	resolved, err := cfgx.Build[ProviderConfig](merged.Value,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[ProviderConfig]((*ProviderConfig).Validate),
	)
	if err != nil {
		return ProviderConfig{}, err
	}
	return resolved, nil
}

// IsZero reports whether no field is set, in which case an override layer
// contributes nothing.
func (c ProviderConfig) IsZero() bool {
	return len(providerConfigToLayerMap(c, false)) == 0
}

func providerConfigToLayerMap(cfg ProviderConfig, includeZero bool) map[string]any {
	layer := map[string]any{}
	setString := func(key string, value string) {
		value = strings.TrimSpace(value)
		if includeZero || value != "" {
			layer[key] = value
		}
	}
	setString("auth_url", cfg.AuthURL)
	setString("token_url", cfg.TokenURL)
	setString("refresh_url", cfg.RefreshURL)
	setString("api_url", cfg.APIURL)
	setString("client_id", cfg.ClientID)
	setString("client_secret", cfg.ClientSecret)
	setString("redirect_uri", cfg.RedirectURI)
	setString("provider_body_type", string(cfg.ProviderBodyType))
	setString("api_body_type", string(cfg.APIBodyType))
	if includeZero || len(cfg.Scope) > 0 {
		layer["scope"] = normalizeScope(cfg.Scope)
	}
	return layer
}

func normalizeScope(scope []string) []string {
	out := make([]string, 0, len(scope))
	seen := map[string]struct{}{}
	for _, item := range scope {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
