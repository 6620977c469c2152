package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-config/cfgx"
)

type Config struct {
	ServiceName string         `koanf:"service_name" mapstructure:"service_name"`
	Canvas      ProviderConfig `koanf:"canvas" mapstructure:"canvas"`
	Classroom   ProviderConfig `koanf:"classroom" mapstructure:"classroom"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "lms",
		Canvas:      DefaultProviderConfig(),
		Classroom:   DefaultProviderConfig(),
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if err := c.Canvas.Validate(); err != nil {
		return fmt.Errorf("core: canvas: %w", err)
	}
	if err := c.Classroom.Validate(); err != nil {
		return fmt.Errorf("core: classroom: %w", err)
	}
	return nil
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type StaticRawConfigLoader struct {
	Values map[string]any
}

func (l StaticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	return cloneFields(l.Values), nil
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = StaticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg, err := cfgx.Build[Config](raw,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var _ ConfigProvider = (*CfgxConfigProvider)(nil)
