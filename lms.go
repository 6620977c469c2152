package lms

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-lms/core"
	"github.com/goliatone/go-lms/providers"
)

type Config = core.Config

type ProviderConfig = core.ProviderConfig

type Token = core.Token

type CallOptions = core.CallOptions

type CallResult = core.CallResult

type Response = core.Response

type RawConfigLoader = core.RawConfigLoader

type StaticRawConfigLoader = core.StaticRawConfigLoader

type Option = providers.Option

var (
	WithHTTPClient           = providers.WithHTTPClient
	WithLogger               = providers.WithLogger
	WithLoggerProvider       = providers.WithLoggerProvider
	WithMetricsRecorder      = providers.WithMetricsRecorder
	WithClock                = providers.WithClock
	WithOptionsResolver      = providers.WithOptionsResolver
	WithRequestTimeout       = providers.WithRequestTimeout
	KindOf                   = core.KindOf
	StatusOf                 = core.StatusOf
	ShouldRefreshProactively = core.ShouldRefreshProactively
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// LoadConfig builds a validated Config from raw values layered over
// DefaultConfig.
func LoadConfig(ctx context.Context, loader RawConfigLoader) (Config, error) {
	return core.NewCfgxConfigProvider(loader).Load(ctx, DefaultConfig())
}

// Setup loads configuration and builds a facade over every provider that has
// a client id configured. At least one provider must be configured.
func Setup(ctx context.Context, loader RawConfigLoader, opts ...Option) (*Facade, error) {
	cfg, err := LoadConfig(ctx, loader)
	if err != nil {
		return nil, fmt.Errorf("lms: load config: %w", err)
	}
	return New(cfg, opts...)
}

// New builds a facade from an already loaded Config.
func New(cfg Config, opts ...Option) (*Facade, error) {
	var facadeOpts []FacadeOption
	if strings.TrimSpace(cfg.Canvas.ClientID) != "" {
		provider, err := CanvasProvider(cfg.Canvas, opts...)
		if err != nil {
			return nil, err
		}
		facadeOpts = append(facadeOpts, WithCanvas(provider))
	}
	if strings.TrimSpace(cfg.Classroom.ClientID) != "" {
		provider, err := ClassroomProvider(cfg.Classroom, opts...)
		if err != nil {
			return nil, err
		}
		facadeOpts = append(facadeOpts, WithClassroom(provider))
	}
	return NewFacade(facadeOpts...)
}
