package providers

import (
	"time"

	"github.com/goliatone/go-lms/core"
)

const defaultRequestTimeout = 30 * time.Second

type settings struct {
	httpClient      core.HTTPDoer
	logger          core.Logger
	loggerProvider  core.LoggerProvider
	metrics         core.MetricsRecorder
	now             core.Clock
	optionsResolver core.OptionsResolver
	requestTimeout  time.Duration
}

type Option func(*settings)

func WithHTTPClient(client core.HTTPDoer) Option {
	return func(s *settings) {
		s.httpClient = client
	}
}

func WithLogger(logger core.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return func(s *settings) {
		s.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder core.MetricsRecorder) Option {
	return func(s *settings) {
		s.metrics = recorder
	}
}

// WithClock replaces the time source used for refresh decisions and
// LastRefresh stamps.
func WithClock(now core.Clock) Option {
	return func(s *settings) {
		s.now = now
	}
}

func WithOptionsResolver(resolver core.OptionsResolver) Option {
	return func(s *settings) {
		s.optionsResolver = resolver
	}
}

func WithRequestTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		s.requestTimeout = timeout
	}
}

func defaultSettings() settings {
	return settings{
		metrics: core.NopMetricsRecorder{},
		now: func() time.Time {
			return time.Now().UTC()
		},
		optionsResolver: core.GoOptionsResolver{},
		requestTimeout:  defaultRequestTimeout,
	}
}

func buildSettings(opts []Option) settings {
	s := defaultSettings()
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.now == nil {
		s.now = defaultSettings().now
	}
	if s.metrics == nil {
		s.metrics = core.NopMetricsRecorder{}
	}
	if s.optionsResolver == nil {
		s.optionsResolver = core.GoOptionsResolver{}
	}
	if s.requestTimeout <= 0 {
		s.requestTimeout = defaultRequestTimeout
	}
	return s
}
