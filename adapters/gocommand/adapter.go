package gocommand

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	lms "github.com/goliatone/go-lms"
)

// ValidateMessageContract enforces Type() plus optional Validate() contract.
func ValidateMessageContract(msg any) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(command.Message)
	if !ok {
		return fmt.Errorf("gocommand: message must implement Type() string")
	}
	if strings.TrimSpace(m.Type()) == "" {
		return fmt.Errorf("gocommand: message type is required")
	}
	return nil
}

type RegistryAdapter struct {
	registry *command.Registry
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) register(handler any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(handler)
}

func (a *RegistryAdapter) Initialize() error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.Initialize()
}

// Subscriptions collects what RegisterFacade subscribed so callers can
// detach the whole set at once.
type Subscriptions []commanddispatcher.Subscription

func (s Subscriptions) Unsubscribe() {
	for _, sub := range s {
		if sub != nil {
			sub.Unsubscribe()
		}
	}
}

// RegisterFacade subscribes every handler the facade exposes. Token
// messages are shared between providers, so the exchange and refresh
// handlers come from canvas when it is configured and from classroom
// otherwise.
func RegisterFacade(adapter *RegistryAdapter, facade *lms.Facade, runnerOpts ...runner.Option) (Subscriptions, error) {
	if facade == nil {
		return nil, fmt.Errorf("gocommand: facade is required")
	}
	commands, queries := facade.Commands(), facade.Queries()
	var subs Subscriptions
	track := func(sub commanddispatcher.Subscription, err error) error {
		if err != nil {
			subs.Unsubscribe()
			return err
		}
		subs = append(subs, sub)
		return nil
	}

	exchange, refresh := commands.Canvas.ExchangeCode, commands.Canvas.RefreshToken
	if exchange == nil {
		exchange, refresh = commands.Classroom.ExchangeCode, commands.Classroom.RefreshToken
	}
	steps := []func() error{}
	if exchange != nil {
		steps = append(steps,
			func() error { return track(RegisterAndSubscribe(adapter, exchange, runnerOpts...)) },
			func() error { return track(RegisterAndSubscribe(adapter, refresh, runnerOpts...)) },
		)
	}
	if c := commands.Canvas; c.CreateAssignment != nil {
		q := queries.Canvas
		steps = append(steps,
			func() error { return track(RegisterAndSubscribe(adapter, c.CreateAssignment, runnerOpts...)) },
			func() error { return track(RegisterAndSubscribe(adapter, c.Submit, runnerOpts...)) },
			func() error { return track(RegisterAndSubscribeQuery(adapter, q.ListCourses, runnerOpts...)) },
			func() error { return track(RegisterAndSubscribeQuery(adapter, q.GetProfile, runnerOpts...)) },
		)
	}
	if c := commands.Classroom; c.CreateAssignment != nil {
		q := queries.Classroom
		steps = append(steps,
			func() error { return track(RegisterAndSubscribe(adapter, c.CreateAssignment, runnerOpts...)) },
			func() error { return track(RegisterAndSubscribe(adapter, c.AddAttachment, runnerOpts...)) },
			func() error { return track(RegisterAndSubscribe(adapter, c.Submit, runnerOpts...)) },
			func() error { return track(RegisterAndSubscribe(adapter, c.Grade, runnerOpts...)) },
			func() error { return track(RegisterAndSubscribe(adapter, c.AskBack, runnerOpts...)) },
			func() error { return track(RegisterAndSubscribeQuery(adapter, q.ListCourses, runnerOpts...)) },
			func() error { return track(RegisterAndSubscribeQuery(adapter, q.GetProfile, runnerOpts...)) },
			func() error { return track(RegisterAndSubscribeQuery(adapter, q.ListSubmissions, runnerOpts...)) },
		)
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return subs, nil
}

func Dispatch[T any](ctx context.Context, msg T) error {
	return commanddispatcher.Dispatch(ctx, msg)
}

// DispatchWithResult dispatches msg and returns what the handler stored in
// the result collector. ok is false when nothing was stored.
func DispatchWithResult[T any, R any](ctx context.Context, msg T) (R, bool, error) {
	collector := command.NewResult[R]()
	err := commanddispatcher.Dispatch(command.ContextWithResult(ctx, collector), msg)
	value, ok := collector.Load()
	return value, ok, err
}

func Query[T any, R any](ctx context.Context, msg T) (R, error) {
	return commanddispatcher.Query[T, R](ctx, msg)
}

func RegisterAndSubscribe[T any](
	adapter *RegistryAdapter,
	cmd command.Commander[T],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if cmd == nil {
		return nil, fmt.Errorf("gocommand: command is required")
	}
	subscription := commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
	if err := adapter.register(cmd); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

func RegisterAndSubscribeQuery[T any, R any](
	adapter *RegistryAdapter,
	qry command.Querier[T, R],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if qry == nil {
		return nil, fmt.Errorf("gocommand: query is required")
	}
	subscription := commanddispatcher.SubscribeQuery(qry, runnerOpts...)
	if err := adapter.register(qry); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}
