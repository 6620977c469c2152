package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-lms/core"
	"github.com/goliatone/go-lms/providers/canvas"
	"github.com/goliatone/go-lms/providers/classroom"
)

type TokenExchanger interface {
	GetToken(ctx context.Context, code string, overrides core.CallOptions, extras map[string]any) (core.Token, error)
	RefreshToken(ctx context.Context, refreshToken string, overrides core.CallOptions, extras map[string]any) (core.Token, error)
}

type CanvasMutations interface {
	CreateAssignment(ctx context.Context, req canvas.CreateAssignmentRequest, token core.Token) (core.CallResult, error)
	Submit(ctx context.Context, req canvas.SubmitRequest, token core.Token) (core.CallResult, error)
}

type ClassroomMutations interface {
	CreateAssignment(ctx context.Context, req classroom.CreateAssignmentRequest, token core.Token) (core.CallResult, error)
	AddAttachment(ctx context.Context, req classroom.AddAttachmentRequest, token core.Token) (core.CallResult, error)
	Submit(ctx context.Context, req classroom.SubmissionRef, token core.Token) (core.CallResult, error)
	Grade(ctx context.Context, req classroom.GradeRequest, token core.Token) (core.CallResult, error)
	AskBack(ctx context.Context, req classroom.SubmissionRef, token core.Token) (core.CallResult, error)
}

type ExchangeCodeCommand struct {
	exchanger TokenExchanger
}

func NewExchangeCodeCommand(exchanger TokenExchanger) *ExchangeCodeCommand {
	return &ExchangeCodeCommand{exchanger: exchanger}
}

func (c *ExchangeCodeCommand) Execute(ctx context.Context, msg ExchangeCodeMessage) error {
	if c == nil || c.exchanger == nil {
		return commandDependencyError("command: token exchanger is required")
	}
	token, err := c.exchanger.GetToken(ctx, msg.Code, msg.Options, msg.Extras)
	if err != nil {
		return err
	}
	storeResult(ctx, token)
	return nil
}

type RefreshTokenCommand struct {
	exchanger TokenExchanger
}

func NewRefreshTokenCommand(exchanger TokenExchanger) *RefreshTokenCommand {
	return &RefreshTokenCommand{exchanger: exchanger}
}

func (c *RefreshTokenCommand) Execute(ctx context.Context, msg RefreshTokenMessage) error {
	if c == nil || c.exchanger == nil {
		return commandDependencyError("command: token exchanger is required")
	}
	token, err := c.exchanger.RefreshToken(ctx, msg.RefreshToken, msg.Options, msg.Extras)
	if err != nil {
		return err
	}
	if token.RefreshToken == "" {
		token.RefreshToken = msg.RefreshToken
	}
	storeResult(ctx, token)
	return nil
}

type CanvasCreateAssignmentCommand struct {
	service CanvasMutations
}

func NewCanvasCreateAssignmentCommand(service CanvasMutations) *CanvasCreateAssignmentCommand {
	return &CanvasCreateAssignmentCommand{service: service}
}

func (c *CanvasCreateAssignmentCommand) Execute(ctx context.Context, msg CanvasCreateAssignmentMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: canvas service is required")
	}
	return storeCallResult(ctx)(c.service.CreateAssignment(ctx, msg.Request, msg.Token))
}

type CanvasSubmitCommand struct {
	service CanvasMutations
}

func NewCanvasSubmitCommand(service CanvasMutations) *CanvasSubmitCommand {
	return &CanvasSubmitCommand{service: service}
}

func (c *CanvasSubmitCommand) Execute(ctx context.Context, msg CanvasSubmitMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: canvas service is required")
	}
	return storeCallResult(ctx)(c.service.Submit(ctx, msg.Request, msg.Token))
}

type ClassroomCreateAssignmentCommand struct {
	service ClassroomMutations
}

func NewClassroomCreateAssignmentCommand(service ClassroomMutations) *ClassroomCreateAssignmentCommand {
	return &ClassroomCreateAssignmentCommand{service: service}
}

func (c *ClassroomCreateAssignmentCommand) Execute(ctx context.Context, msg ClassroomCreateAssignmentMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: classroom service is required")
	}
	return storeCallResult(ctx)(c.service.CreateAssignment(ctx, msg.Request, msg.Token))
}

type ClassroomAddAttachmentCommand struct {
	service ClassroomMutations
}

func NewClassroomAddAttachmentCommand(service ClassroomMutations) *ClassroomAddAttachmentCommand {
	return &ClassroomAddAttachmentCommand{service: service}
}

func (c *ClassroomAddAttachmentCommand) Execute(ctx context.Context, msg ClassroomAddAttachmentMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: classroom service is required")
	}
	return storeCallResult(ctx)(c.service.AddAttachment(ctx, msg.Request, msg.Token))
}

type ClassroomSubmitCommand struct {
	service ClassroomMutations
}

func NewClassroomSubmitCommand(service ClassroomMutations) *ClassroomSubmitCommand {
	return &ClassroomSubmitCommand{service: service}
}

func (c *ClassroomSubmitCommand) Execute(ctx context.Context, msg ClassroomSubmitMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: classroom service is required")
	}
	return storeCallResult(ctx)(c.service.Submit(ctx, msg.Request, msg.Token))
}

type ClassroomGradeCommand struct {
	service ClassroomMutations
}

func NewClassroomGradeCommand(service ClassroomMutations) *ClassroomGradeCommand {
	return &ClassroomGradeCommand{service: service}
}

func (c *ClassroomGradeCommand) Execute(ctx context.Context, msg ClassroomGradeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: classroom service is required")
	}
	return storeCallResult(ctx)(c.service.Grade(ctx, msg.Request, msg.Token))
}

type ClassroomAskBackCommand struct {
	service ClassroomMutations
}

func NewClassroomAskBackCommand(service ClassroomMutations) *ClassroomAskBackCommand {
	return &ClassroomAskBackCommand{service: service}
}

func (c *ClassroomAskBackCommand) Execute(ctx context.Context, msg ClassroomAskBackMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: classroom service is required")
	}
	return storeCallResult(ctx)(c.service.AskBack(ctx, msg.Request, msg.Token))
}

// storeCallResult stores the call result and passes err through. A result
// holding a refreshed token is stored even when the call failed so the caller
// can still persist the new credential.
func storeCallResult(ctx context.Context) func(core.CallResult, error) error {
	return func(result core.CallResult, err error) error {
		if err == nil || result.Refreshed() {
			storeResult(ctx, result)
		}
		return err
	}
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
