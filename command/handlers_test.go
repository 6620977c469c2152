package command

import (
	"context"
	"fmt"
	"testing"
	"time"

	gocmd "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-lms/core"
	"github.com/goliatone/go-lms/providers/canvas"
	"github.com/goliatone/go-lms/providers/classroom"
)

func validToken() core.Token {
	return core.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		ExpiresIn:    3600,
		LastRefresh:  time.Now().UTC(),
	}
}

func TestExchangeCodeCommand_StoresToken(t *testing.T) {
	exchanger := stubTokenExchanger{
		getTokenFn: func(_ context.Context, code string, _ core.CallOptions, extras map[string]any) (core.Token, error) {
			if code != "code_1" || extras["access_type"] != "offline" {
				t.Fatalf("unexpected exchange input: %q %#v", code, extras)
			}
			return core.Token{AccessToken: "acc", RefreshToken: "ref"}, nil
		},
	}
	collector := gocmd.NewResult[core.Token]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	err := NewExchangeCodeCommand(exchanger).Execute(ctx, ExchangeCodeMessage{
		Code:   "code_1",
		Extras: map[string]any{"access_type": "offline"},
	})
	if err != nil {
		t.Fatalf("execute exchange: %v", err)
	}
	token, ok := collector.Load()
	if !ok || token.AccessToken != "acc" {
		t.Fatalf("expected stored token, got %#v", token)
	}
}

func TestRefreshTokenCommand_CarriesRefreshToken(t *testing.T) {
	exchanger := stubTokenExchanger{
		refreshFn: func(_ context.Context, refreshToken string, _ core.CallOptions, _ map[string]any) (core.Token, error) {
			if refreshToken != "ref_1" {
				t.Fatalf("unexpected refresh token %q", refreshToken)
			}
			return core.Token{AccessToken: "acc_2"}, nil
		},
	}
	collector := gocmd.NewResult[core.Token]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	if err := NewRefreshTokenCommand(exchanger).Execute(ctx, RefreshTokenMessage{RefreshToken: "ref_1"}); err != nil {
		t.Fatalf("execute refresh: %v", err)
	}
	token, _ := collector.Load()
	if token.AccessToken != "acc_2" || token.RefreshToken != "ref_1" {
		t.Fatalf("unexpected refreshed token %#v", token)
	}
}

func TestCanvasCreateAssignmentCommand_StoresCallResult(t *testing.T) {
	refreshed := validToken()
	refreshed.AccessToken = "access_2"
	svc := stubCanvas{
		createFn: func(_ context.Context, req canvas.CreateAssignmentRequest, token core.Token) (core.CallResult, error) {
			if req.CourseID != "11" || token.AccessToken != "access" {
				t.Fatalf("unexpected create input %#v %#v", req, token)
			}
			return core.CallResult{Refresh: &refreshed, Response: core.Response{Status: 200, Provider: canvas.ProviderID}}, nil
		},
	}
	collector := gocmd.NewResult[core.CallResult]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	err := NewCanvasCreateAssignmentCommand(svc).Execute(ctx, CanvasCreateAssignmentMessage{
		Request: canvas.CreateAssignmentRequest{CourseID: "11"},
		Token:   validToken(),
	})
	if err != nil {
		t.Fatalf("execute create assignment: %v", err)
	}
	result, ok := collector.Load()
	if !ok || !result.Refreshed() || result.Refresh.AccessToken != "access_2" {
		t.Fatalf("expected stored result with refreshed token, got %#v", result)
	}
}

func TestCallCommands_StoreRefreshedTokenOnFailure(t *testing.T) {
	refreshed := validToken()
	refreshed.AccessToken = "access_2"
	failure := core.NewAPIError(404, "not found", nil)
	svc := stubClassroom{
		gradeFn: func(context.Context, classroom.GradeRequest, core.Token) (core.CallResult, error) {
			return core.CallResult{Refresh: &refreshed}, failure
		},
	}
	collector := gocmd.NewResult[core.CallResult]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	err := NewClassroomGradeCommand(svc).Execute(ctx, ClassroomGradeMessage{Token: validToken()})
	if err != failure {
		t.Fatalf("expected service error passthrough, got %v", err)
	}
	result, ok := collector.Load()
	if !ok || result.Refresh == nil {
		t.Fatalf("expected refreshed token to be stored with the failure")
	}
}

func TestCallCommands_SkipStoreOnPlainFailure(t *testing.T) {
	svc := stubClassroom{
		submitFn: func(context.Context, classroom.SubmissionRef, core.Token) (core.CallResult, error) {
			return core.CallResult{}, fmt.Errorf("boom")
		},
	}
	collector := gocmd.NewResult[core.CallResult]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	if err := NewClassroomSubmitCommand(svc).Execute(ctx, ClassroomSubmitMessage{Token: validToken()}); err == nil {
		t.Fatalf("expected error")
	}
	if _, ok := collector.Load(); ok {
		t.Fatalf("expected no stored result")
	}
}

func TestClassroomCommands_Delegate(t *testing.T) {
	calls := map[string]int{}
	svc := stubClassroom{
		createFn: func(context.Context, classroom.CreateAssignmentRequest, core.Token) (core.CallResult, error) {
			calls["create"]++
			return core.CallResult{}, nil
		},
		attachFn: func(context.Context, classroom.AddAttachmentRequest, core.Token) (core.CallResult, error) {
			calls["attach"]++
			return core.CallResult{}, nil
		},
		askBackFn: func(context.Context, classroom.SubmissionRef, core.Token) (core.CallResult, error) {
			calls["return"]++
			return core.CallResult{}, nil
		},
	}
	ctx := context.Background()
	if err := NewClassroomCreateAssignmentCommand(svc).Execute(ctx, ClassroomCreateAssignmentMessage{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := NewClassroomAddAttachmentCommand(svc).Execute(ctx, ClassroomAddAttachmentMessage{}); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := NewClassroomAskBackCommand(svc).Execute(ctx, ClassroomAskBackMessage{}); err != nil {
		t.Fatalf("ask back: %v", err)
	}
	for _, name := range []string{"create", "attach", "return"} {
		if calls[name] != 1 {
			t.Fatalf("expected one %s call, got %d", name, calls[name])
		}
	}
}

func TestCommands_NilServiceReturnsRichError(t *testing.T) {
	var cmd *CanvasSubmitCommand
	err := cmd.Execute(context.Background(), CanvasSubmitMessage{})
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal category, got %q", rich.Category)
	}
}

func TestMessageValidation(t *testing.T) {
	ref := classroom.SubmissionRef{CourseID: "c1", CourseWorkID: "cw1", SubmissionID: "s1"}
	cases := []struct {
		name    string
		msg     interface{ Validate() error }
		wantErr bool
	}{
		{name: "exchange missing code", msg: ExchangeCodeMessage{}, wantErr: true},
		{name: "exchange ok", msg: ExchangeCodeMessage{Code: "c"}},
		{name: "refresh missing token", msg: RefreshTokenMessage{}, wantErr: true},
		{name: "canvas submit missing token", msg: CanvasSubmitMessage{}, wantErr: true},
		{name: "canvas submit ok", msg: CanvasSubmitMessage{
			Request: canvas.SubmitRequest{CourseID: "1", AssignmentID: "2", URL: "https://games.example/r", Result: map[string]any{}},
			Token:   validToken(),
		}},
		{name: "classroom submit incomplete token", msg: ClassroomSubmitMessage{Request: ref, Token: core.Token{AccessToken: "a"}}, wantErr: true},
		{name: "classroom submit ok", msg: ClassroomSubmitMessage{Request: ref, Token: validToken()}},
		{name: "classroom grade missing submission", msg: ClassroomGradeMessage{
			Request: classroom.GradeRequest{CourseID: "c1", CourseWorkID: "cw1"},
			Token:   validToken(),
		}, wantErr: true},
		{name: "classroom attach missing link", msg: ClassroomAddAttachmentMessage{
			Request: classroom.AddAttachmentRequest{SubmissionRef: ref},
			Token:   validToken(),
		}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr && core.KindOf(err) != core.ErrorKindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected valid message, got %v", err)
			}
		})
	}
}

type stubTokenExchanger struct {
	getTokenFn func(context.Context, string, core.CallOptions, map[string]any) (core.Token, error)
	refreshFn  func(context.Context, string, core.CallOptions, map[string]any) (core.Token, error)
}

func (s stubTokenExchanger) GetToken(ctx context.Context, code string, overrides core.CallOptions, extras map[string]any) (core.Token, error) {
	if s.getTokenFn == nil {
		return core.Token{}, nil
	}
	return s.getTokenFn(ctx, code, overrides, extras)
}

func (s stubTokenExchanger) RefreshToken(ctx context.Context, refreshToken string, overrides core.CallOptions, extras map[string]any) (core.Token, error) {
	if s.refreshFn == nil {
		return core.Token{}, nil
	}
	return s.refreshFn(ctx, refreshToken, overrides, extras)
}

type stubCanvas struct {
	createFn func(context.Context, canvas.CreateAssignmentRequest, core.Token) (core.CallResult, error)
	submitFn func(context.Context, canvas.SubmitRequest, core.Token) (core.CallResult, error)
}

func (s stubCanvas) CreateAssignment(ctx context.Context, req canvas.CreateAssignmentRequest, token core.Token) (core.CallResult, error) {
	if s.createFn == nil {
		return core.CallResult{}, nil
	}
	return s.createFn(ctx, req, token)
}

func (s stubCanvas) Submit(ctx context.Context, req canvas.SubmitRequest, token core.Token) (core.CallResult, error) {
	if s.submitFn == nil {
		return core.CallResult{}, nil
	}
	return s.submitFn(ctx, req, token)
}

type stubClassroom struct {
	createFn  func(context.Context, classroom.CreateAssignmentRequest, core.Token) (core.CallResult, error)
	attachFn  func(context.Context, classroom.AddAttachmentRequest, core.Token) (core.CallResult, error)
	submitFn  func(context.Context, classroom.SubmissionRef, core.Token) (core.CallResult, error)
	gradeFn   func(context.Context, classroom.GradeRequest, core.Token) (core.CallResult, error)
	askBackFn func(context.Context, classroom.SubmissionRef, core.Token) (core.CallResult, error)
}

func (s stubClassroom) CreateAssignment(ctx context.Context, req classroom.CreateAssignmentRequest, token core.Token) (core.CallResult, error) {
	if s.createFn == nil {
		return core.CallResult{}, nil
	}
	return s.createFn(ctx, req, token)
}

func (s stubClassroom) AddAttachment(ctx context.Context, req classroom.AddAttachmentRequest, token core.Token) (core.CallResult, error) {
	if s.attachFn == nil {
		return core.CallResult{}, nil
	}
	return s.attachFn(ctx, req, token)
}

func (s stubClassroom) Submit(ctx context.Context, req classroom.SubmissionRef, token core.Token) (core.CallResult, error) {
	if s.submitFn == nil {
		return core.CallResult{}, nil
	}
	return s.submitFn(ctx, req, token)
}

func (s stubClassroom) Grade(ctx context.Context, req classroom.GradeRequest, token core.Token) (core.CallResult, error) {
	if s.gradeFn == nil {
		return core.CallResult{}, nil
	}
	return s.gradeFn(ctx, req, token)
}

func (s stubClassroom) AskBack(ctx context.Context, req classroom.SubmissionRef, token core.Token) (core.CallResult, error) {
	if s.askBackFn == nil {
		return core.CallResult{}, nil
	}
	return s.askBackFn(ctx, req, token)
}
