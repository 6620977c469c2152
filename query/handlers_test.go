package query

import (
	"context"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-lms/core"
	"github.com/goliatone/go-lms/providers/canvas"
	"github.com/goliatone/go-lms/providers/classroom"
)

func TestCanvasListCoursesQuery_QueryDelegates(t *testing.T) {
	called := false
	reader := stubCanvasReader{
		coursesFn: func(_ context.Context, req canvas.ListCoursesRequest, token core.Token) (core.CallResult, error) {
			called = true
			if req.EnrollmentType != "student" || token.AccessToken != "acc" {
				t.Fatalf("unexpected courses input %#v %#v", req, token)
			}
			return core.CallResult{Response: core.Response{Status: 200, Provider: canvas.ProviderID}}, nil
		},
	}
	result, err := NewCanvasListCoursesQuery(reader).Query(context.Background(), CanvasListCoursesMessage{
		Request: canvas.ListCoursesRequest{EnrollmentType: "student"},
		Token:   core.Token{AccessToken: "acc"},
	})
	if err != nil {
		t.Fatalf("query courses: %v", err)
	}
	if !called || result.Response.Provider != canvas.ProviderID {
		t.Fatalf("unexpected result %#v", result)
	}
}

func TestClassroomQueries_Delegate(t *testing.T) {
	calls := map[string]int{}
	reader := stubClassroomReader{
		coursesFn: func(context.Context, classroom.ListCoursesRequest, core.Token) (core.CallResult, error) {
			calls["courses"]++
			return core.CallResult{}, nil
		},
		profileFn: func(context.Context, core.Token) (core.CallResult, error) {
			calls["profile"]++
			return core.CallResult{}, nil
		},
		submissionsFn: func(_ context.Context, req classroom.ListSubmissionsRequest, _ core.Token) (core.CallResult, error) {
			calls["submissions"]++
			if req.StudentID != "s1" {
				t.Fatalf("unexpected submissions request %#v", req)
			}
			return core.CallResult{}, nil
		},
	}
	ctx := context.Background()
	if _, err := NewClassroomListCoursesQuery(reader).Query(ctx, ClassroomListCoursesMessage{}); err != nil {
		t.Fatalf("courses: %v", err)
	}
	if _, err := NewClassroomGetProfileQuery(reader).Query(ctx, ClassroomGetProfileMessage{}); err != nil {
		t.Fatalf("profile: %v", err)
	}
	if _, err := NewClassroomListSubmissionsQuery(reader).Query(ctx, ClassroomListSubmissionsMessage{
		Request: classroom.ListSubmissionsRequest{CourseID: "c1", CourseWorkID: "cw1", StudentID: "s1"},
	}); err != nil {
		t.Fatalf("submissions: %v", err)
	}
	for _, name := range []string{"courses", "profile", "submissions"} {
		if calls[name] != 1 {
			t.Fatalf("expected one %s call, got %d", name, calls[name])
		}
	}
}

func TestQueries_NilReaderReturnsRichError(t *testing.T) {
	var qry *CanvasGetProfileQuery
	_, err := qry.Query(context.Background(), CanvasGetProfileMessage{})
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal category, got %q", rich.Category)
	}
}

func TestMessageValidation(t *testing.T) {
	token := core.Token{
		AccessToken:  "acc",
		RefreshToken: "ref",
		TokenType:    "Bearer",
		ExpiresIn:    3600,
		LastRefresh:  time.Now().UTC(),
	}
	cases := []struct {
		name    string
		msg     interface{ Validate() error }
		wantErr bool
	}{
		{name: "canvas profile without token", msg: CanvasGetProfileMessage{}, wantErr: true},
		{name: "canvas courses negative page", msg: CanvasListCoursesMessage{Request: canvas.ListCoursesRequest{PerPage: -1}, Token: token}, wantErr: true},
		{name: "canvas courses ok", msg: CanvasListCoursesMessage{Token: token}},
		{name: "classroom courses bad state", msg: ClassroomListCoursesMessage{Request: classroom.ListCoursesRequest{CourseStates: []string{"GONE"}}, Token: token}, wantErr: true},
		{name: "classroom profile ok", msg: ClassroomGetProfileMessage{Token: token}},
		{name: "classroom submissions missing course", msg: ClassroomListSubmissionsMessage{Token: token}, wantErr: true},
		{name: "classroom submissions ok", msg: ClassroomListSubmissionsMessage{
			Request: classroom.ListSubmissionsRequest{CourseID: "c1", CourseWorkID: "cw1"},
			Token:   token,
		}},
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

type stubCanvasReader struct {
	coursesFn func(context.Context, canvas.ListCoursesRequest, core.Token) (core.CallResult, error)
	profileFn func(context.Context, core.Token) (core.CallResult, error)
}

func (s stubCanvasReader) GetCourses(ctx context.Context, req canvas.ListCoursesRequest, token core.Token) (core.CallResult, error) {
	if s.coursesFn == nil {
		return core.CallResult{}, nil
	}
	return s.coursesFn(ctx, req, token)
}

func (s stubCanvasReader) GetProfile(ctx context.Context, token core.Token) (core.CallResult, error) {
	if s.profileFn == nil {
		return core.CallResult{}, nil
	}
	return s.profileFn(ctx, token)
}

type stubClassroomReader struct {
	coursesFn     func(context.Context, classroom.ListCoursesRequest, core.Token) (core.CallResult, error)
	profileFn     func(context.Context, core.Token) (core.CallResult, error)
	submissionsFn func(context.Context, classroom.ListSubmissionsRequest, core.Token) (core.CallResult, error)
}

func (s stubClassroomReader) GetCourses(ctx context.Context, req classroom.ListCoursesRequest, token core.Token) (core.CallResult, error) {
	if s.coursesFn == nil {
		return core.CallResult{}, nil
	}
	return s.coursesFn(ctx, req, token)
}

func (s stubClassroomReader) GetProfile(ctx context.Context, token core.Token) (core.CallResult, error) {
	if s.profileFn == nil {
		return core.CallResult{}, nil
	}
	return s.profileFn(ctx, token)
}

func (s stubClassroomReader) GetSubmissions(ctx context.Context, req classroom.ListSubmissionsRequest, token core.Token) (core.CallResult, error) {
	if s.submissionsFn == nil {
		return core.CallResult{}, nil
	}
	return s.submissionsFn(ctx, req, token)
}
