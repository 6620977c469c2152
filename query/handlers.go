package query

import (
	"context"

	"github.com/goliatone/go-lms/core"
	"github.com/goliatone/go-lms/providers/canvas"
	"github.com/goliatone/go-lms/providers/classroom"
)

type CanvasReader interface {
	GetCourses(ctx context.Context, req canvas.ListCoursesRequest, token core.Token) (core.CallResult, error)
	GetProfile(ctx context.Context, token core.Token) (core.CallResult, error)
}

type ClassroomReader interface {
	GetCourses(ctx context.Context, req classroom.ListCoursesRequest, token core.Token) (core.CallResult, error)
	GetProfile(ctx context.Context, token core.Token) (core.CallResult, error)
	GetSubmissions(ctx context.Context, req classroom.ListSubmissionsRequest, token core.Token) (core.CallResult, error)
}

type CanvasListCoursesQuery struct {
	reader CanvasReader
}

func NewCanvasListCoursesQuery(reader CanvasReader) *CanvasListCoursesQuery {
	return &CanvasListCoursesQuery{reader: reader}
}

func (q *CanvasListCoursesQuery) Query(ctx context.Context, msg CanvasListCoursesMessage) (core.CallResult, error) {
	if q == nil || q.reader == nil {
		return core.CallResult{}, queryDependencyError("query: canvas reader is required")
	}
	return q.reader.GetCourses(ctx, msg.Request, msg.Token)
}

type CanvasGetProfileQuery struct {
	reader CanvasReader
}

func NewCanvasGetProfileQuery(reader CanvasReader) *CanvasGetProfileQuery {
	return &CanvasGetProfileQuery{reader: reader}
}

func (q *CanvasGetProfileQuery) Query(ctx context.Context, msg CanvasGetProfileMessage) (core.CallResult, error) {
	if q == nil || q.reader == nil {
		return core.CallResult{}, queryDependencyError("query: canvas reader is required")
	}
	return q.reader.GetProfile(ctx, msg.Token)
}

type ClassroomListCoursesQuery struct {
	reader ClassroomReader
}

func NewClassroomListCoursesQuery(reader ClassroomReader) *ClassroomListCoursesQuery {
	return &ClassroomListCoursesQuery{reader: reader}
}

func (q *ClassroomListCoursesQuery) Query(ctx context.Context, msg ClassroomListCoursesMessage) (core.CallResult, error) {
	if q == nil || q.reader == nil {
		return core.CallResult{}, queryDependencyError("query: classroom reader is required")
	}
	return q.reader.GetCourses(ctx, msg.Request, msg.Token)
}

type ClassroomGetProfileQuery struct {
	reader ClassroomReader
}

func NewClassroomGetProfileQuery(reader ClassroomReader) *ClassroomGetProfileQuery {
	return &ClassroomGetProfileQuery{reader: reader}
}

func (q *ClassroomGetProfileQuery) Query(ctx context.Context, msg ClassroomGetProfileMessage) (core.CallResult, error) {
	if q == nil || q.reader == nil {
		return core.CallResult{}, queryDependencyError("query: classroom reader is required")
	}
	return q.reader.GetProfile(ctx, msg.Token)
}

type ClassroomListSubmissionsQuery struct {
	reader ClassroomReader
}

func NewClassroomListSubmissionsQuery(reader ClassroomReader) *ClassroomListSubmissionsQuery {
	return &ClassroomListSubmissionsQuery{reader: reader}
}

func (q *ClassroomListSubmissionsQuery) Query(
	ctx context.Context,
	msg ClassroomListSubmissionsMessage,
) (core.CallResult, error) {
	if q == nil || q.reader == nil {
		return core.CallResult{}, queryDependencyError("query: classroom reader is required")
	}
	return q.reader.GetSubmissions(ctx, msg.Request, msg.Token)
}
