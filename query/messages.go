package query

import (
	"strings"

	"github.com/goliatone/go-lms/core"
	"github.com/goliatone/go-lms/providers/canvas"
	"github.com/goliatone/go-lms/providers/classroom"
)

const (
	TypeCanvasListCourses        = "lms.query.canvas.courses.list"
	TypeCanvasGetProfile         = "lms.query.canvas.profile.get"
	TypeClassroomListCourses     = "lms.query.classroom.courses.list"
	TypeClassroomGetProfile      = "lms.query.classroom.profile.get"
	TypeClassroomListSubmissions = "lms.query.classroom.submissions.list"
)

type CanvasListCoursesMessage struct {
	Request canvas.ListCoursesRequest
	Token   core.Token
}

func (CanvasListCoursesMessage) Type() string { return TypeCanvasListCourses }

func (m CanvasListCoursesMessage) Validate() error {
	if m.Request.PerPage < 0 {
		return queryValidationError("per_page", "must be >= 0")
	}
	return validateAccessToken(m.Token)
}

type CanvasGetProfileMessage struct {
	Token core.Token
}

func (CanvasGetProfileMessage) Type() string { return TypeCanvasGetProfile }

func (m CanvasGetProfileMessage) Validate() error {
	return validateAccessToken(m.Token)
}

type ClassroomListCoursesMessage struct {
	Request classroom.ListCoursesRequest
	Token   core.Token
}

func (ClassroomListCoursesMessage) Type() string { return TypeClassroomListCourses }

func (m ClassroomListCoursesMessage) Validate() error {
	if err := validateAccessToken(m.Token); err != nil {
		return err
	}
	return m.Request.Validate()
}

type ClassroomGetProfileMessage struct {
	Token core.Token
}

func (ClassroomGetProfileMessage) Type() string { return TypeClassroomGetProfile }

func (m ClassroomGetProfileMessage) Validate() error {
	return validateAccessToken(m.Token)
}

type ClassroomListSubmissionsMessage struct {
	Request classroom.ListSubmissionsRequest
	Token   core.Token
}

func (ClassroomListSubmissionsMessage) Type() string { return TypeClassroomListSubmissions }

func (m ClassroomListSubmissionsMessage) Validate() error {
	if strings.TrimSpace(m.Request.CourseID) == "" {
		return queryValidationError("courseId", "course id is required")
	}
	if strings.TrimSpace(m.Request.CourseWorkID) == "" {
		return queryValidationError("courseWorkId", "course work id is required")
	}
	return classroom.ValidateToken(m.Token)
}

func validateAccessToken(token core.Token) error {
	if strings.TrimSpace(token.AccessToken) == "" {
		return queryValidationError("token.access_token", "access token is required")
	}
	return nil
}
