package command

import (
	"strings"

	"github.com/goliatone/go-lms/core"
	"github.com/goliatone/go-lms/providers/canvas"
	"github.com/goliatone/go-lms/providers/classroom"
)

const (
	TypeExchangeCode              = "lms.command.token.exchange"
	TypeRefreshToken              = "lms.command.token.refresh"
	TypeCanvasCreateAssignment    = "lms.command.canvas.assignment.create"
	TypeCanvasSubmit              = "lms.command.canvas.submission.submit"
	TypeClassroomCreateAssignment = "lms.command.classroom.coursework.create"
	TypeClassroomAddAttachment    = "lms.command.classroom.submission.attach"
	TypeClassroomSubmit           = "lms.command.classroom.submission.turn_in"
	TypeClassroomGrade            = "lms.command.classroom.submission.grade"
	TypeClassroomAskBack          = "lms.command.classroom.submission.return"
)

type ExchangeCodeMessage struct {
	Code    string
	Options core.CallOptions
	Extras  map[string]any
}

func (ExchangeCodeMessage) Type() string { return TypeExchangeCode }

func (m ExchangeCodeMessage) Validate() error {
	if strings.TrimSpace(m.Code) == "" {
		return commandValidationError("code", "authorization code is required")
	}
	return nil
}

type RefreshTokenMessage struct {
	RefreshToken string
	Options      core.CallOptions
	Extras       map[string]any
}

func (RefreshTokenMessage) Type() string { return TypeRefreshToken }

func (m RefreshTokenMessage) Validate() error {
	if strings.TrimSpace(m.RefreshToken) == "" {
		return commandValidationError("refresh_token", "refresh token is required")
	}
	return nil
}

type CanvasCreateAssignmentMessage struct {
	Request canvas.CreateAssignmentRequest
	Token   core.Token
}

func (CanvasCreateAssignmentMessage) Type() string { return TypeCanvasCreateAssignment }

func (m CanvasCreateAssignmentMessage) Validate() error {
	if err := validateAccessToken(m.Token); err != nil {
		return err
	}
	return m.Request.Validate()
}

type CanvasSubmitMessage struct {
	Request canvas.SubmitRequest
	Token   core.Token
}

func (CanvasSubmitMessage) Type() string { return TypeCanvasSubmit }

func (m CanvasSubmitMessage) Validate() error {
	if err := validateAccessToken(m.Token); err != nil {
		return err
	}
	return m.Request.Validate()
}

type ClassroomCreateAssignmentMessage struct {
	Request classroom.CreateAssignmentRequest
	Token   core.Token
}

func (ClassroomCreateAssignmentMessage) Type() string { return TypeClassroomCreateAssignment }

func (m ClassroomCreateAssignmentMessage) Validate() error {
	if err := classroom.ValidateToken(m.Token); err != nil {
		return err
	}
	return m.Request.Validate()
}

type ClassroomAddAttachmentMessage struct {
	Request classroom.AddAttachmentRequest
	Token   core.Token
}

func (ClassroomAddAttachmentMessage) Type() string { return TypeClassroomAddAttachment }

func (m ClassroomAddAttachmentMessage) Validate() error {
	if err := classroom.ValidateToken(m.Token); err != nil {
		return err
	}
	if err := m.Request.SubmissionRef.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(m.Request.Link.URL) == "" {
		return commandValidationError("link.url", "attachment url is required")
	}
	return nil
}

type ClassroomSubmitMessage struct {
	Request classroom.SubmissionRef
	Token   core.Token
}

func (ClassroomSubmitMessage) Type() string { return TypeClassroomSubmit }

func (m ClassroomSubmitMessage) Validate() error {
	if err := classroom.ValidateToken(m.Token); err != nil {
		return err
	}
	return m.Request.Validate()
}

type ClassroomGradeMessage struct {
	Request classroom.GradeRequest
	Token   core.Token
}

func (ClassroomGradeMessage) Type() string { return TypeClassroomGrade }

func (m ClassroomGradeMessage) Validate() error {
	if err := classroom.ValidateToken(m.Token); err != nil {
		return err
	}
	if strings.TrimSpace(m.Request.CourseID) == "" {
		return commandValidationError("courseId", "course id is required")
	}
	if strings.TrimSpace(m.Request.CourseWorkID) == "" {
		return commandValidationError("courseWorkId", "course work id is required")
	}
	if m.Request.Submission == nil {
		return commandValidationError("submission", "submission is required")
	}
	return nil
}

type ClassroomAskBackMessage struct {
	Request classroom.SubmissionRef
	Token   core.Token
}

func (ClassroomAskBackMessage) Type() string { return TypeClassroomAskBack }

func (m ClassroomAskBackMessage) Validate() error {
	if err := classroom.ValidateToken(m.Token); err != nil {
		return err
	}
	return m.Request.Validate()
}

func validateAccessToken(token core.Token) error {
	if strings.TrimSpace(token.AccessToken) == "" {
		return commandValidationError("token.access_token", "access token is required")
	}
	return nil
}
