package lms

import (
	"fmt"

	lmscommand "github.com/goliatone/go-lms/command"
	lmsquery "github.com/goliatone/go-lms/query"
)

type CanvasService interface {
	lmscommand.TokenExchanger
	lmscommand.CanvasMutations
	lmsquery.CanvasReader
}

type ClassroomService interface {
	lmscommand.TokenExchanger
	lmscommand.ClassroomMutations
	lmsquery.ClassroomReader
}

type CanvasCommands struct {
	ExchangeCode     *lmscommand.ExchangeCodeCommand
	RefreshToken     *lmscommand.RefreshTokenCommand
	CreateAssignment *lmscommand.CanvasCreateAssignmentCommand
	Submit           *lmscommand.CanvasSubmitCommand
}

type ClassroomCommands struct {
	ExchangeCode     *lmscommand.ExchangeCodeCommand
	RefreshToken     *lmscommand.RefreshTokenCommand
	CreateAssignment *lmscommand.ClassroomCreateAssignmentCommand
	AddAttachment    *lmscommand.ClassroomAddAttachmentCommand
	Submit           *lmscommand.ClassroomSubmitCommand
	Grade            *lmscommand.ClassroomGradeCommand
	AskBack          *lmscommand.ClassroomAskBackCommand
}

type Commands struct {
	Canvas    CanvasCommands
	Classroom ClassroomCommands
}

type CanvasQueries struct {
	ListCourses *lmsquery.CanvasListCoursesQuery
	GetProfile  *lmsquery.CanvasGetProfileQuery
}

type ClassroomQueries struct {
	ListCourses     *lmsquery.ClassroomListCoursesQuery
	GetProfile      *lmsquery.ClassroomGetProfileQuery
	ListSubmissions *lmsquery.ClassroomListSubmissionsQuery
}

type Queries struct {
	Canvas    CanvasQueries
	Classroom ClassroomQueries
}

// Facade exposes the command and query handlers of the configured
// providers. Handlers of a provider that was not configured stay nil.
type Facade struct {
	canvas    CanvasService
	classroom ClassroomService
	commands  Commands
	queries   Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	canvas    CanvasService
	classroom ClassroomService
}

func WithCanvas(service CanvasService) FacadeOption {
	return func(options *facadeOptions) {
		options.canvas = service
	}
}

func WithClassroom(service ClassroomService) FacadeOption {
	return func(options *facadeOptions) {
		options.classroom = service
	}
}

func NewFacade(opts ...FacadeOption) (*Facade, error) {
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.canvas == nil && cfg.classroom == nil {
		return nil, fmt.Errorf("lms: at least one provider service is required")
	}

	facade := &Facade{canvas: cfg.canvas, classroom: cfg.classroom}
	if service := cfg.canvas; service != nil {
		facade.commands.Canvas = CanvasCommands{
			ExchangeCode:     lmscommand.NewExchangeCodeCommand(service),
			RefreshToken:     lmscommand.NewRefreshTokenCommand(service),
			CreateAssignment: lmscommand.NewCanvasCreateAssignmentCommand(service),
			Submit:           lmscommand.NewCanvasSubmitCommand(service),
		}
		facade.queries.Canvas = CanvasQueries{
			ListCourses: lmsquery.NewCanvasListCoursesQuery(service),
			GetProfile:  lmsquery.NewCanvasGetProfileQuery(service),
		}
	}
	if service := cfg.classroom; service != nil {
		facade.commands.Classroom = ClassroomCommands{
			ExchangeCode:     lmscommand.NewExchangeCodeCommand(service),
			RefreshToken:     lmscommand.NewRefreshTokenCommand(service),
			CreateAssignment: lmscommand.NewClassroomCreateAssignmentCommand(service),
			AddAttachment:    lmscommand.NewClassroomAddAttachmentCommand(service),
			Submit:           lmscommand.NewClassroomSubmitCommand(service),
			Grade:            lmscommand.NewClassroomGradeCommand(service),
			AskBack:          lmscommand.NewClassroomAskBackCommand(service),
		}
		facade.queries.Classroom = ClassroomQueries{
			ListCourses:     lmsquery.NewClassroomListCoursesQuery(service),
			GetProfile:      lmsquery.NewClassroomGetProfileQuery(service),
			ListSubmissions: lmsquery.NewClassroomListSubmissionsQuery(service),
		}
	}
	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Canvas() CanvasService {
	if f == nil {
		return nil
	}
	return f.canvas
}

func (f *Facade) Classroom() ClassroomService {
	if f == nil {
		return nil
	}
	return f.classroom
}
