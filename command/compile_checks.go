package command

import (
	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-lms/providers/canvas"
	"github.com/goliatone/go-lms/providers/classroom"
)

var (
	_ gocmd.Commander[ExchangeCodeMessage]              = (*ExchangeCodeCommand)(nil)
	_ gocmd.Commander[RefreshTokenMessage]              = (*RefreshTokenCommand)(nil)
	_ gocmd.Commander[CanvasCreateAssignmentMessage]    = (*CanvasCreateAssignmentCommand)(nil)
	_ gocmd.Commander[CanvasSubmitMessage]              = (*CanvasSubmitCommand)(nil)
	_ gocmd.Commander[ClassroomCreateAssignmentMessage] = (*ClassroomCreateAssignmentCommand)(nil)
	_ gocmd.Commander[ClassroomAddAttachmentMessage]    = (*ClassroomAddAttachmentCommand)(nil)
	_ gocmd.Commander[ClassroomSubmitMessage]           = (*ClassroomSubmitCommand)(nil)
	_ gocmd.Commander[ClassroomGradeMessage]            = (*ClassroomGradeCommand)(nil)
	_ gocmd.Commander[ClassroomAskBackMessage]          = (*ClassroomAskBackCommand)(nil)
)

var (
	_ CanvasMutations    = (*canvas.Provider)(nil)
	_ ClassroomMutations = (*classroom.Provider)(nil)
	_ TokenExchanger     = (*canvas.Provider)(nil)
	_ TokenExchanger     = (*classroom.Provider)(nil)
)
