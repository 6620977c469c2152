package query

import (
	gocmd "github.com/goliatone/go-command"

	"github.com/goliatone/go-lms/core"
	"github.com/goliatone/go-lms/providers/canvas"
	"github.com/goliatone/go-lms/providers/classroom"
)

var (
	_ gocmd.Querier[CanvasListCoursesMessage, core.CallResult]        = (*CanvasListCoursesQuery)(nil)
	_ gocmd.Querier[CanvasGetProfileMessage, core.CallResult]         = (*CanvasGetProfileQuery)(nil)
	_ gocmd.Querier[ClassroomListCoursesMessage, core.CallResult]     = (*ClassroomListCoursesQuery)(nil)
	_ gocmd.Querier[ClassroomGetProfileMessage, core.CallResult]      = (*ClassroomGetProfileQuery)(nil)
	_ gocmd.Querier[ClassroomListSubmissionsMessage, core.CallResult] = (*ClassroomListSubmissionsQuery)(nil)
)

var (
	_ CanvasReader    = (*canvas.Provider)(nil)
	_ ClassroomReader = (*classroom.Provider)(nil)
)
