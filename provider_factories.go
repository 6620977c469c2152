package lms

import (
	"github.com/goliatone/go-lms/providers/canvas"
	"github.com/goliatone/go-lms/providers/classroom"
)

func CanvasProvider(cfg ProviderConfig, opts ...Option) (*canvas.Provider, error) {
	return canvas.New(cfg, opts...)
}

func ClassroomProvider(cfg ProviderConfig, opts ...Option) (*classroom.Provider, error) {
	return classroom.New(cfg, opts...)
}
