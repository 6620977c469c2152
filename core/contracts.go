package core

import glog "github.com/goliatone/go-logger/glog"

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

const LoggerName = "lms"

// ResolveLogger uses deterministic precedence provider > logger > nop.
func ResolveLogger(name string, provider LoggerProvider, logger Logger) (LoggerProvider, Logger) {
	if name == "" {
		name = LoggerName
	}
	return glog.Resolve(name, provider, logger)
}
