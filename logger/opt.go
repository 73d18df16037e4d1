package logger

import "log"

// A LoggerOptFn is a functional option configuring a MarkLogger when constructing a new one.
type LoggerOptFn func(*MarkLogger)

// WithEnv sets the environment MarkLogger is operating in.
func WithEnv(env string) func(*MarkLogger) {
	return func(l *MarkLogger) {
		l.env = env
	}
}

// WithLevel sets the log level MarkLogger uses.
func WithLevel(level LogLevel) func(*MarkLogger) {
	return func(l *MarkLogger) {
		l.ll = level
	}
}

// WithLogger sets the log.Logger MarkLogger uses.
func WithLogger(log *log.Logger) func(*MarkLogger) {
	return func(l *MarkLogger) {
		l.l = log
	}
}

// WithSkip sets the number of frames in the call stack
// to skip in order to log the desired file and line number
// of the calling code.
func WithSkip(skip int) func(*MarkLogger) {
	return func(l *MarkLogger) {
		l.skip = skip
	}
}
