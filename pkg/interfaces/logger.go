package interfaces

import "context"

// Logger is the leveled, key/value logger every blog package writes to.
// Method sets match github.com/goliatone/go-logger so its loggers can be
// adapted with a thin wrapper.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider returns a logger for a module name such as "blog.http".
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can carry fixed fields on
// every entry they write.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
