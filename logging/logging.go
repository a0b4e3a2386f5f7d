// Package logging provides module-scoped loggers passed through context.
package logging

import "context"

// Logger emits formatted log messages at the usual levels.
type Logger interface {
	Debugf(msg string, args ...interface{})
	Infof(msg string, args ...interface{})
	Warnf(msg string, args ...interface{})
	Errorf(msg string, args ...interface{})
}

// LoggerFactory returns a Logger for a given module name.
type LoggerFactory func(module string) Logger

type contextKey struct{}

// WithLogger returns a derived context with an associated logger factory.
// A nil factory attaches a factory producing loggers that discard everything.
func WithLogger(ctx context.Context, f LoggerFactory) context.Context {
	if f == nil {
		f = nullLoggerFactory
	}

	return context.WithValue(ctx, contextKey{}, f)
}

// Module returns a function that retrieves the named module logger from a
// context. Packages declare their logger once:
//
//	var log = logging.Module("dump")
//
// and call log(ctx).Infof(...) at use sites.
func Module(module string) func(ctx context.Context) Logger {
	return func(ctx context.Context) Logger {
		if f, ok := ctx.Value(contextKey{}).(LoggerFactory); ok {
			return f(module)
		}

		return nullLogger{}
	}
}

// NullLogger discards all messages.
func NullLogger() Logger {
	return nullLogger{}
}

func nullLoggerFactory(module string) Logger {
	return nullLogger{}
}

type nullLogger struct{}

func (nullLogger) Debugf(msg string, args ...interface{}) {}
func (nullLogger) Infof(msg string, args ...interface{})  {}
func (nullLogger) Warnf(msg string, args ...interface{})  {}
func (nullLogger) Errorf(msg string, args ...interface{}) {}
