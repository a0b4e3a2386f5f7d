// Package testlogging routes module logs to the go test log output.
package testlogging

import (
	"context"
	"testing"

	"github.com/mwbackup/mwbackup/logging"
)

type testLogger struct {
	t      *testing.T
	prefix string
}

// All levels go through t.Logf; warnings and errors are expected output of
// the non-fatal failure paths under test and must not fail the test run.
func (l testLogger) logf(level, msg string, args []interface{}) {
	l.t.Helper()
	l.t.Logf(l.prefix+level+" "+msg, args...)
}

func (l testLogger) Debugf(msg string, args ...interface{}) { l.logf("DEBUG", msg, args) }
func (l testLogger) Infof(msg string, args ...interface{})  { l.logf("INFO", msg, args) }
func (l testLogger) Warnf(msg string, args ...interface{})  { l.logf("WARN", msg, args) }
func (l testLogger) Errorf(msg string, args ...interface{}) { l.logf("ERROR", msg, args) }

var _ logging.Logger = testLogger{}

// Context returns a context whose module loggers emit to t's log output.
func Context(t *testing.T) context.Context {
	t.Helper()

	return logging.WithLogger(context.Background(), func(module string) logging.Logger {
		return testLogger{t, "[" + module + "] "}
	})
}
