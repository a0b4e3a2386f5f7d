package logging_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mwbackup/mwbackup/logging"
)

type recordingLogger struct {
	lines  *[]string
	module string
}

func (l recordingLogger) record(level, msg string, args []interface{}) {
	*l.lines = append(*l.lines, l.module+" "+level+" "+fmt.Sprintf(msg, args...))
}

func (l recordingLogger) Debugf(msg string, args ...interface{}) { l.record("D", msg, args) }
func (l recordingLogger) Infof(msg string, args ...interface{})  { l.record("I", msg, args) }
func (l recordingLogger) Warnf(msg string, args ...interface{})  { l.record("W", msg, args) }
func (l recordingLogger) Errorf(msg string, args ...interface{}) { l.record("E", msg, args) }

func TestModuleUsesContextFactory(t *testing.T) {
	var lines []string

	ctx := logging.WithLogger(context.Background(), func(module string) logging.Logger {
		return recordingLogger{lines: &lines, module: module}
	})

	log := logging.Module("some/module")
	log(ctx).Infof("hello %v", 42)
	log(ctx).Warnf("watch out")

	require.Equal(t, []string{
		"some/module I hello 42",
		"some/module W watch out",
	}, lines)
}

func TestModuleWithoutFactoryDiscards(t *testing.T) {
	log := logging.Module("mod")

	// must not panic and must not produce output.
	log(context.Background()).Infof("discarded %v", 1)
	log(logging.WithLogger(context.Background(), nil)).Errorf("also discarded")
}

func TestNullLogger(t *testing.T) {
	l := logging.NullLogger()
	l.Debugf("a")
	l.Infof("b")
	l.Warnf("c")
	l.Errorf("d %v", 1)
}
