// Package cli implements the mwbackup command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/mwbackup/mwbackup/internal/runlock"
	"github.com/mwbackup/mwbackup/wiki/dump"
	"github.com/mwbackup/mwbackup/wiki/settings"
)

var (
	app = kingpin.New("mwbackup", "Back up MediaWiki installations: database dump, page export and file archives.")

	maintenanceCommands = app.Command("maintenance", "Commands to toggle read-only maintenance mode.")
	settingsCommands    = app.Command("settings", "Commands to inspect LocalSettings.php.")
	compressionCommands = app.Command("compression", "Commands to list compression algorithms.")
)

var errorColor = color.New(color.FgHiRed)

// App returns an instance of the command-line application object.
func App() *kingpin.Application {
	return app
}

func printStderr(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, msg, args...)
}

func printStdout(msg string, args ...interface{}) {
	fmt.Printf(msg, args...)
}

// Process exit codes.
const (
	exitCodeSuccess    = 0
	exitCodeError      = 1
	exitCodeDumpFailed = 3
)

// ExitCode maps an error returned by a command to the process exit code.
// A fatal database dump failure is distinguished from all other errors
// so schedulers can tell a useless backup from a degraded one.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return exitCodeSuccess
	case errors.Is(err, dump.ErrDumpFailed):
		return exitCodeDumpFailed
	default:
		return exitCodeError
	}
}

// appAction adapts a command function to a kingpin action. Command
// errors are printed to stderr and terminate the process with the
// mapped exit code.
func appAction(act func(ctx context.Context) error) func(*kingpin.ParseContext) error {
	return func(_ *kingpin.ParseContext) error {
		ctx, cancel := context.WithCancel(rootContext())
		defer cancel()

		onCtrlC(cancel)

		if err := act(ctx); err != nil {
			errorColor.Fprintf(os.Stderr, "mwbackup: error: %v\n", err) //nolint:errcheck

			if errors.Is(err, settings.ErrNotFound) || errors.Is(err, runlock.ErrHeld) {
				printStderr("\n%v\n", usageHint(err))
			}

			os.Exit(ExitCode(err))
		}

		return nil
	}
}

func usageHint(err error) string {
	if errors.Is(err, settings.ErrNotFound) {
		return "Pass --wiki-dir pointing at the installation directory that contains LocalSettings.php."
	}

	return "Another run holds the lock for this wiki. Wait for it to finish or pass --no-run-lock."
}

func onCtrlC(f func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	go func() {
		<-c
		f()
	}()
}
