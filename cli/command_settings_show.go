package cli

import (
	"context"
	"path/filepath"

	"github.com/mwbackup/mwbackup/wiki/settings"
)

var (
	settingsShowCommand = settingsCommands.Command("show", "Show the settings a backup of this wiki would use.")
	settingsShowWikiDir = settingsShowCommand.Flag("wiki-dir", "Wiki installation directory.").Required().ExistingDir()
)

func runSettingsShowCommand(ctx context.Context) error {
	path := filepath.Join(*settingsShowWikiDir, settings.FileName)

	cfg, err := settings.Load(path)
	if err != nil {
		return err
	}

	on, err := settings.IsReadOnly(path)
	if err != nil {
		return err
	}

	printStdout("Backend:    %v\n", cfg.Backend)
	printStdout("Database:   %v\n", cfg.DBName)

	if cfg.Backend == settings.EmbeddedFile {
		printStdout("Data dir:   %v\n", cfg.DataDir)
	} else {
		printStdout("Host:       %v\n", cfg.Host)
		printStdout("User:       %v\n", cfg.User)
		printStdout("Password:   %v\n", redactedPassword(cfg.Password))
		printStdout("Charset:    %v\n", cfg.Charset)
	}

	printStdout("Read-only:  %v\n", onOff(on))

	return nil
}

func redactedPassword(p string) string {
	if p == "" {
		return "(not set)"
	}

	return "********"
}

func onOff(b bool) string {
	if b {
		return "on"
	}

	return "off"
}

func init() {
	settingsShowCommand.Action(appAction(runSettingsShowCommand))
}
