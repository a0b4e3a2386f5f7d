package cli

import (
	"context"
	"path/filepath"

	"github.com/mwbackup/mwbackup/wiki/settings"
)

var (
	maintenanceOffCommand = maintenanceCommands.Command("off", "Make the wiki writable again.")
	maintenanceOffWikiDir = maintenanceOffCommand.Flag("wiki-dir", "Wiki installation directory.").Required().ExistingDir()
)

func runMaintenanceOffCommand(ctx context.Context) error {
	changed, err := settings.SetReadOnly(filepath.Join(*maintenanceOffWikiDir, settings.FileName), false, "")
	if err != nil {
		return err
	}

	if changed {
		printStderr("Maintenance mode is now off.\n")
	} else {
		printStderr("Maintenance mode was already off.\n")
	}

	return nil
}

func init() {
	maintenanceOffCommand.Action(appAction(runMaintenanceOffCommand))
}
