package cli

import (
	"context"
	"path/filepath"

	"github.com/mwbackup/mwbackup/wiki/settings"
)

var (
	maintenanceOnCommand = maintenanceCommands.Command("on", "Make the wiki read-only.")
	maintenanceOnWikiDir = maintenanceOnCommand.Flag("wiki-dir", "Wiki installation directory.").Required().ExistingDir()
	maintenanceOnReason  = maintenanceOnCommand.Flag("reason", "Message shown to wiki users.").Default(settings.DefaultReadOnlyReason).String()
)

func runMaintenanceOnCommand(ctx context.Context) error {
	changed, err := settings.SetReadOnly(filepath.Join(*maintenanceOnWikiDir, settings.FileName), true, *maintenanceOnReason)
	if err != nil {
		return err
	}

	if changed {
		printStderr("Maintenance mode is now on.\n")
	} else {
		printStderr("Maintenance mode was already on.\n")
	}

	return nil
}

func init() {
	maintenanceOnCommand.Action(appAction(runMaintenanceOnCommand))
}
