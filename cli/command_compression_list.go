package cli

import (
	"context"

	"github.com/mwbackup/mwbackup/compression"
)

var compressionListCommand = compressionCommands.Command("list", "List supported compression algorithms.")

func runCompressionListCommand(ctx context.Context) error {
	def := compression.DefaultName()

	for _, name := range compression.Names() {
		c := compression.ByName[compression.Name(name)]

		suffix := ""
		if compression.Name(name) == def {
			suffix = " (default)"
		}

		printStdout("%-24v %v%v\n", name, c.Ext(), suffix)
	}

	return nil
}

func init() {
	compressionListCommand.Action(appAction(runCompressionListCommand))
}
