/*
Command-line tool for backing up MediaWiki installations.

Usage:

	$ mwbackup [<flags>] <subcommand> [<args> ...]

Use 'mwbackup help' to see more details.
*/
package main

import (
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/mwbackup/mwbackup/cli"
)

// set by the linker during release builds.
var (
	buildVersion = "v0-unofficial"
	buildInfo    = "unknown"
)

func main() {
	app := cli.App()
	app.Version(buildVersion + " build: " + buildInfo)
	kingpin.MustParse(app.Parse(os.Args[1:]))
}
