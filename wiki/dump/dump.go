// Package dump produces the database artifact of a backup run.
//
// The networked backend is exported with mysqldump and any failure of
// the dump tool is fatal for the whole run. The embedded-file backend is
// exported through the wiki's own maintenance script and its failures
// are reported as warnings only.
package dump

import (
	"context"

	"github.com/pkg/errors"

	"github.com/mwbackup/mwbackup/compression"
	"github.com/mwbackup/mwbackup/logging"
	"github.com/mwbackup/mwbackup/wiki/artifact"
	"github.com/mwbackup/mwbackup/wiki/mwscript"
	"github.com/mwbackup/mwbackup/wiki/settings"
)

// Artifact kinds produced by this package.
const (
	KindDatabaseSQL    = "database.sql"
	KindDatabaseSQLite = "database.sqlite"
)

// ErrDumpFailed indicates that the networked dump tool exited with a
// failure. It aborts the remaining pipeline steps.
var ErrDumpFailed = errors.New("database dump failed")

var log = logging.Module("dump")

// Options configures a database dump.
type Options struct {
	// Compressor compresses the artifact stream.
	Compressor compression.Compressor

	// MysqldumpPath overrides the mysqldump binary, "mysqldump" when
	// empty.
	MysqldumpPath string

	// Scripts runs maintenance scripts for the embedded-file backend.
	Scripts *mwscript.Runner
}

// Result describes the outcome of the dump step.
type Result struct {
	// Path of the produced artifact, empty when nothing was produced.
	Path string

	// Warnings lists non-fatal problems of the embedded-file branch.
	Warnings []string
}

// Run produces the database artifact for the wiki described by cfg. For
// the networked backend a dump tool failure is returned wrapped around
// ErrDumpFailed.
func Run(ctx context.Context, cfg *settings.Config, target *artifact.Target, opt Options) (*Result, error) {
	if cfg.Backend == settings.EmbeddedFile {
		return runEmbedded(ctx, cfg, target, opt), nil
	}

	return runNetworked(ctx, cfg, target, opt)
}
