// Package archive produces the content export and file-tree artifacts
// of a backup run.
//
// Unlike the database dump, none of these operations can fail the run.
// Problems are collected as warnings and the pipeline moves on.
package archive

import (
	"fmt"

	"github.com/mwbackup/mwbackup/compression"
	"github.com/mwbackup/mwbackup/logging"
	"github.com/mwbackup/mwbackup/wiki/mwscript"
)

// Artifact kinds produced by this package.
const (
	KindPages        = "pages.xml"
	KindImages       = "images.tar"
	KindInstallation = "mwdir.tar"
)

var log = logging.Module("archive")

// Options configures the archiving operations.
type Options struct {
	// Compressor compresses the artifact streams.
	Compressor compression.Compressor

	// Scripts runs the content export maintenance script.
	Scripts *mwscript.Runner

	// Excludes are filename patterns excluded from the file-tree
	// archives, in filepath.Match syntax.
	Excludes []string

	// SkipDir is an absolute path pruned from the installation archive.
	// The pipeline sets it to the backup root so a backup destination
	// nested inside the wiki directory does not archive itself.
	SkipDir string
}

// Result describes the outcome of one archiving operation.
type Result struct {
	// Path of the produced artifact, empty when nothing was produced.
	Path string

	// Warnings lists everything that went wrong.
	Warnings []string
}

func (r *Result) warnf(msg string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(msg, args...))
}
