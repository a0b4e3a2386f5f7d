// Package artifact manages the output files of a single backup run.
package artifact

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/mwbackup/mwbackup/compression"
)

// Target is the destination of one backup run: a dated directory under
// the backup root plus the filename prefix shared by all artifacts.
type Target struct {
	// Dir is the dated directory all artifacts are written into.
	Dir string

	// Prefix is the leading part of every artifact filename.
	Prefix string
}

// NewTarget creates the dated directory for a run started at the
// provided time, including the backup root when missing.
func NewTarget(backupDir string, now time.Time) (*Target, error) {
	prefix := "backup_" + now.Format("20060102")
	dir := filepath.Join(backupDir, prefix)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "unable to create backup directory %v", dir)
	}

	return &Target{Dir: dir, Prefix: prefix}, nil
}

// Path returns the full path of the artifact for the provided kind, with
// the compressor's extension appended.
func (t *Target) Path(kind string, comp compression.Compressor) string {
	return filepath.Join(t.Dir, t.Prefix+"-"+kind+comp.Ext())
}

// LogPath returns the path of the run's log file inside the dated
// directory.
func (t *Target) LogPath() string {
	return filepath.Join(t.Dir, t.Prefix+".log")
}

// NewWriter creates the artifact file for the provided kind and returns
// a writer that compresses everything written to it.
func (t *Target) NewWriter(kind string, comp compression.Compressor) (*Writer, error) {
	path := t.Path(kind, comp)

	f, err := os.Create(path) //nolint:gosec
	if err != nil {
		return nil, errors.Wrapf(err, "unable to create artifact %v", path)
	}

	c, err := comp.NewWriter(f)
	if err != nil {
		f.Close()       //nolint:errcheck
		os.Remove(path) //nolint:errcheck

		return nil, err
	}

	return &Writer{path: path, file: f, comp: c}, nil
}

// Writer writes one compressed artifact file.
type Writer struct {
	path string
	file *os.File
	comp io.WriteCloser
}

func (w *Writer) Write(p []byte) (int, error) {
	//nolint:wrapcheck
	return w.comp.Write(p)
}

// Close flushes the compressed stream and closes the artifact file.
func (w *Writer) Close() error {
	err := w.comp.Close()

	if err2 := w.file.Close(); err == nil {
		err = err2
	}

	return errors.Wrapf(err, "unable to finish artifact %v", w.path)
}

// Discard closes the writer and deletes the partially written artifact.
func (w *Writer) Discard() {
	w.comp.Close()    //nolint:errcheck
	w.file.Close()    //nolint:errcheck
	os.Remove(w.path) //nolint:errcheck
}

// Path returns the path of the artifact being written.
func (w *Writer) Path() string {
	return w.path
}

// Size returns the current on-disk size of a finished artifact.
func (w *Writer) Size() (int64, error) {
	fi, err := os.Stat(w.path)
	if err != nil {
		return 0, errors.Wrap(err, "unable to stat artifact")
	}

	return fi.Size(), nil
}
