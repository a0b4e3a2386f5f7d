// Package runlock guards against overlapping backup runs of one installation.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

// ErrHeld indicates another process is already backing up this installation.
var ErrHeld = errors.New("another backup of this wiki appears to be running")

// Lock is an advisory per-installation file lock. It protects the settings
// file from concurrent read-only toggles by overlapping scheduled runs; it is
// advisory only and does not stop unrelated writers.
type Lock struct {
	fl *flock.Flock
}

// Acquire takes a non-blocking advisory lock scoped to the given installation
// directory. The lock file lives in the system temporary directory, keyed by a
// digest of the resolved path, so neither the wiki tree nor the backup
// destination is polluted.
func Acquire(wikiDir string) (*Lock, error) {
	abs, err := filepath.Abs(wikiDir)
	if err != nil {
		return nil, errors.Wrap(err, "unable to resolve installation path")
	}

	sum := sha256.Sum256([]byte(abs))
	path := filepath.Join(os.TempDir(), "mwbackup-"+hex.EncodeToString(sum[:8])+".lock")

	fl := flock.New(path)

	ok, err := fl.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to acquire run lock %v", path)
	}

	if !ok {
		return nil, errors.Wrapf(ErrHeld, "lock file %v", path)
	}

	return &Lock{fl: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.fl.Path()
}

// Release drops the lock. Safe to call on a nil lock.
func (l *Lock) Release() {
	if l == nil {
		return
	}

	l.fl.Unlock() //nolint:errcheck
}
