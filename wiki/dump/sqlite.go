package dump

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mwbackup/mwbackup/wiki/artifact"
	"github.com/mwbackup/mwbackup/wiki/settings"
)

// sqliteScript serializes the embedded database into a standalone file.
const sqliteScript = "sqlite.php"

// runEmbedded exports the embedded database through the wiki's own
// maintenance script into a temporary file, then compresses that file
// into the artifact. All failures are reported as warnings.
func runEmbedded(ctx context.Context, cfg *settings.Config, target *artifact.Target, opt Options) *Result {
	res := &Result{}

	if _, err := os.Stat(cfg.DataDir); err != nil {
		res.warnf("embedded database directory %v does not exist, skipping database dump", cfg.DataDir)
		return res
	}

	if err := opt.Scripts.CheckScript(sqliteScript); err != nil {
		res.warnf("cannot dump embedded database: %v", err)
		return res
	}

	tmp := filepath.Join(os.TempDir(), "mwbackup-"+uuid.New().String()+".sqlite")

	c := opt.Scripts.Command(ctx, sqliteScript, "--backup-to", tmp)

	log(ctx).Debugf("running %v", strings.Join(c.Args, " "))

	if out, err := c.CombinedOutput(); err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			res.warnf("sqlite backup script failed: %v (%v)", err, msg)
		} else {
			res.warnf("sqlite backup script failed: %v", err)
		}
	}

	// even after a script failure, salvage whatever it managed to write
	if _, err := os.Stat(tmp); err != nil {
		res.warnf("embedded database dump appears to have failed, no artifact produced")
		return res
	}

	path, err := compressFile(tmp, target, opt)
	if err != nil {
		res.warnf("unable to compress embedded database dump: %v", err)
		return res
	}

	// the temporary file is deleted only once the artifact is in place
	if _, err := os.Stat(path); err == nil {
		os.Remove(tmp) //nolint:errcheck
	} else {
		res.warnf("embedded database dump appears to have failed, keeping %v", tmp)
		return res
	}

	res.Path = path

	return res
}

func compressFile(src string, target *artifact.Target, opt Options) (string, error) {
	in, err := os.Open(src) //nolint:gosec
	if err != nil {
		return "", err
	}
	defer in.Close() //nolint:errcheck

	w, err := target.NewWriter(KindDatabaseSQLite, opt.Compressor)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(w, in); err != nil {
		w.Discard()
		return "", err
	}

	if err := w.Close(); err != nil {
		return "", err
	}

	return w.Path(), nil
}

func (r *Result) warnf(msg string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(msg, args...))
}
