package dump

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/mwbackup/mwbackup/internal/osexec"
	"github.com/mwbackup/mwbackup/wiki/artifact"
	"github.com/mwbackup/mwbackup/wiki/settings"
)

// DefaultMysqldumpPath is the dump tool used when none is configured.
const DefaultMysqldumpPath = "mysqldump"

func runNetworked(ctx context.Context, cfg *settings.Config, target *artifact.Target, opt Options) (*Result, error) {
	w, err := target.NewWriter(KindDatabaseSQL, opt.Compressor)
	if err != nil {
		return nil, err
	}

	mysqldump := opt.MysqldumpPath
	if mysqldump == "" {
		mysqldump = DefaultMysqldumpPath
	}

	c := exec.CommandContext(ctx, mysqldump,
		"--single-transaction",
		"--default-character-set="+cfg.Charset,
		"--host="+cfg.Host,
		"--user="+cfg.User,
		cfg.DBName)

	// the password travels through the environment, keeping it out of
	// the process list
	c.Env = append(os.Environ(), "MYSQL_PWD="+cfg.Password)
	osexec.OwnProcessGroup(c)

	var stderr bytes.Buffer

	c.Stdout = w
	c.Stderr = &stderr

	log(ctx).Debugf("running %v", strings.Join(c.Args, " "))

	if err := c.Run(); err != nil {
		w.Discard()

		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, errors.Wrapf(ErrDumpFailed, "mysqldump: %v (%v)", err, msg)
		}

		return nil, errors.Wrapf(ErrDumpFailed, "mysqldump: %v", err)
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return &Result{Path: w.Path()}, nil
}
