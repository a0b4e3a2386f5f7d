// Package backup drives a complete backup run: extract settings, enter
// maintenance mode, dump the database, archive pages, images and the
// installation tree, leave maintenance mode.
package backup

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/mwbackup/mwbackup/compression"
	"github.com/mwbackup/mwbackup/internal/freespace"
	"github.com/mwbackup/mwbackup/internal/runlock"
	"github.com/mwbackup/mwbackup/internal/units"
	"github.com/mwbackup/mwbackup/logging"
	"github.com/mwbackup/mwbackup/wiki/archive"
	"github.com/mwbackup/mwbackup/wiki/artifact"
	"github.com/mwbackup/mwbackup/wiki/dump"
	"github.com/mwbackup/mwbackup/wiki/mwscript"
	"github.com/mwbackup/mwbackup/wiki/settings"
)

var log = logging.Module("backup")

// Options configures a backup run.
type Options struct {
	// WikiDir is the root of the installation to back up.
	WikiDir string

	// Compressor compresses all artifacts. The default compressor is
	// used when nil.
	Compressor compression.Compressor

	// ReadOnlyReason is shown to wiki users during the run.
	ReadOnlyReason string

	// Excludes are filename patterns left out of the file-tree archives.
	Excludes []string

	// KeepReadOnlyOnFailure leaves maintenance mode on when the run
	// fails, instead of restoring it in the cleanup path.
	KeepReadOnlyOnFailure bool

	// MinFreeSpace fails the run before entering maintenance mode when
	// the destination volume has fewer bytes available. Zero disables
	// the check.
	MinFreeSpace int64

	// MysqldumpPath overrides the networked dump tool.
	MysqldumpPath string

	// PHPPath overrides the php interpreter for maintenance scripts.
	PHPPath string

	// DisableRunLock skips the advisory lock that protects against
	// concurrent runs on the same wiki.
	DisableRunLock bool
}

// Artifact is one output file of a finished run.
type Artifact struct {
	Kind string
	Path string
	Size int64
}

// Result describes a finished run.
type Result struct {
	Target    *artifact.Target
	Backend   settings.Backend
	Artifacts []Artifact
	Warnings  []string
}

// Run executes the backup pipeline into the provided target. The
// returned error wraps dump.ErrDumpFailed when the networked database
// dump failed; everything downstream of the dump reports warnings in
// the Result instead of failing the run.
func Run(ctx context.Context, target *artifact.Target, opt Options) (res *Result, retErr error) {
	wikiDir, err := filepath.Abs(opt.WikiDir)
	if err != nil {
		return nil, errors.Wrap(err, "invalid wiki directory")
	}

	if !opt.DisableRunLock {
		l, err := runlock.Acquire(wikiDir)
		if err != nil {
			return nil, err
		}

		defer l.Release()
	}

	settingsPath := filepath.Join(wikiDir, settings.FileName)

	cfg, err := settings.Load(settingsPath)
	if err != nil {
		return nil, err
	}

	comp := opt.Compressor
	if comp == nil {
		if comp, err = compression.ForName(compression.DefaultName()); err != nil {
			return nil, err
		}
	}

	log(ctx).Infof("backing up %v wiki at %v into %v", cfg.Backend, wikiDir, target.Dir)

	if err := checkFreeSpace(ctx, target.Dir, opt.MinFreeSpace); err != nil {
		return nil, err
	}

	res = &Result{Target: target, Backend: cfg.Backend}

	log(ctx).Infof("entering maintenance mode")

	if _, err := settings.SetReadOnly(settingsPath, true, opt.ReadOnlyReason); err != nil {
		return nil, errors.Wrap(err, "unable to enter maintenance mode")
	}

	defer func() {
		if retErr != nil && opt.KeepReadOnlyOnFailure {
			log(ctx).Warnf("maintenance mode left on after failure, clear it with 'mwbackup maintenance off'")
			return
		}

		log(ctx).Infof("leaving maintenance mode")

		if _, err := settings.SetReadOnly(settingsPath, false, ""); err != nil {
			log(ctx).Errorf("unable to leave maintenance mode: %v", err)

			if retErr == nil {
				retErr = errors.Wrap(err, "unable to leave maintenance mode")
			}
		}
	}()

	scripts := &mwscript.Runner{WikiDir: wikiDir, PHPPath: opt.PHPPath}

	log(ctx).Infof("dumping %v database", cfg.Backend)

	dumpRes, err := dump.Run(ctx, cfg, target, dump.Options{
		Compressor:    comp,
		MysqldumpPath: opt.MysqldumpPath,
		Scripts:       scripts,
	})
	if err != nil {
		return nil, err
	}

	res.warn(ctx, dumpRes.Warnings...)

	if dumpRes.Path != "" {
		kind := dump.KindDatabaseSQL
		if cfg.Backend == settings.EmbeddedFile {
			kind = dump.KindDatabaseSQLite
		}

		res.addArtifact(ctx, kind, dumpRes.Path)
	}

	aopt := archive.Options{
		Compressor: comp,
		Scripts:    scripts,
		Excludes:   opt.Excludes,
	}

	if aopt.SkipDir, err = filepath.Abs(filepath.Dir(target.Dir)); err != nil {
		aopt.SkipDir = ""
	}

	log(ctx).Infof("exporting pages")
	res.collect(ctx, archive.KindPages, archive.ExportContent(ctx, target, aopt))

	log(ctx).Infof("archiving images")
	res.collect(ctx, archive.KindImages, archive.ExportImages(ctx, wikiDir, target, aopt))

	log(ctx).Infof("archiving installation directory")
	res.collect(ctx, archive.KindInstallation, archive.ExportInstallation(ctx, wikiDir, target, aopt))

	return res, nil
}

func checkFreeSpace(ctx context.Context, dir string, minFree int64) error {
	if minFree <= 0 {
		return nil
	}

	avail, err := freespace.Available(dir)
	if err != nil {
		log(ctx).Warnf("unable to determine free space: %v", err)
		return nil
	}

	log(ctx).Debugf("%v available in %v", units.BytesString(avail), dir)

	if avail < minFree {
		return errors.Errorf("not enough free space in %v: %v available, %v required",
			dir, units.BytesString(avail), units.BytesString(minFree))
	}

	return nil
}

func (r *Result) warn(ctx context.Context, warnings ...string) {
	for _, w := range warnings {
		log(ctx).Warnf("%v", w)
		r.Warnings = append(r.Warnings, w)
	}
}

func (r *Result) collect(ctx context.Context, kind string, ar *archive.Result) {
	r.warn(ctx, ar.Warnings...)

	if ar.Path != "" {
		r.addArtifact(ctx, kind, ar.Path)
	}
}

func (r *Result) addArtifact(ctx context.Context, kind, path string) {
	a := Artifact{Kind: kind, Path: path}

	if fi, err := os.Stat(path); err == nil {
		a.Size = fi.Size()
	} else {
		r.warn(ctx, "unable to stat "+path)
	}

	log(ctx).Infof("created %v (%v)", filepath.Base(path), units.BytesString(a.Size))

	r.Artifacts = append(r.Artifacts, a)
}
