package backup_test

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mwbackup/mwbackup/internal/runlock"
	"github.com/mwbackup/mwbackup/internal/testlogging"
	"github.com/mwbackup/mwbackup/wiki/archive"
	"github.com/mwbackup/mwbackup/wiki/artifact"
	"github.com/mwbackup/mwbackup/wiki/backup"
	"github.com/mwbackup/mwbackup/wiki/dump"
	"github.com/mwbackup/mwbackup/wiki/settings"
)

func skipOnWindows(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("test uses shell scripts as fake tools")
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fake-tool")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))

	return path
}

// fakePHP handles both maintenance scripts the pipeline runs.
func fakePHP(t *testing.T) string {
	t.Helper()

	return writeScript(t, `case "$1" in
*sqlite.php) echo 'sqlite-data' > "$3";;
*dumpBackup.php) echo '<mediawiki/>';;
*) echo "unexpected script $1" >&2; exit 9;;
esac
`)
}

func embeddedWiki(t *testing.T) string {
	t.Helper()

	wikiDir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(wikiDir, "data"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(wikiDir, "maintenance"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(wikiDir, "images"), 0o755))

	for _, script := range []string{"sqlite.php", "dumpBackup.php"} {
		require.NoError(t, os.WriteFile(filepath.Join(wikiDir, "maintenance", script), []byte("<?php\n"), 0o644))
	}

	require.NoError(t, os.WriteFile(filepath.Join(wikiDir, "images", "logo.png"), []byte("png-bytes"), 0o644))

	require.NoError(t, os.WriteFile(filepath.Join(wikiDir, settings.FileName), []byte(`<?php
$wgSitename = "Example Wiki";
$wgDBtype = "sqlite";
$wgDBname = "wikidb";
$wgSQLiteDataDir = "`+filepath.ToSlash(filepath.Join(wikiDir, "data"))+`";
`), 0o644))

	return wikiDir
}

func networkedWiki(t *testing.T) string {
	t.Helper()

	wikiDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(wikiDir, settings.FileName), []byte(`<?php
$wgDBtype = "mysql";
$wgDBserver = "localhost";
$wgDBname = "wikidb";
$wgDBuser = "wikiuser";
$wgDBpassword = "hunter2";
`), 0o644))

	return wikiDir
}

func newTarget(t *testing.T) *artifact.Target {
	t.Helper()

	target, err := artifact.NewTarget(t.TempDir(), time.Date(2021, 7, 14, 3, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	return target
}

func kinds(res *backup.Result) []string {
	var k []string

	for _, a := range res.Artifacts {
		k = append(k, a.Kind)
	}

	return k
}

func TestRunEmbedded(t *testing.T) {
	skipOnWindows(t)

	wikiDir := embeddedWiki(t)
	target := newTarget(t)

	res, err := backup.Run(testlogging.Context(t), target, backup.Options{
		WikiDir: wikiDir,
		PHPPath: fakePHP(t),
	})
	require.NoError(t, err)
	require.Empty(t, res.Warnings)

	require.Equal(t, []string{
		dump.KindDatabaseSQLite,
		archive.KindPages,
		archive.KindImages,
		archive.KindInstallation,
	}, kinds(res))

	for _, a := range res.Artifacts {
		require.FileExists(t, a.Path)
		require.Positive(t, a.Size)
	}

	// maintenance mode is off again after the run
	on, err := settings.IsReadOnly(filepath.Join(wikiDir, settings.FileName))
	require.NoError(t, err)
	require.False(t, on)

	// but the archived copy of LocalSettings.php was taken while the
	// sentinel was present
	requireArchivedSettingsReadOnly(t, res, wikiDir)
}

func requireArchivedSettingsReadOnly(t *testing.T, res *backup.Result, wikiDir string) {
	t.Helper()

	var installPath string

	for _, a := range res.Artifacts {
		if a.Kind == archive.KindInstallation {
			installPath = a.Path
		}
	}

	require.NotEmpty(t, installPath)

	f, err := os.Open(installPath)
	require.NoError(t, err)

	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)

	want := filepath.Base(wikiDir) + "/" + settings.FileName
	tr := tar.NewReader(gz)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}

		require.NoError(t, err)

		if hdr.Name != want {
			continue
		}

		b, err := io.ReadAll(tr)
		require.NoError(t, err)
		require.Contains(t, string(b), "$wgReadOnly")

		return
	}

	t.Fatalf("%v not found in installation archive", want)
}

func TestRunNetworkedDumpFailureAborts(t *testing.T) {
	skipOnWindows(t)

	wikiDir := networkedWiki(t)
	target := newTarget(t)

	_, err := backup.Run(testlogging.Context(t), target, backup.Options{
		WikiDir:       wikiDir,
		MysqldumpPath: writeScript(t, "echo 'Access denied' >&2\nexit 1\n"),
	})
	require.ErrorIs(t, err, dump.ErrDumpFailed)

	// no artifacts remain, including the discarded partial dump
	entries, err := os.ReadDir(target.Dir)
	require.NoError(t, err)
	require.Empty(t, entries)

	// maintenance mode was still restored
	on, err := settings.IsReadOnly(filepath.Join(wikiDir, settings.FileName))
	require.NoError(t, err)
	require.False(t, on)
}

func TestRunKeepReadOnlyOnFailure(t *testing.T) {
	skipOnWindows(t)

	wikiDir := networkedWiki(t)

	_, err := backup.Run(testlogging.Context(t), newTarget(t), backup.Options{
		WikiDir:               wikiDir,
		MysqldumpPath:         writeScript(t, "exit 1\n"),
		KeepReadOnlyOnFailure: true,
	})
	require.ErrorIs(t, err, dump.ErrDumpFailed)

	on, err := settings.IsReadOnly(filepath.Join(wikiDir, settings.FileName))
	require.NoError(t, err)
	require.True(t, on)
}

func TestRunEmbeddedMissingDataDirStillArchives(t *testing.T) {
	skipOnWindows(t)

	wikiDir := embeddedWiki(t)
	require.NoError(t, os.RemoveAll(filepath.Join(wikiDir, "data")))

	res, err := backup.Run(testlogging.Context(t), newTarget(t), backup.Options{
		WikiDir: wikiDir,
		PHPPath: fakePHP(t),
	})
	require.NoError(t, err)

	require.NotEmpty(t, res.Warnings)
	require.Contains(t, res.Warnings[0], "does not exist")

	// the archiving steps still ran
	require.Equal(t, []string{
		archive.KindPages,
		archive.KindImages,
		archive.KindInstallation,
	}, kinds(res))
}

func TestRunMissingSettings(t *testing.T) {
	_, err := backup.Run(testlogging.Context(t), newTarget(t), backup.Options{
		WikiDir: t.TempDir(),
	})
	require.ErrorIs(t, err, settings.ErrNotFound)
}

func TestRunRefusesConcurrentRun(t *testing.T) {
	wikiDir := embeddedWiki(t)

	l, err := runlock.Acquire(wikiDir)
	require.NoError(t, err)

	defer l.Release()

	_, err = backup.Run(testlogging.Context(t), newTarget(t), backup.Options{
		WikiDir: wikiDir,
	})
	require.ErrorIs(t, err, runlock.ErrHeld)
}

func TestRunMinFreeSpace(t *testing.T) {
	wikiDir := embeddedWiki(t)
	settingsPath := filepath.Join(wikiDir, settings.FileName)

	before, err := os.ReadFile(settingsPath)
	require.NoError(t, err)

	_, err = backup.Run(testlogging.Context(t), newTarget(t), backup.Options{
		WikiDir:      wikiDir,
		MinFreeSpace: math.MaxInt64,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "not enough free space")

	// the run failed before touching the wiki
	after, err := os.ReadFile(settingsPath)
	require.NoError(t, err)
	require.Equal(t, string(before), string(after))
}
