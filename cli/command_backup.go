package cli

import (
	"context"
	"time"

	"github.com/mwbackup/mwbackup/compression"
	"github.com/mwbackup/mwbackup/internal/clock"
	"github.com/mwbackup/mwbackup/internal/units"
	"github.com/mwbackup/mwbackup/wiki/artifact"
	"github.com/mwbackup/mwbackup/wiki/backup"
	"github.com/mwbackup/mwbackup/wiki/settings"
	"github.com/mwbackup/mwbackup/wiki/upload"
)

var (
	backupCommand = app.Command("backup", "Back up a wiki installation.")

	backupWikiDir = backupCommand.Flag("wiki-dir", "Wiki installation directory containing LocalSettings.php.").Required().ExistingDir()
	backupDir     = backupCommand.Flag("backup-dir", "Directory the dated backup folder is created in.").Required().PlaceHolder("PATH").String()

	backupCompression = backupCommand.Flag("compression", "Compression algorithm for all artifacts.").Default(string(compression.DefaultName())).Enum(compression.Names()...)
	backupReason      = backupCommand.Flag("read-only-reason", "Message shown to wiki users while the backup runs.").Default(settings.DefaultReadOnlyReason).String()
	backupExcludes    = backupCommand.Flag("exclude", "Filename pattern excluded from the file-tree archives. Can be repeated.").PlaceHolder("PATTERN").Strings()

	backupKeepReadOnly = backupCommand.Flag("keep-read-only-on-failure", "Leave maintenance mode on when the run fails.").Bool()
	backupMinFree      = backupCommand.Flag("min-free-space", "Refuse to run when the destination volume has less free space.").PlaceHolder("SIZE").Bytes()

	backupUploadTo        = backupCommand.Flag("upload-to", "Upload finished artifacts to s3://bucket[/prefix].").PlaceHolder("URL").String()
	backupUploadEndpoint  = backupCommand.Flag("upload-endpoint", "S3 endpoint for uploads.").Default("s3.amazonaws.com").String()
	backupUploadAccessKey = backupCommand.Flag("upload-access-key", "S3 access key.").Envar("MWBACKUP_S3_ACCESS_KEY").String()
	backupUploadSecretKey = backupCommand.Flag("upload-secret-key", "S3 secret key.").Envar("MWBACKUP_S3_SECRET_KEY").String()
	backupUploadInsecure  = backupCommand.Flag("upload-insecure", "Disable TLS for uploads.").Hidden().Bool()

	backupMysqldumpPath = backupCommand.Flag("mysqldump-path", "Path to the mysqldump binary.").Hidden().String()
	backupPHPPath       = backupCommand.Flag("php-path", "Path to the php interpreter.").Hidden().String()
	backupNoRunLock     = backupCommand.Flag("no-run-lock", "Do not take the advisory per-wiki lock.").Hidden().Bool()
)

func runBackupCommand(ctx context.Context) error {
	comp, err := compression.ForName(compression.Name(*backupCompression))
	if err != nil {
		return err
	}

	var dest *upload.Destination

	if *backupUploadTo != "" {
		if dest, err = upload.ParseDestination(*backupUploadTo); err != nil {
			return err
		}
	}

	startTime := clock.Now()

	target, err := artifact.NewTarget(*backupDir, startTime)
	if err != nil {
		return err
	}

	ctx, closeLog, err := setupLogFile(ctx, target.LogPath())
	if err != nil {
		return err
	}
	defer closeLog()

	res, err := backup.Run(ctx, target, backup.Options{
		WikiDir:               *backupWikiDir,
		Compressor:            comp,
		ReadOnlyReason:        *backupReason,
		Excludes:              *backupExcludes,
		KeepReadOnlyOnFailure: *backupKeepReadOnly,
		MinFreeSpace:          int64(*backupMinFree),
		MysqldumpPath:         *backupMysqldumpPath,
		PHPPath:               *backupPHPPath,
		DisableRunLock:        *backupNoRunLock,
	})
	if err != nil {
		return err
	}

	if dest != nil {
		var paths []string

		for _, a := range res.Artifacts {
			paths = append(paths, a.Path)
		}

		if err := upload.Run(ctx, paths, target.Prefix, dest, upload.Options{
			Endpoint:  *backupUploadEndpoint,
			AccessKey: *backupUploadAccessKey,
			SecretKey: *backupUploadSecretKey,
			Insecure:  *backupUploadInsecure,
		}); err != nil {
			return err
		}
	}

	printBackupSummary(res, clock.Since(startTime))

	return nil
}

func printBackupSummary(res *backup.Result, elapsed time.Duration) {
	printStderr("\nFinished backing up %v wiki in %v.\n", res.Backend, elapsed.Round(time.Second))

	for _, a := range res.Artifacts {
		printStdout("%10v  %v\n", units.BytesString(a.Size), a.Path)
	}

	if n := len(res.Warnings); n > 0 {
		printStderr("\nCompleted with %v warning(s), see %v for details.\n", n, res.Target.LogPath())
	}
}

func init() {
	backupCommand.Action(appAction(runBackupCommand))
}
