package cli

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mwbackup/mwbackup/logging"
)

var (
	logLevel      = app.Flag("log-level", "Console log level").Default("info").Enum("debug", "info", "warning", "error")
	fileLogLevel  = app.Flag("file-log-level", "Log file log level").Default("debug").Enum("debug", "info", "warning", "error")
	disableColor  = app.Flag("disable-color", "Disable colored output").Envar("MWBACKUP_DISABLE_COLOR").Bool()
	logTimestamps = app.Flag("log-timestamps", "Log timestamps on the console").Hidden().Bool()
)

var levelColors = map[zapcore.Level]*color.Color{
	zapcore.DebugLevel: color.New(color.FgHiBlack),
	zapcore.WarnLevel:  color.New(color.FgYellow),
	zapcore.ErrorLevel: color.New(color.FgHiRed),
}

func consoleLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if c := levelColors[l]; c != nil && !*disableColor {
		enc.AppendString(c.Sprint(l.CapitalString()))
		return
	}

	enc.AppendString(l.CapitalString())
}

func zapLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func consoleCore() zapcore.Core {
	ec := zapcore.EncoderConfig{
		MessageKey:       "m",
		LevelKey:         "l",
		NameKey:          "n",
		EncodeLevel:      consoleLevelEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}

	if *logTimestamps {
		ec.TimeKey = "t"
		ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	}

	return zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(os.Stderr), zapLevel(*logLevel))
}

func fileCore(ws zapcore.WriteSyncer) zapcore.Core {
	return zapcore.NewCore(zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "t",
		LevelKey:         "l",
		NameKey:          "n",
		MessageKey:       "m",
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}), ws, zapLevel(*fileLogLevel))
}

func zapLoggerFactory(core zapcore.Core) logging.LoggerFactory {
	l := zap.New(core)

	return func(module string) logging.Logger {
		return l.Named(module).Sugar()
	}
}

// rootContext returns the base context of a command invocation, with
// console logging attached.
func rootContext() context.Context {
	return logging.WithLogger(context.Background(), zapLoggerFactory(consoleCore()))
}

// setupLogFile opens the per-run log file and returns a derived context
// whose loggers duplicate every entry to the console and the file.
// Opening the file also proves the backup target is writable before any
// export work starts.
func setupLogFile(ctx context.Context, path string) (context.Context, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) //nolint:gosec
	if err != nil {
		return ctx, nil, errors.Wrap(err, "unable to create log file")
	}

	l := zap.New(zapcore.NewTee(consoleCore(), fileCore(zapcore.AddSync(f))))

	closer := func() {
		_ = l.Sync()
		_ = f.Close()
	}

	return logging.WithLogger(ctx, func(module string) logging.Logger {
		return l.Named(module).Sugar()
	}), closer, nil
}
