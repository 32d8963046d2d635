package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// New initializes a logger that writes to stderr and, when logFileName is
// set, duplicates output to a log file under outputDir. Logging goes to
// stderr so it does not fight the progress display on stdout.
func New(outputDir, logFileName, level string) (*slog.Logger, *os.File) {
	var logWriter io.Writer = os.Stderr
	var logFile *os.File

	handlerOpts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	if logFileName != "" {
		logPath := filepath.Join(outputDir, logFileName)
		var err error
		logFile, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			slog.Error("Failed to open log file, continuing with stderr only", "error", err, "path", logPath)
		} else {
			logWriter = io.MultiWriter(os.Stderr, logFile)
		}
	}

	logger := slog.New(slog.NewJSONHandler(logWriter, handlerOpts))
	slog.SetDefault(logger)

	return logger, logFile
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
