package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = ".lock"

// DirLock guards an output directory against a second commentflow instance
// writing reports into it concurrently.
type DirLock struct {
	lock   *flock.Flock
	logger *slog.Logger
}

// AcquireDirLock creates the output directory if needed and takes a file
// lock inside it. It fails if another instance already holds the lock.
func AcquireDirLock(outputDir string, logger *slog.Logger) (*DirLock, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create output directory %s: %w", outputDir, err)
	}

	lockPath := filepath.Join(outputDir, lockFileName)
	fileLock := flock.New(lockPath)

	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("could not acquire file lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("output directory %s is locked by another commentflow instance", outputDir)
	}

	logger.Debug("Acquired output lock.", "path", lockPath)

	return &DirLock{lock: fileLock, logger: logger}, nil
}

// Release unlocks the directory. The lock file itself is left behind.
func (l *DirLock) Release() {
	if err := l.lock.Unlock(); err != nil {
		l.logger.Error("Failed to release output lock.", "error", err)
	}
}
