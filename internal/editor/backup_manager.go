package editor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"texclean/internal/logger"
	"texclean/internal/types"
)

// BackupManager keeps timestamped copies of files before they are rewritten.
type BackupManager struct {
	backupDir string
	now       func() time.Time
}

// NewBackupManager creates a new BackupManager.
// If backupDir is empty, backups are created next to the original file.
func NewBackupManager(backupDir string) *BackupManager {
	return &BackupManager{
		backupDir: backupDir,
		now:       time.Now,
	}
}

// backupPrefix is the name every backup of path starts with.
func backupPrefix(path string) string {
	return filepath.Base(path) + ".backup_"
}

func (m *BackupManager) dirFor(path string) string {
	if m.backupDir != "" {
		return m.backupDir
	}
	return filepath.Dir(path)
}

// CreateBackup copies path to <name>.backup_<timestamp> and returns the copy's path.
func (m *BackupManager) CreateBackup(path string) (string, error) {
	logger.Debug("creating backup", logger.String("path", path))

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", types.NewAppErrorWithDetails(types.ErrFileNotFound, "file does not exist", path, err)
		}
		return "", types.NewAppErrorWithDetails(types.ErrIO, "failed to stat file", path, err)
	}

	dir := m.dirFor(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("failed to create backup directory", err)
		return "", types.NewAppError(types.ErrIO, "failed to create backup directory", err)
	}

	timestamp := m.now().Format("20060102_150405")
	backupPath := filepath.Join(dir, backupPrefix(path)+timestamp)

	if err := copyFile(path, backupPath); err != nil {
		logger.Error("failed to copy file", err)
		return "", types.NewAppErrorWithDetails(types.ErrIO, "failed to create backup", backupPath, err)
	}

	logger.Info("backup created", logger.String("backupPath", backupPath))
	return backupPath, nil
}

// ListBackups lists all backups for a given file, newest first.
func (m *BackupManager) ListBackups(path string) ([]string, error) {
	searchDir := m.dirFor(path)

	entries, err := os.ReadDir(searchDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var backups []string
	prefix := backupPrefix(path)
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			backups = append(backups, filepath.Join(searchDir, entry.Name()))
		}
	}

	// Timestamps sort lexically.
	sort.Sort(sort.Reverse(sort.StringSlice(backups)))
	return backups, nil
}

// CleanupBackups removes old backups, keeping only the most recent keepCount.
// A keepCount of zero or less keeps everything.
func (m *BackupManager) CleanupBackups(path string, keepCount int) error {
	if keepCount <= 0 {
		return nil
	}

	backups, err := m.ListBackups(path)
	if err != nil {
		return err
	}

	removed := 0
	for i := keepCount; i < len(backups); i++ {
		if err := os.Remove(backups[i]); err != nil {
			logger.Warn("failed to remove backup", logger.Err(err), logger.String("path", backups[i]))
			continue
		}
		removed++
	}

	logger.Debug("backup cleanup completed",
		logger.String("path", path),
		logger.Int("totalBackups", len(backups)),
		logger.Int("removed", removed))
	return nil
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}
	if err := destFile.Sync(); err != nil {
		return err
	}

	sourceInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.Chmod(dst, sourceInfo.Mode())
}
