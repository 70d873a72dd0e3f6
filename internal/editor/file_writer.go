package editor

import (
	"os"
	"path/filepath"

	"texclean/internal/logger"
	"texclean/internal/types"
)

// WriteFileAtomic writes data to a temp file next to path and renames it over
// path, so readers see either the old or the new content.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return types.NewAppErrorWithDetails(types.ErrIO, "failed to create temp file", path, err)
	}
	tmpPath := tmpFile.Name()

	fail := func(msg string, err error) error {
		tmpFile.Close()
		os.Remove(tmpPath)
		logger.Error(msg, err, logger.String("path", path))
		return types.NewAppErrorWithDetails(types.ErrIO, msg, path, err)
	}

	if _, err := tmpFile.Write(data); err != nil {
		return fail("failed to write temp file", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fail("failed to sync temp file", err)
	}
	if err := tmpFile.Chmod(perm); err != nil {
		return fail("failed to set file mode", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return types.NewAppErrorWithDetails(types.ErrIO, "failed to close temp file", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		logger.Error("failed to replace file", err, logger.String("path", path))
		return types.NewAppErrorWithDetails(types.ErrIO, "failed to replace file", path, err)
	}
	return nil
}

// WriteDocument encodes text in doc's charset and writes it to path atomically
// with doc's file mode.
func WriteDocument(path string, doc *Document, text string) error {
	data, err := doc.Encode(text)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data, doc.Mode)
}
