// Package storage provides filesystem primitives for the flat-file stores.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WriteAtomic replaces the file at path with content via a temp file and
// rename, so a crash mid-write never leaves a partially written store behind.
// Parent directories are created if needed.
func WriteAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}

// Quarantine renames the file at path to "<stem>_backup_<timestamp><ext>" in
// the same directory, preserving the corrupt content for inspection while
// unblocking normal operation. It returns the backup path.
func Quarantine(path string) (string, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]

	backup := filepath.Join(dir, fmt.Sprintf("%s_backup_%s%s", stem, time.Now().Format("20060102_150405"), ext))
	if err := os.Rename(path, backup); err != nil {
		return "", fmt.Errorf("failed to quarantine file: %w", err)
	}
	return backup, nil
}
