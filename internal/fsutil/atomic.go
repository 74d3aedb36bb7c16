// Package fsutil holds small filesystem helpers shared by config, backup,
// and report export.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// WriteFileAtomic writes data to path so that readers never observe a
// partial file: the bytes go to a temp file in the same directory, get
// fsynced, and are renamed over the destination.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if err := fillTemp(tmp, data, perm); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	// Make the rename durable. Failure here is not worth surfacing: the
	// data itself is already synced.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

// fillTemp writes, syncs, and closes the temp file.
func fillTemp(tmp *os.File, data []byte, perm os.FileMode) error {
	name := tmp.Name()
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("fsync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}

// rename moves the temp file into place. Windows refuses to rename over an
// existing file, so the destination is removed first there.
func rename(from, to string) error {
	err := os.Rename(from, to)
	if err == nil {
		return nil
	}
	if runtime.GOOS == "windows" {
		if rmErr := os.Remove(to); rmErr == nil {
			if err = os.Rename(from, to); err == nil {
				return nil
			}
		}
	}
	return fmt.Errorf("rename %s -> %s: %w", from, to, err)
}
