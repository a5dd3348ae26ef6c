// Package fileutil provides shared file operation helpers.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const (
	ownerReadWrite = 0o600
	executableBits = 0o111
)

// AtomicFile is a temporary file that replaces its target on Commit.
// Callers must defer Abort, which is a no-op after a successful Commit.
type AtomicFile struct {
	*os.File

	target    string
	exec      bool
	committed bool
}

// CreateAtomic creates a temporary file next to target.
// When exec is set the committed file keeps its executable bits.
func CreateAtomic(target string, exec bool) (*AtomicFile, error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &AtomicFile{File: tmpFile, target: target, exec: exec}, nil
}

// Commit closes the temporary file, applies permissions and renames it onto the target.
func (a *AtomicFile) Commit() error {
	perm := os.FileMode(ownerReadWrite)
	if a.exec {
		perm |= executableBits
	}

	if err := os.Chmod(a.Name(), perm); err != nil {
		return fmt.Errorf("setting file permissions: %w", err)
	}

	if err := a.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(a.Name(), a.target); err != nil {
		return fmt.Errorf("renaming output file: %w", err)
	}

	a.committed = true

	return nil
}

// Abort removes the temporary file unless it was committed.
func (a *AtomicFile) Abort() {
	if a.committed {
		return
	}

	a.Close()           //nolint:errcheck,gosec // best-effort cleanup
	os.Remove(a.Name()) //nolint:errcheck,gosec // best-effort cleanup
}

// IsExecutable reports whether info has any executable bit set.
func IsExecutable(info fs.FileInfo) bool {
	return info.Mode()&executableBits != 0
}

// Exists reports whether path exists.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %q: %w", path, err)
	}
}

// FinalizeOutput optionally preserves timestamps and returns the output file size.
func FinalizeOutput(outPath string, preserveTimestamps bool, modTime time.Time) (int64, error) {
	if preserveTimestamps {
		if err := os.Chtimes(outPath, modTime, modTime); err != nil {
			return 0, fmt.Errorf("preserving timestamps: %w", err)
		}
	}

	outInfo, err := os.Stat(outPath)
	if err != nil {
		return 0, fmt.Errorf("stat output %q: %w", outPath, err)
	}

	return outInfo.Size(), nil
}
