// Package filelock writes the --output report file. Output is collected in
// memory while documents are mined and replaced in one atomic rename under a
// sibling ".lock" flock, so two runs aimed at the same file never interleave
// and readers never see a half-written report.
package filelock

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryDelay is how often a held lock is polled while waiting for it
const lockRetryDelay = 50 * time.Millisecond

// FileLock wraps a flock file lock for coordinating access to files.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock for the given path.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Lock waits for an exclusive lock until ctx is done.
func (fl *FileLock) Lock(ctx context.Context) error {
	locked, err := fl.flock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock on %s", fl.path)
	}
	return nil
}

// Unlock releases the lock and removes the lock file.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	os.Remove(fl.path)
	return nil
}

// AtomicWrite writes data to path through a temp file in the same directory
// followed by a rename, so the previous content stays intact on failure.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, ".mdtask-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	// Ensure temp file is cleaned up on error
	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	// Renamed into place, nothing to clean up
	tempFile = nil

	return nil
}

// LockAndWrite holds path+".lock" while atomically replacing path with data.
func LockAndWrite(ctx context.Context, path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	lock := NewFileLock(path + ".lock")
	if err := lock.Lock(ctx); err != nil {
		return err
	}
	defer lock.Unlock()

	return AtomicWrite(path, data)
}

// OutputFile is an io.Writer collecting a report that Commit publishes at path.
type OutputFile struct {
	path string
	buf  bytes.Buffer
}

// NewOutputFile returns an empty report for path. Nothing touches the file
// system until Commit.
func NewOutputFile(path string) *OutputFile {
	return &OutputFile{path: path}
}

// Write appends p to the report.
func (o *OutputFile) Write(p []byte) (int, error) {
	return o.buf.Write(p)
}

// Path returns the destination path.
func (o *OutputFile) Path() string {
	return o.path
}

// Commit replaces the destination file with everything written so far.
func (o *OutputFile) Commit(ctx context.Context) error {
	return LockAndWrite(ctx, o.path, o.buf.Bytes())
}
