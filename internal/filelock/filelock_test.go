package filelock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileLock(t *testing.T) {
	tmpDir := t.TempDir()
	lockPath := filepath.Join(tmpDir, "test.lock")

	lock := NewFileLock(lockPath)
	if lock == nil {
		t.Fatal("NewFileLock should not return nil")
	}

	if lock.path != lockPath {
		t.Errorf("Expected lock path %s, got %s", lockPath, lock.path)
	}
}

func TestLockUnlock(t *testing.T) {
	tmpDir := t.TempDir()
	lockPath := filepath.Join(tmpDir, "test.lock")

	lock := NewFileLock(lockPath)

	require.NoError(t, lock.Lock(context.Background()))
	require.NoError(t, lock.Unlock())

	_, err := os.Stat(lockPath)
	assert.True(t, os.IsNotExist(err), "lock file should be removed on unlock")
}

func TestLockAfterRelease(t *testing.T) {
	tmpDir := t.TempDir()
	lockPath := filepath.Join(tmpDir, "test.lock")

	holder := NewFileLock(lockPath)
	require.NoError(t, holder.Lock(context.Background()))

	acquired := make(chan error, 1)
	go func() {
		other := NewFileLock(lockPath)
		err := other.Lock(context.Background())
		if err == nil {
			err = other.Unlock()
		}
		acquired <- err
	}()

	// The waiter cannot get the lock while it is held
	select {
	case err := <-acquired:
		t.Fatalf("lock acquired while held: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	require.NoError(t, holder.Unlock())

	select {
	case err := <-acquired:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("waiter never acquired the released lock")
	}
}

func TestLockHonoursContext(t *testing.T) {
	tmpDir := t.TempDir()
	lockPath := filepath.Join(tmpDir, "test.lock")

	holder := NewFileLock(lockPath)
	require.NoError(t, holder.Lock(context.Background()))
	defer holder.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	err := NewFileLock(lockPath).Lock(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to acquire lock")
}

func TestAtomicWrite(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "tasks.txt")

	require.NoError(t, AtomicWrite(path, []byte("first")))
	require.NoError(t, AtomicWrite(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestAtomicWriteNoTempFileLeftBehind(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "tasks.txt")

	require.NoError(t, AtomicWrite(path, []byte("content")))

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".mdtask-"), "temp file %s left behind", e.Name())
	}
}

func TestAtomicWriteCreateDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "reports", "weekly", "tasks.txt")

	require.NoError(t, AtomicWrite(path, []byte("content")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestLockAndWriteDeletesLockFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "tasks.txt")

	require.NoError(t, LockAndWrite(context.Background(), path, []byte("x")))

	_, err := os.Stat(path + ".lock")
	assert.True(t, os.IsNotExist(err))
}

func TestConcurrentLockAndWrite(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "tasks.txt")

	const writers = 5
	var wg sync.WaitGroup
	wg.Add(writers)

	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		go func(i int) {
			defer wg.Done()
			content := strings.Repeat(fmt.Sprintf("writer %d\n", i), 100)
			errs <- LockAndWrite(context.Background(), path, []byte(content))
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	// The file holds exactly one writer's report
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 100)
	for _, line := range lines {
		assert.Equal(t, lines[0], line)
	}
}

func TestOutputFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "out", "tasks.txt")

	out := NewOutputFile(path)
	assert.Equal(t, path, out.Path())

	fmt.Fprint(out, "\n\n--a.md--\n")
	fmt.Fprint(out, "* [ ] task\n")

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing is written before Commit")

	require.NoError(t, out.Commit(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\n\n--a.md--\n* [ ] task\n", string(data))
}
