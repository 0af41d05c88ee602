package identmap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// staleLockAge is how old a lock file may be before it is considered
// abandoned and removed.
const staleLockAge = 10 * time.Minute

// ErrLocked is returned when another process holds the map lock.
var ErrLocked = errors.New("identifier map is locked")

// Lock acquires a file lock on the identifier map to serialize administrative
// edits. Planning runs read the map without locking.
func (m *Manager) Lock() error {
	lockPath := m.lockPath()
	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	if info, err := os.Stat(lockPath); err == nil {
		if time.Since(info.ModTime()) > staleLockAge {
			os.Remove(lockPath)
		} else {
			return fmt.Errorf("%w by another process (lock file: %s). "+
				"If this is an error, remove the lock file manually", ErrLocked, lockPath)
		}
	}

	content := fmt.Sprintf("pid=%d\ntime=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if err := os.WriteFile(lockPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to create lock file: %w", err)
	}

	return nil
}

// Unlock releases the lock.
func (m *Manager) Unlock() error {
	if err := os.Remove(m.lockPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

func (m *Manager) lockPath() string {
	return m.path + ".lock"
}
