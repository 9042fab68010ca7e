package jsonstore

import (
	"context"
	"os"
	"strconv"
	"time"
)

// The cross-process lock is a sibling marker file created with O_EXCL, which
// is atomic on every platform the store targets. A marker left behind by a
// crashed holder is not detected or broken; subsequent acquirers time out
// until it is removed manually.

func (s *Store) lockPath() string {
	return s.path + ".lock"
}

func (s *Store) acquireLock(ctx context.Context) error {
	deadline := time.Now().Add(s.lockTimeout)

	for {
		f, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			// Record the owning PID as a diagnostic aid; correctness does
			// not depend on the marker's contents.
			if _, writeErr := f.WriteString(strconv.Itoa(os.Getpid())); writeErr != nil {
				s.log.Warn("Failed to record lock owner", "path", s.lockPath(), "error", writeErr)
			}
			if closeErr := f.Close(); closeErr != nil {
				s.log.Warn("Failed to close lock marker", "path", s.lockPath(), "error", closeErr)
			}
			return nil
		}
		if !os.IsExist(err) {
			return &StoreError{Op: "lock", Path: s.lockPath(), Err: err}
		}

		if time.Now().After(deadline) {
			return &StoreError{Op: "lock", Path: s.lockPath(), Err: ErrLockTimeout}
		}

		select {
		case <-ctx.Done():
			return &StoreError{Op: "lock", Path: s.lockPath(), Err: ctx.Err()}
		case <-time.After(s.pollInterval):
		}
	}
}

func (s *Store) releaseLock() {
	if err := os.Remove(s.lockPath()); err != nil && !os.IsNotExist(err) {
		s.log.Warn("Failed to remove lock marker", "path", s.lockPath(), "error", err)
	}
}
