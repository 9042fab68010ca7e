package jsonstore

import (
	"errors"
	"fmt"
)

// ErrLockTimeout is wrapped into a *StoreError when the lock marker could
// not be acquired within the configured window.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// StoreError reports an I/O or locking failure. The previously committed
// file contents are intact whenever a StoreError is returned from a write.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("jsonstore: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// CorruptedError reports a file that exists with non-empty content that is
// not valid JSON. It is deliberately distinct from StoreError so callers can
// alert instead of treating the state as empty.
type CorruptedError struct {
	Path string
	Err  error
}

func (e *CorruptedError) Error() string {
	return fmt.Sprintf("jsonstore: corrupted JSON file %s: %v", e.Path, e.Err)
}

func (e *CorruptedError) Unwrap() error {
	return e.Err
}

// IsCorrupted reports whether err carries a CorruptedError anywhere in its chain.
func IsCorrupted(err error) bool {
	var ce *CorruptedError
	return errors.As(err, &ce)
}
