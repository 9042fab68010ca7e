// Package jsonstore provides atomic, durable, mutually exclusive access to a
// single whole-document JSON file shared by multiple goroutines and by
// cooperating processes on the same filesystem.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"bookline/pkg/logger"
)

// Document is the entire persisted state as one JSON object.
type Document = map[string]any

// UpdateFunc transforms the current document into its successor. Returning
// an error aborts the update without writing anything.
type UpdateFunc func(Document) (Document, error)

type Store struct {
	path         string
	lockTimeout  time.Duration
	pollInterval time.Duration
	log          *logger.Logger

	// mu serializes store operations within this process so that only one
	// goroutine at a time attempts the cross-process lock marker protocol.
	mu sync.Mutex
}

func New(path string, lockTimeout, pollInterval time.Duration, log *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &StoreError{Op: "init", Path: path, Err: err}
	}
	return &Store{
		path:         path,
		lockTimeout:  lockTimeout,
		pollInterval: pollInterval,
		log:          log,
	}, nil
}

// Read returns the current document. A missing, empty, or whitespace-only
// file reads as an empty document. Content that exists but does not parse
// fails with *CorruptedError; any other I/O failure with *StoreError.
func (s *Store) Read(ctx context.Context) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.acquireLock(ctx); err != nil {
		return nil, err
	}
	defer s.releaseLock()

	return s.readLocked()
}

// Write durably replaces the file's contents with doc. The target is only
// ever replaced by an atomic rename, so no reader can observe a partial
// write and a crash mid-write leaves the previous state untouched.
func (s *Store) Write(ctx context.Context, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.acquireLock(ctx); err != nil {
		return err
	}
	defer s.releaseLock()

	return s.writeLocked(doc)
}

// Update applies fn to the current document and persists the result, all
// under one lock acquisition. Interleaved Update calls from concurrent
// callers are fully serialized, so no update is ever lost.
func (s *Store) Update(ctx context.Context, fn UpdateFunc) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.acquireLock(ctx); err != nil {
		return nil, err
	}
	defer s.releaseLock()

	current, err := s.readLocked()
	if err != nil {
		return nil, err
	}

	updated, err := fn(current)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, &StoreError{Op: "update", Path: s.path, Err: errors.New("update function returned a nil document")}
	}

	if err := s.writeLocked(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Store) readLocked() (Document, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, nil
		}
		return nil, &StoreError{Op: "read", Path: s.path, Err: err}
	}
	if strings.TrimSpace(string(raw)) == "" {
		return Document{}, nil
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &CorruptedError{Path: s.path, Err: err}
	}
	if doc, ok := data.(map[string]any); ok {
		return doc, nil
	}
	// A non-object root still round-trips instead of crashing the store.
	return Document{"_root": data}, nil
}

func (s *Store) writeLocked(doc Document) error {
	// encoding/json writes map keys in sorted order, so equal documents
	// produce byte-identical files.
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		if removeErr := os.Remove(tmpPath); removeErr != nil && !os.IsNotExist(removeErr) {
			s.log.Warn("Failed to remove temporary store file", "path", tmpPath, "error", removeErr)
		}
	}

	if _, err := tmp.Write(payload); err != nil {
		cleanup()
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		cleanup()
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}

	// The rename's atomicity is the primary guarantee; syncing the directory
	// entry is a durability refinement only, so failures are ignored.
	syncDir(dir)

	return nil
}

func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	defer d.Close()
	_ = d.Sync()
}
