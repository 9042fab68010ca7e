package jsonstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"bookline/pkg/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "data.json"), 2*time.Second, 10*time.Millisecond, logger.Discard())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func TestRead_MissingFile(t *testing.T) {
	store := newTestStore(t)

	doc, err := store.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc == nil {
		t.Fatal("expected an empty document, got nil")
	}
	if len(doc) != 0 {
		t.Errorf("expected empty document, got %v", doc)
	}
}

func TestRead_EmptyAndWhitespaceFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"whitespace", "  \n\t  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			if err := os.WriteFile(store.path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("failed to seed file: %v", err)
			}

			doc, err := store.Read(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(doc) != 0 {
				t.Errorf("expected empty document, got %v", doc)
			}
		})
	}
}

func TestRead_CorruptedFile(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.path, []byte("{not valid json"), 0o644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	doc, err := store.Read(context.Background())
	if err == nil {
		t.Fatal("expected a corruption error, got nil")
	}
	if !IsCorrupted(err) {
		t.Errorf("expected CorruptedError, got %T: %v", err, err)
	}
	if doc != nil {
		t.Errorf("expected nil document on corruption, got %v", doc)
	}
}

func TestRead_NonObjectRootIsWrapped(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.path, []byte(`[1, 2, 3]`), 0o644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	doc, err := store.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := doc["_root"]; !ok {
		t.Errorf("expected non-object root wrapped under _root, got %v", doc)
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	doc := Document{
		"cars": []any{
			map[string]any{"id": float64(1), "make": "Toyota", "model": "Corolla"},
		},
		"bookings": []any{},
	}

	if err := store.Write(context.Background(), doc); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := store.Read(context.Background())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("round trip mismatch:\ngot  %v\nwant %v", got, doc)
	}
}

func TestWrite_Deterministic(t *testing.T) {
	store := newTestStore(t)
	doc := Document{
		"bookings": []any{},
		"cars": []any{
			map[string]any{"model": "Civic", "id": float64(2), "make": "Honda"},
		},
	}

	if err := store.Write(context.Background(), doc); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	first, err := os.ReadFile(store.path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}

	if err := store.Write(context.Background(), doc); err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	second, err := os.ReadFile(store.path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}

	if string(first) != string(second) {
		t.Errorf("identical documents produced different files:\n%s\n---\n%s", first, second)
	}
}

func TestWrite_NoTempFileLeftBehind(t *testing.T) {
	store := newTestStore(t)

	if err := store.Write(context.Background(), Document{"cars": []any{}}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(store.path))
	if err != nil {
		t.Fatalf("failed to list directory: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != filepath.Base(store.path) {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only the target file, found %v", names)
	}
}

func TestUpdate_SerializesConcurrentAppends(t *testing.T) {
	store := newTestStore(t)

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Update(context.Background(), func(doc Document) (Document, error) {
				raw, _ := doc["bookings"].([]any)
				doc["bookings"] = append(raw, fmt.Sprintf("booking-%d", i))
				return doc, nil
			})
			if err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent update failed: %v", err)
	}

	doc, err := store.Read(context.Background())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	bookings, _ := doc["bookings"].([]any)
	if len(bookings) != n {
		t.Errorf("expected %d bookings after %d concurrent updates, got %d", n, n, len(bookings))
	}
}

func TestUpdate_FnErrorAbortsWrite(t *testing.T) {
	store := newTestStore(t)

	seed := Document{"cars": []any{map[string]any{"id": float64(1)}}}
	if err := store.Write(context.Background(), seed); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}

	wantErr := errors.New("no room")
	_, err := store.Update(context.Background(), func(doc Document) (Document, error) {
		doc["cars"] = []any{}
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected fn error to propagate, got %v", err)
	}

	doc, err := store.Read(context.Background())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !reflect.DeepEqual(doc, seed) {
		t.Errorf("document changed despite aborted update:\ngot  %v\nwant %v", doc, seed)
	}
}

func TestUpdate_NilDocumentIsContractViolation(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Update(context.Background(), func(doc Document) (Document, error) {
		return nil, nil
	})

	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError for a nil document, got %T: %v", err, err)
	}
}

func TestUpdate_LockReleasedAfterFnError(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Update(context.Background(), func(doc Document) (Document, error) {
		return nil, errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected error from update")
	}

	if _, err := store.Read(context.Background()); err != nil {
		t.Errorf("store should be usable after a failed update, got %v", err)
	}
}
