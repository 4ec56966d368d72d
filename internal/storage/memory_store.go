package storage

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// ErrBlobNotFound is returned by MemoryStore.Get for unknown references.
var ErrBlobNotFound = errors.New("blob not found")

// MemoryStore is an in-process BlobStore used by tests and local development.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory blob store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Put stores the blob bytes under namespace/filename.
func (s *MemoryStore) Put(ctx context.Context, namespace, filename string, r io.Reader, size int64) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(err, "failed to read blob")
	}
	ref := Ref(namespace, filename)
	s.mu.Lock()
	s.blobs[ref] = data
	s.mu.Unlock()
	return ref, nil
}

// Get opens the blob for reading.
func (s *MemoryStore) Get(ctx context.Context, ref string) (io.ReadCloser, error) {
	s.mu.RLock()
	data, ok := s.blobs[ref]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrBlobNotFound, "%s", ref)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the blob, reporting whether it existed.
func (s *MemoryStore) Delete(ctx context.Context, ref string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[ref]; !ok {
		return false, nil
	}
	delete(s.blobs, ref)
	return true, nil
}

// Exists reports whether the reference is stored.
func (s *MemoryStore) Exists(ctx context.Context, ref string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[ref]
	return ok, nil
}

// Len reports the number of stored blobs.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
