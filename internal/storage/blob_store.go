package storage

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Namespaces used as key prefixes inside the bucket.
const (
	NamespaceModels  = "models"
	NamespaceImages  = "images"
	NamespaceFormats = "model_formats"
)

// BlobStore is the contract for uploaded-file storage. References returned by
// Put are "namespace/name" keys and are the values persisted on records.
type BlobStore interface {
	// Put writes the blob and returns its reference.
	Put(ctx context.Context, namespace, filename string, r io.Reader, size int64) (string, error)
	// Get opens the blob for reading.
	Get(ctx context.Context, ref string) (io.ReadCloser, error)
	// Delete removes the blob, reporting whether it existed.
	Delete(ctx context.Context, ref string) (bool, error)
	// Exists reports whether the reference resolves to a stored blob.
	Exists(ctx context.Context, ref string) (bool, error)
}

// GenerateName produces a collision-resistant blob name that preserves only the
// extension of the client-supplied filename. Uploads from different users can
// therefore never overwrite each other, whatever names the clients chose.
func GenerateName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return uuid.New().String() + ext
}

// Ref joins a namespace and a blob name into a storage reference.
func Ref(namespace, name string) string {
	return path.Join(namespace, name)
}
