package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"modelhub/internal/metrics"
	"modelhub/internal/storage"
)

// putBlob writes an upload under a generated collision-resistant name and
// returns the resulting reference.
func putBlob(ctx context.Context, blobs storage.BlobStore, m *metrics.Metrics, namespace string, up *Upload) (string, error) {
	name := storage.GenerateName(up.Filename)
	ref, err := blobs.Put(ctx, namespace, name, up.Reader, up.Size)
	if err != nil {
		return "", &StorageError{Op: "put", Ref: storage.Ref(namespace, name), Err: err}
	}
	m.ObserveUpload(namespace, up.Size)
	return ref, nil
}

// discardBlob removes a blob that is no longer referenced by any record.
// Failures are logged and counted, never surfaced: the database row is the
// source of truth and an orphaned blob is reclaimable out of band.
func discardBlob(ctx context.Context, blobs storage.BlobStore, m *metrics.Metrics, ref string) {
	namespace, _, _ := strings.Cut(ref, "/")
	existed, err := blobs.Delete(ctx, ref)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("ref", ref).Msg("failed to delete blob, leaving orphan")
		m.ObserveBlobDelete(namespace, metrics.DeleteOutcomeFailed)
	case !existed:
		m.ObserveBlobDelete(namespace, metrics.DeleteOutcomeMissing)
	default:
		m.ObserveBlobDelete(namespace, metrics.DeleteOutcomeDeleted)
	}
}
