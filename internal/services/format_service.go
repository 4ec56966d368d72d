package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"modelhub/internal/metrics"
	"modelhub/internal/models"
	"modelhub/internal/repository"
	"modelhub/internal/storage"
)

// FormatService orchestrates the lifecycle of ModelFormat records, a model's
// alternate file encodings. Every operation is gated on ownership of the
// parent Model3D.
type FormatService struct {
	repo           *repository.ModelFormatRepository
	parents        *repository.Model3DRepository
	blobs          storage.BlobStore
	metrics        *metrics.Metrics
	maxUploadBytes int64
}

// NewFormatService creates a new FormatService with the given repositories and blob store.
func NewFormatService(repo *repository.ModelFormatRepository, parents *repository.Model3DRepository, blobs storage.BlobStore, m *metrics.Metrics, maxUploadBytes int64) *FormatService {
	return &FormatService{
		repo:           repo,
		parents:        parents,
		blobs:          blobs,
		metrics:        m,
		maxUploadBytes: maxUploadBytes,
	}
}

// UpdateFormatInput carries a partial update: nil fields are left untouched.
// Reassigning a variant to a different parent model is not supported; a
// provided Model3DID is rejected outright.
type UpdateFormatInput struct {
	Format    *string
	ModelFile *Upload
	Model3DID *uuid.UUID
}

// Create validates the input and persists a new format variant under the
// given parent model. The parent must exist and be owned by ownerID.
func (s *FormatService) Create(ctx context.Context, ownerID, model3dID uuid.UUID, format string, file *Upload) (*models.ModelFormat, error) {
	v := map[string]string{}
	if format == "" {
		v["format"] = "the format field is required"
	} else if len(format) > 255 {
		v["format"] = "the format field must not exceed 255 characters"
	}
	checkModelUpload(v, "model_file", file, s.maxUploadBytes)
	if len(v) > 0 {
		return nil, &ValidationError{Fields: v}
	}

	parent, err := s.ownedParent(ownerID, model3dID)
	if err != nil {
		return nil, err
	}

	ref, err := putBlob(ctx, s.blobs, s.metrics, storage.NamespaceFormats, file)
	if err != nil {
		return nil, err
	}
	variant := &models.ModelFormat{
		ID:        uuid.New(),
		Format:    format,
		ModelFile: ref,
		Model3DID: parent.ID,
	}
	if err := s.repo.Create(variant); err != nil {
		discardBlob(ctx, s.blobs, s.metrics, ref)
		return nil, errors.Wrap(err, "failed to save model format record")
	}
	return variant, nil
}

// Update applies a partial update to a format variant. A replacement file is
// written before the old blob is removed so the record never points at a
// missing file, even if the write fails halfway.
func (s *FormatService) Update(ctx context.Context, ownerID, id uuid.UUID, in UpdateFormatInput) (*models.ModelFormat, error) {
	variant, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedParent(ownerID, variant.Model3DID); err != nil {
		return nil, err
	}

	v := map[string]string{}
	if in.Model3DID != nil {
		v["model3d_id"] = "reassigning a format to a different model is not supported"
	}
	if in.Format != nil {
		if *in.Format == "" {
			v["format"] = "the format field must not be empty"
		} else if len(*in.Format) > 255 {
			v["format"] = "the format field must not exceed 255 characters"
		}
	}
	if in.ModelFile != nil {
		checkModelUpload(v, "model_file", in.ModelFile, s.maxUploadBytes)
	}
	if len(v) > 0 {
		return nil, &ValidationError{Fields: v}
	}

	oldRef := ""
	if in.ModelFile != nil {
		ref, err := putBlob(ctx, s.blobs, s.metrics, storage.NamespaceFormats, in.ModelFile)
		if err != nil {
			return nil, err
		}
		oldRef = variant.ModelFile
		variant.ModelFile = ref
	}
	if in.Format != nil {
		variant.Format = *in.Format
	}

	if err := s.repo.Update(variant); err != nil {
		if in.ModelFile != nil {
			discardBlob(ctx, s.blobs, s.metrics, variant.ModelFile)
		}
		return nil, errors.Wrap(err, "failed to save model format record")
	}
	if oldRef != "" {
		discardBlob(ctx, s.blobs, s.metrics, oldRef)
	}
	return variant, nil
}

// Delete removes a format variant owned (via its parent) by ownerID: the blob
// first, then the row.
func (s *FormatService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	variant, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if _, err := s.ownedParent(ownerID, variant.Model3DID); err != nil {
		return err
	}

	if variant.ModelFile != "" {
		discardBlob(ctx, s.blobs, s.metrics, variant.ModelFile)
	}
	if err := s.repo.Delete(id); err != nil {
		return errors.Wrap(err, "failed to delete model format record")
	}
	return nil
}

// Show is the ownership-gated single read of a format variant.
func (s *FormatService) Show(ctx context.Context, ownerID, id uuid.UUID) (*models.ModelFormat, error) {
	variant, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedParent(ownerID, variant.Model3DID); err != nil {
		return nil, err
	}
	return variant, nil
}

// Index lists all format variants of the given model, which must exist and be
// owned by ownerID.
func (s *FormatService) Index(ctx context.Context, ownerID, model3dID uuid.UUID) ([]models.ModelFormat, error) {
	if _, err := s.ownedParent(ownerID, model3dID); err != nil {
		return nil, err
	}
	return s.repo.ListByModel(model3dID)
}

// ownedParent resolves the parent model and enforces the transitive ownership
// check shared by every format operation.
func (s *FormatService) ownedParent(ownerID, model3dID uuid.UUID) (*models.Model3D, error) {
	parent, err := s.parents.GetByID(model3dID)
	if err != nil {
		return nil, err
	}
	if !isOwner(ownerID, parent) {
		return nil, ErrUnauthorized
	}
	return parent, nil
}
