package services

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"modelhub/internal/metrics"
	"modelhub/internal/models"
	"modelhub/internal/repository"
	"modelhub/internal/storage"
)

// ModelService orchestrates the ownership-gated lifecycle of Model3D records
// and their blob-store side effects.
type ModelService struct {
	repo           *repository.Model3DRepository
	blobs          storage.BlobStore
	metrics        *metrics.Metrics
	maxUploadBytes int64
}

// NewModelService creates a new ModelService with the given repository and blob store.
func NewModelService(repo *repository.Model3DRepository, blobs storage.BlobStore, m *metrics.Metrics, maxUploadBytes int64) *ModelService {
	return &ModelService{
		repo:           repo,
		blobs:          blobs,
		metrics:        m,
		maxUploadBytes: maxUploadBytes,
	}
}

// CreateModelInput carries the fields for a new Model3D.
type CreateModelInput struct {
	Title       string
	Description string
	ModelFile   *Upload
	Image       *Upload
}

// UpdateModelInput carries a partial update: nil fields are left untouched.
type UpdateModelInput struct {
	Title       *string
	Description *string
	ModelFile   *Upload
	Image       *Upload
}

// Create validates the input, writes the uploaded blobs and persists a new
// Model3D owned by ownerID. Blobs are written before the row so a live record
// never references a missing file; if the row insert fails the written blobs
// are removed again.
func (s *ModelService) Create(ctx context.Context, ownerID uuid.UUID, in CreateModelInput) (*models.Model3D, error) {
	v := map[string]string{}
	if in.Title == "" {
		v["title"] = "the title field is required"
	} else if len(in.Title) > 255 {
		v["title"] = "the title field must not exceed 255 characters"
	}
	if in.Description == "" {
		v["description"] = "the description field is required"
	}
	checkModelUpload(v, "model_file", in.ModelFile, s.maxUploadBytes)
	checkImageUpload(v, "image", in.Image, s.maxUploadBytes)
	if len(v) > 0 {
		return nil, &ValidationError{Fields: v}
	}

	modelRef, err := putBlob(ctx, s.blobs, s.metrics, storage.NamespaceModels, in.ModelFile)
	if err != nil {
		return nil, err
	}
	imageRef := ""
	if in.Image != nil {
		imageRef, err = putBlob(ctx, s.blobs, s.metrics, storage.NamespaceImages, in.Image)
		if err != nil {
			discardBlob(ctx, s.blobs, s.metrics, modelRef)
			return nil, err
		}
	}

	model := &models.Model3D{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		ModelFile:   modelRef,
		Image:       imageRef,
		UserID:      ownerID,
	}
	if err := s.repo.Create(model); err != nil {
		// If the row insert fails, remove the blobs to avoid orphan files.
		discardBlob(ctx, s.blobs, s.metrics, modelRef)
		if imageRef != "" {
			discardBlob(ctx, s.blobs, s.metrics, imageRef)
		}
		return nil, errors.Wrap(err, "failed to save model record")
	}
	return model, nil
}

// Update applies a partial update to a model owned by ownerID. Replacement
// files are written first and the superseded blobs removed only after the row
// update is confirmed, so the record never references a missing file.
func (s *ModelService) Update(ctx context.Context, ownerID, id uuid.UUID, in UpdateModelInput) (*models.Model3D, error) {
	model, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !isOwner(ownerID, model) {
		return nil, ErrUnauthorized
	}

	v := map[string]string{}
	if in.Title != nil {
		if *in.Title == "" {
			v["title"] = "the title field must not be empty"
		} else if len(*in.Title) > 255 {
			v["title"] = "the title field must not exceed 255 characters"
		}
	}
	if in.Description != nil && *in.Description == "" {
		v["description"] = "the description field must not be empty"
	}
	if in.ModelFile != nil {
		checkModelUpload(v, "model_file", in.ModelFile, s.maxUploadBytes)
	}
	checkImageUpload(v, "image", in.Image, s.maxUploadBytes)
	if len(v) > 0 {
		return nil, &ValidationError{Fields: v}
	}

	var newRefs, oldRefs []string
	if in.ModelFile != nil {
		ref, err := putBlob(ctx, s.blobs, s.metrics, storage.NamespaceModels, in.ModelFile)
		if err != nil {
			return nil, err
		}
		newRefs = append(newRefs, ref)
		oldRefs = append(oldRefs, model.ModelFile)
		model.ModelFile = ref
	}
	if in.Image != nil {
		ref, err := putBlob(ctx, s.blobs, s.metrics, storage.NamespaceImages, in.Image)
		if err != nil {
			s.discardAll(ctx, newRefs)
			return nil, err
		}
		newRefs = append(newRefs, ref)
		if model.Image != "" {
			oldRefs = append(oldRefs, model.Image)
		}
		model.Image = ref
	}
	if in.Title != nil {
		model.Title = *in.Title
	}
	if in.Description != nil {
		model.Description = *in.Description
	}

	if err := s.repo.Update(model); err != nil {
		s.discardAll(ctx, newRefs)
		return nil, errors.Wrap(err, "failed to save model record")
	}
	// Replacement confirmed; the superseded blobs are gone from the record.
	s.discardAll(ctx, oldRefs)
	return model, nil
}

// Delete removes a model owned by ownerID together with all of its format
// variant rows, then best-effort deletes the referenced blobs. The row goes
// first: the database must never reference a blob scheduled for deletion.
func (s *ModelService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	model, err := s.repo.GetWithFormats(id)
	if err != nil {
		return err
	}
	if !isOwner(ownerID, model) {
		return ErrUnauthorized
	}

	refs := []string{model.ModelFile}
	if model.Image != "" {
		refs = append(refs, model.Image)
	}
	for _, f := range model.Formats {
		refs = append(refs, f.ModelFile)
	}

	if err := s.repo.Delete(id); err != nil {
		return errors.Wrap(err, "failed to delete model record")
	}
	s.discardAll(ctx, refs)
	return nil
}

// Edit is the ownership-gated read used by the client edit form: the model
// together with all of its format variants.
func (s *ModelService) Edit(ctx context.Context, ownerID, id uuid.UUID) (*models.Model3D, error) {
	model, err := s.repo.GetWithFormats(id)
	if err != nil {
		return nil, err
	}
	if !isOwner(ownerID, model) {
		return nil, ErrUnauthorized
	}
	return model, nil
}

// ListUserModels returns all models owned by the given user.
func (s *ModelService) ListUserModels(ctx context.Context, ownerID uuid.UUID) ([]models.Model3D, error) {
	return s.repo.ListByUser(ownerID)
}

// ListAll returns every model in the system. Intentionally unauthenticated
// and unfiltered.
func (s *ModelService) ListAll(ctx context.Context) ([]models.Model3D, error) {
	return s.repo.ListAll()
}

// OpenModelFile opens the primary geometry blob of a model for streaming.
func (s *ModelService) OpenModelFile(ctx context.Context, id uuid.UUID) (io.ReadCloser, *models.Model3D, error) {
	model, err := s.repo.GetByID(id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Get(ctx, model.ModelFile)
	if err != nil {
		return nil, nil, &StorageError{Op: "get", Ref: model.ModelFile, Err: err}
	}
	return rc, model, nil
}

func (s *ModelService) discardAll(ctx context.Context, refs []string) {
	for _, ref := range refs {
		discardBlob(ctx, s.blobs, s.metrics, ref)
	}
}
