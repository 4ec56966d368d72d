package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"modelhub/internal/models"
)

// ModelFormatRepository provides methods to interact with ModelFormat records in the database.
type ModelFormatRepository struct {
	db *gorm.DB
}

// NewModelFormatRepository creates a new ModelFormatRepository with the provided GORM database connection.
func NewModelFormatRepository(db *gorm.DB) *ModelFormatRepository {
	return &ModelFormatRepository{db: db}
}

// Create persists a new ModelFormat.
func (r *ModelFormatRepository) Create(format *models.ModelFormat) error {
	return r.db.Create(format).Error
}

// GetByID retrieves a ModelFormat by its ID.
func (r *ModelFormatRepository) GetByID(id uuid.UUID) (*models.ModelFormat, error) {
	var format models.ModelFormat
	err := r.db.First(&format, "id = ?", id).Error
	return &format, err
}

// Update saves an existing ModelFormat.
func (r *ModelFormatRepository) Update(format *models.ModelFormat) error {
	return r.db.Save(format).Error
}

// Delete removes a ModelFormat by its ID.
func (r *ModelFormatRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.ModelFormat{}, "id = ?", id).Error
}

// ListByModel retrieves all format variants of the given parent model.
func (r *ModelFormatRepository) ListByModel(model3dID uuid.UUID) ([]models.ModelFormat, error) {
	var list []models.ModelFormat
	err := r.db.Where("model3d_id = ?", model3dID).Find(&list).Error
	return list, err
}
