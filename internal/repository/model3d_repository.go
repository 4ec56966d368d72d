package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"modelhub/internal/models"
)

// Model3DRepository provides methods to interact with Model3D records in the database.
type Model3DRepository struct {
	db *gorm.DB
}

// NewModel3DRepository creates a new Model3DRepository with the provided GORM database connection.
func NewModel3DRepository(db *gorm.DB) *Model3DRepository {
	return &Model3DRepository{db: db}
}

// Create persists a new Model3D.
func (r *Model3DRepository) Create(model *models.Model3D) error {
	return r.db.Create(model).Error
}

// GetByID retrieves a Model3D by its ID.
func (r *Model3DRepository) GetByID(id uuid.UUID) (*models.Model3D, error) {
	var model models.Model3D
	err := r.db.First(&model, "id = ?", id).Error
	return &model, err
}

// GetWithFormats retrieves a Model3D by its ID along with its format variants.
func (r *Model3DRepository) GetWithFormats(id uuid.UUID) (*models.Model3D, error) {
	var model models.Model3D
	err := r.db.Preload("Formats").First(&model, "id = ?", id).Error
	return &model, err
}

// Update saves an existing Model3D.
func (r *Model3DRepository) Update(model *models.Model3D) error {
	return r.db.Save(model).Error
}

// Delete removes a Model3D and all of its format variant rows.
func (r *Model3DRepository) Delete(id uuid.UUID) error {
	// First delete the format variant rows, then the model itself. The schema
	// also cascades, but deleting explicitly keeps the behavior identical on
	// databases where the constraint is not enforced.
	if err := r.db.Where("model3d_id = ?", id).Delete(&models.ModelFormat{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Model3D{}, "id = ?", id).Error
}

// ListByUser retrieves all Model3D records owned by the given user.
func (r *Model3DRepository) ListByUser(userID uuid.UUID) ([]models.Model3D, error) {
	var list []models.Model3D
	err := r.db.Where("user_id = ?", userID).Find(&list).Error
	return list, err
}

// ListAll retrieves every Model3D in the system.
func (r *Model3DRepository) ListAll() ([]models.Model3D, error) {
	var list []models.Model3D
	err := r.db.Find(&list).Error
	return list, err
}
