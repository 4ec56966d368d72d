package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"modelhub/internal/models"
)

// UserRepository provides methods to interact with User records in the database.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository with the provided GORM database connection.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create persists a new User.
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a User by its ID.
func (r *UserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	return &user, err
}

// GetByEmail retrieves a User by email address.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	return &user, err
}

// List retrieves all Users.
func (r *UserRepository) List() ([]models.User, error) {
	var users []models.User
	err := r.db.Find(&users).Error
	return users, err
}
