package repository

import (
	"time"

	"gorm.io/gorm"

	"modelhub/internal/models"
)

// TokenRepository provides methods to interact with AccessToken records in the database.
type TokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new TokenRepository with the provided GORM database connection.
func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create persists a new AccessToken.
func (r *TokenRepository) Create(token *models.AccessToken) error {
	return r.db.Create(token).Error
}

// GetByHash retrieves an AccessToken by the hash of its plaintext secret.
func (r *TokenRepository) GetByHash(hash string) (*models.AccessToken, error) {
	var token models.AccessToken
	err := r.db.First(&token, "token_hash = ?", hash).Error
	return &token, err
}

// TouchLastUsed records when the token was last presented.
func (r *TokenRepository) TouchLastUsed(token *models.AccessToken, at time.Time) error {
	token.LastUsedAt = &at
	return r.db.Model(token).Update("last_used_at", at).Error
}

// DeleteByHash removes the token identified by its hash.
func (r *TokenRepository) DeleteByHash(hash string) error {
	return r.db.Delete(&models.AccessToken{}, "token_hash = ?", hash).Error
}
