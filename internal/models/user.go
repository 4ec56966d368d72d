package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account that owns uploaded 3D models.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Models []Model3D `gorm:"foreignKey:UserID" json:"models,omitempty"`
}
