package models

import (
	"time"

	"github.com/google/uuid"
)

// Model3D represents one uploaded 3D asset: a primary geometry file plus an
// optional preview image, both referenced by blob-store keys.
type Model3D struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	ModelFile   string    `gorm:"type:text;not null" json:"model_file"`
	Image       string    `gorm:"type:text" json:"image,omitempty"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Formats []ModelFormat `gorm:"foreignKey:Model3DID;constraint:OnDelete:CASCADE" json:"formats,omitempty"`
}

// TableName keeps the historical table name.
func (Model3D) TableName() string { return "model3ds" }
