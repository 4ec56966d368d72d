package models

import (
	"time"

	"github.com/google/uuid"
)

// ModelFormat is an alternate file encoding of a parent Model3D's geometry.
// Ownership is transitive: whoever owns the parent model owns the format.
type ModelFormat struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Format    string    `gorm:"size:255;not null" json:"format"`
	ModelFile string    `gorm:"type:text;not null" json:"model_file"`
	Model3DID uuid.UUID `gorm:"type:uuid;column:model3d_id;not null;index" json:"model3d_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Model3D *Model3D `gorm:"foreignKey:Model3DID" json:"-"`
}
