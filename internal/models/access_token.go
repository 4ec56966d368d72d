package models

import (
	"time"

	"github.com/google/uuid"
)

// AccessToken is a persisted bearer credential. Only the SHA-256 hash of the
// opaque token string is stored; the plaintext is shown to the client once.
type AccessToken struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name       string     `gorm:"size:255;not null" json:"name"`
	TokenHash  string     `gorm:"size:64;not null;uniqueIndex" json:"-"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}
