package services

import (
	"github.com/google/uuid"

	"modelhub/internal/models"
)

// isOwner reports whether the acting user owns the given model. Format
// variants have no owner of their own; their ownership is decided by the
// parent model passed here.
func isOwner(userID uuid.UUID, model *models.Model3D) bool {
	return model.UserID == userID
}
