package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"modelhub/internal/services"
)

const InvalidUuidError = "invalid UUID"

// respondError maps service errors onto the JSON envelope: 422 for validation,
// 403 for ownership, 404 for unresolved ids, 500 for everything else.
func respondError(c *fiber.Ctx, err error, notFoundMsg, failureMsg string) error {
	var vErr *services.ValidationError
	var sErr *services.StorageError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Validation failed", "errors": vErr.Fields,
		})
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Unauthorized"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": notFoundMsg})
	case errors.As(err, &sErr):
		log.Error().Err(sErr.Err).Str("op", sErr.Op).Str("ref", sErr.Ref).Msg("storage failure")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": failureMsg, "error": err.Error(),
		})
	default:
		log.Error().Err(err).Msg(failureMsg)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": failureMsg, "error": err.Error(),
		})
	}
}

// formUpload converts a multipart file field into a service Upload. A missing
// field yields a nil Upload so required-file validation stays in the services.
// The returned closer must be called once the service call finished.
func formUpload(c *fiber.Ctx, field string) (*services.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	up := &services.Upload{Filename: fh.Filename, Size: fh.Size, Reader: f}
	return up, func() { f.Close() }, nil
}

// formString reports a form field as a *string, nil when the field was absent.
// Distinguishing absent from empty is what gives updates their partial semantics.
func formString(values map[string][]string, field string) *string {
	v, ok := values[field]
	if !ok || len(v) == 0 {
		return nil
	}
	return &v[0]
}
