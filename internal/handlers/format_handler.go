package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"modelhub/internal/services"
)

const FormatNotFoundError = "Model format not found"

// FormatHandler defines handlers for managing model format variants.
type FormatHandler struct {
	Service *services.FormatService
}

// NewFormatHandler creates a new FormatHandler with the given FormatService.
func NewFormatHandler(service *services.FormatService) *FormatHandler {
	return &FormatHandler{Service: service}
}

// CreateFormat handles POST /models/:model3dId/formats to add a format
// variant to an owned model.
// @Summary Add a format variant to a model
// @Tags formats
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param model3dId path string true "Parent model ID"
// @Param format formData string true "Format label (e.g. obj, gltf)"
// @Param model_file formData file true "Variant file (json, obj, fbx, gltf, glb)"
// @Success 201 {object} map[string]interface{} "Created format variant"
// @Failure 403 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Model not found"
// @Failure 422 {object} map[string]interface{} "Validation failed"
// @Router /models/{model3dId}/formats [post]
func (h *FormatHandler) CreateFormat(c *fiber.Ctx) error {
	model3dID, err := uuid.Parse(c.Params("model3dId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": InvalidUuidError})
	}
	file, closeFile, err := formUpload(c, "model_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "failed to read model file"})
	}
	defer closeFile()

	variant, err := h.Service.Create(c.Context(), currentUser(c).ID, model3dID, c.FormValue("format"), file)
	if err != nil {
		return respondError(c, err, ModelNotFoundError, "An error occurred while creating the model format")
	}
	log.Info().Str("format_id", variant.ID.String()).Str("model_id", model3dID.String()).Msg("created model format")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Model format added successfully",
		"model_format": variant,
	})
}

// UpdateFormat handles PUT /model-formats/:id for a partial update of a
// format variant.
// @Summary Update a format variant
// @Tags formats
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Format variant ID"
// @Success 200 {object} map[string]interface{} "Updated format variant"
// @Failure 403 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Format not found"
// @Failure 422 {object} map[string]interface{} "Validation failed"
// @Router /model-formats/{id} [put]
func (h *FormatHandler) UpdateFormat(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": InvalidUuidError})
	}
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid form data"})
	}
	file, closeFile, err := formUpload(c, "model_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "failed to read model file"})
	}
	defer closeFile()

	in := services.UpdateFormatInput{
		Format:    formString(form.Value, "format"),
		ModelFile: file,
	}
	if raw := formString(form.Value, "model3d_id"); raw != nil {
		parsed, err := uuid.Parse(*raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": InvalidUuidError})
		}
		in.Model3DID = &parsed
	}

	variant, err := h.Service.Update(c.Context(), currentUser(c).ID, id, in)
	if err != nil {
		return respondError(c, err, FormatNotFoundError, "An error occurred while updating the model format")
	}
	return c.JSON(fiber.Map{
		"message":      "Model format updated successfully",
		"model_format": variant,
	})
}

// DeleteFormat handles DELETE /model-formats/:id to remove a format variant
// and its stored file.
// @Summary Delete a format variant
// @Tags formats
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Format variant ID"
// @Success 200 {object} map[string]interface{} "Deleted"
// @Failure 403 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Format not found"
// @Router /model-formats/{id} [delete]
func (h *FormatHandler) DeleteFormat(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": InvalidUuidError})
	}
	if err := h.Service.Delete(c.Context(), currentUser(c).ID, id); err != nil {
		return respondError(c, err, FormatNotFoundError, "An error occurred while deleting the model format")
	}
	log.Info().Str("format_id", id.String()).Msg("deleted model format")
	return c.JSON(fiber.Map{"message": "Model format deleted successfully"})
}

// ShowFormat handles GET /model-formats/:id for an ownership-gated single read.
// @Summary Get a format variant
// @Tags formats
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Format variant ID"
// @Success 200 {object} map[string]interface{} "Format variant"
// @Failure 403 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Format not found"
// @Router /model-formats/{id} [get]
func (h *FormatHandler) ShowFormat(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": InvalidUuidError})
	}
	variant, err := h.Service.Show(c.Context(), currentUser(c).ID, id)
	if err != nil {
		return respondError(c, err, FormatNotFoundError, "An error occurred while fetching the model format")
	}
	return c.JSON(fiber.Map{"model_format": variant})
}

// IndexFormats handles GET /models/:model3dId/formats to list all variants of
// an owned model.
// @Summary List a model's format variants
// @Tags formats
// @Produce json
// @Security ApiKeyAuth
// @Param model3dId path string true "Parent model ID"
// @Success 200 {object} map[string]interface{} "Format variants"
// @Failure 403 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Model not found"
// @Router /models/{model3dId}/formats [get]
func (h *FormatHandler) IndexFormats(c *fiber.Ctx) error {
	model3dID, err := uuid.Parse(c.Params("model3dId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": InvalidUuidError})
	}
	list, err := h.Service.Index(c.Context(), currentUser(c).ID, model3dID)
	if err != nil {
		return respondError(c, err, ModelNotFoundError, "An error occurred while listing model formats")
	}
	return c.JSON(fiber.Map{"model_formats": list})
}
