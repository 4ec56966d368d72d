package handlers

import (
	"io"
	"mime"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"modelhub/internal/services"
)

const ModelNotFoundError = "Model not found"

// ModelHandler defines handlers for managing 3D model resources.
type ModelHandler struct {
	Service *services.ModelService
}

// NewModelHandler creates a new ModelHandler with the given ModelService.
func NewModelHandler(service *services.ModelService) *ModelHandler {
	return &ModelHandler{Service: service}
}

// ListAllModels handles GET /models to list every model in the system.
// @Summary List all 3D models
// @Description Unauthenticated listing of all uploaded models
// @Tags models
// @Produce json
// @Success 200 {object} map[string]interface{} "All models"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /models [get]
func (h *ModelHandler) ListAllModels(c *fiber.Ctx) error {
	list, err := h.Service.ListAll(c.Context())
	if err != nil {
		return respondError(c, err, ModelNotFoundError, "An error occurred while listing all models")
	}
	return c.JSON(fiber.Map{"models": list})
}

// ListUserModels handles GET /models/user to list the caller's own models.
// @Summary List the authenticated user's models
// @Tags models
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{} "Models owned by the caller"
// @Failure 401 {object} map[string]interface{} "Unauthenticated"
// @Router /models/user [get]
func (h *ModelHandler) ListUserModels(c *fiber.Ctx) error {
	list, err := h.Service.ListUserModels(c.Context(), currentUser(c).ID)
	if err != nil {
		return respondError(c, err, ModelNotFoundError, "An error occurred while listing user models")
	}
	return c.JSON(fiber.Map{"models": list})
}

// CreateModel handles POST /models to upload a new 3D model.
// @Summary Upload a new 3D model
// @Tags models
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param title formData string true "Model title"
// @Param description formData string true "Model description"
// @Param model_file formData file true "Geometry file (json, obj, fbx, gltf, glb)"
// @Param image formData file false "Preview image"
// @Success 201 {object} map[string]interface{} "Created model"
// @Failure 422 {object} map[string]interface{} "Validation failed"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /models [post]
func (h *ModelHandler) CreateModel(c *fiber.Ctx) error {
	modelFile, closeModel, err := formUpload(c, "model_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "failed to read model file"})
	}
	defer closeModel()
	image, closeImage, err := formUpload(c, "image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "failed to read image file"})
	}
	defer closeImage()

	model, err := h.Service.Create(c.Context(), currentUser(c).ID, services.CreateModelInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		ModelFile:   modelFile,
		Image:       image,
	})
	if err != nil {
		return respondError(c, err, ModelNotFoundError, "An error occurred while creating the model")
	}
	log.Info().Str("model_id", model.ID.String()).Str("user_id", model.UserID.String()).Msg("created model")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Model uploaded successfully",
		"model":   model,
	})
}

// UpdateModel handles PUT /models/:id for a partial update of an owned model.
// @Summary Update a 3D model
// @Description Partially updates title, description, model file or image of an owned model
// @Tags models
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Model ID"
// @Success 200 {object} map[string]interface{} "Updated model"
// @Failure 403 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Model not found"
// @Failure 422 {object} map[string]interface{} "Validation failed"
// @Router /models/{id} [put]
func (h *ModelHandler) UpdateModel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": InvalidUuidError})
	}
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid form data"})
	}
	modelFile, closeModel, err := formUpload(c, "model_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "failed to read model file"})
	}
	defer closeModel()
	image, closeImage, err := formUpload(c, "image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "failed to read image file"})
	}
	defer closeImage()

	model, err := h.Service.Update(c.Context(), currentUser(c).ID, id, services.UpdateModelInput{
		Title:       formString(form.Value, "title"),
		Description: formString(form.Value, "description"),
		ModelFile:   modelFile,
		Image:       image,
	})
	if err != nil {
		return respondError(c, err, ModelNotFoundError, "An error occurred while updating the model")
	}
	return c.JSON(fiber.Map{
		"message": "Model updated successfully",
		"model":   model,
	})
}

// DeleteModel handles DELETE /models/:id to remove an owned model, its format
// variants and their stored files.
// @Summary Delete a 3D model
// @Tags models
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Model ID"
// @Success 200 {object} map[string]interface{} "Deleted"
// @Failure 403 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Model not found"
// @Router /models/{id} [delete]
func (h *ModelHandler) DeleteModel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": InvalidUuidError})
	}
	if err := h.Service.Delete(c.Context(), currentUser(c).ID, id); err != nil {
		return respondError(c, err, ModelNotFoundError, "An error occurred while deleting the model")
	}
	log.Info().Str("model_id", id.String()).Msg("deleted model")
	return c.JSON(fiber.Map{"message": "Model and associated file deleted successfully"})
}

// EditModel handles GET /models/:id/edit to fetch an owned model together
// with all of its format variants.
// @Summary Fetch a model for editing
// @Tags models
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Model ID"
// @Success 200 {object} map[string]interface{} "Model and its formats"
// @Failure 403 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Model not found"
// @Router /models/{id}/edit [get]
func (h *ModelHandler) EditModel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": InvalidUuidError})
	}
	model, err := h.Service.Edit(c.Context(), currentUser(c).ID, id)
	if err != nil {
		return respondError(c, err, ModelNotFoundError, "An error occurred while editing the model")
	}
	return c.JSON(fiber.Map{
		"model":         model,
		"model_formats": model.Formats,
	})
}

// DownloadModel handles GET /models/:id/download to stream the primary
// geometry file.
// @Summary Download a model's geometry file
// @Tags models
// @Produce application/octet-stream
// @Param id path string true "Model ID"
// @Success 200 {file} binary "Geometry file"
// @Failure 404 {object} map[string]interface{} "Model not found"
// @Router /models/{id}/download [get]
func (h *ModelHandler) DownloadModel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": InvalidUuidError})
	}
	rc, model, err := h.Service.OpenModelFile(c.Context(), id)
	if err != nil {
		return respondError(c, err, ModelNotFoundError, "An error occurred while downloading the model")
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return respondError(c, err, ModelNotFoundError, "An error occurred while downloading the model")
	}

	name := filepath.Base(model.ModelFile)
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename=\""+name+"\"")
	return c.Send(data)
}
