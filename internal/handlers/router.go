package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewApp builds the Fiber application with all routes registered. bodyLimit
// must accommodate the largest legal multipart request so oversized uploads
// reach the validation layer and fail with 422 instead of being cut off.
func NewApp(auth *AuthHandler, models *ModelHandler, formats *FormatHandler, requireAuth fiber.Handler, bodyLimit int) *fiber.App {
	app := fiber.New(fiber.Config{BodyLimit: bodyLimit})

	// Public routes
	app.Post("/register", auth.Register)
	app.Post("/login", auth.Login)
	app.Get("/users", auth.ListUsers)
	app.Get("/models", models.ListAllModels)
	app.Get("/models/:id/download", models.DownloadModel)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	// Authenticated routes
	app.Post("/logout", requireAuth, auth.Logout)
	app.Get("/user", requireAuth, auth.CurrentUser)

	app.Post("/models", requireAuth, models.CreateModel)
	app.Get("/models/user", requireAuth, models.ListUserModels)
	app.Put("/models/:id", requireAuth, models.UpdateModel)
	app.Delete("/models/:id", requireAuth, models.DeleteModel)
	app.Get("/models/:id/edit", requireAuth, models.EditModel)

	app.Post("/models/:model3dId/formats", requireAuth, formats.CreateFormat)
	app.Get("/models/:model3dId/formats", requireAuth, formats.IndexFormats)
	app.Put("/model-formats/:id", requireAuth, formats.UpdateFormat)
	app.Delete("/model-formats/:id", requireAuth, formats.DeleteFormat)
	app.Get("/model-formats/:id", requireAuth, formats.ShowFormat)

	return app
}
