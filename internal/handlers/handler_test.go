package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"modelhub/internal/models"
	"modelhub/internal/repository"
	"modelhub/internal/services"
	"modelhub/internal/storage"
)

func newTestApp(t *testing.T) (*fiber.App, *storage.MemoryStore) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.AccessToken{},
		&models.Model3D{},
		&models.ModelFormat{},
	))

	blobs := storage.NewMemoryStore()
	modelRepo := repository.NewModel3DRepository(db)
	formatRepo := repository.NewModelFormatRepository(db)
	authService := services.NewAuthService(repository.NewUserRepository(db), repository.NewTokenRepository(db))
	modelService := services.NewModelService(modelRepo, blobs, nil, 30<<20)
	formatService := services.NewFormatService(formatRepo, modelRepo, blobs, nil, 30<<20)

	app := NewApp(
		NewAuthHandler(authService),
		NewModelHandler(modelService),
		NewFormatHandler(formatService),
		NewAuthMiddleware(authService),
		64<<20,
	)
	return app, blobs
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return doRequest(t, app, req)
}

func doForm(t *testing.T, app *fiber.App, method, path, token string, fields map[string]string, files map[string][2]string) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, file := range files {
		fw, err := w.CreateFormFile(field, file[0])
		require.NoError(t, err)
		_, err = fw.Write([]byte(file[1]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return doRequest(t, app, req)
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	var parsed map[string]any
	if len(data) > 0 && json.Valid(data) {
		require.NoError(t, json.Unmarshal(data, &parsed))
	}
	return resp, parsed
}

func registerUser(t *testing.T, app *fiber.App, name, email string) string {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/register", "", map[string]string{
		"name": name, "email": email, "password": "battery staple",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createModel(t *testing.T, app *fiber.App, token string) string {
	t.Helper()
	resp, body := doForm(t, app, "POST", "/models", token,
		map[string]string{"title": "Teapot", "description": "The Utah teapot"},
		map[string][2]string{"model_file": {"teapot.obj", "v 0 0 0"}},
	)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	model := body["model"].(map[string]any)
	return model["id"].(string)
}

func TestRegisterLoginLogout(t *testing.T) {
	app, _ := newTestApp(t)

	token := registerUser(t, app, "Ada", "ada@example.com")

	resp, body := doJSON(t, app, "POST", "/login", "", map[string]string{
		"email": "ada@example.com", "password": "battery staple",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["access_token"])

	resp, _ = doJSON(t, app, "POST", "/login", "", map[string]string{
		"email": "ada@example.com", "password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body = doJSON(t, app, "GET", "/user", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ada@example.com", body["email"])

	resp, _ = doJSON(t, app, "POST", "/logout", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/user", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "token is dead after logout")
}

func TestModelLifecycleOverHTTP(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerUser(t, app, "Ada", "ada@example.com")

	// Creation requires authentication
	resp, _ := doForm(t, app, "POST", "/models", "",
		map[string]string{"title": "Teapot", "description": "d"},
		map[string][2]string{"model_file": {"teapot.obj", "v"}},
	)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	id := createModel(t, app, token)

	// Public listing includes the model
	resp, body := doJSON(t, app, "GET", "/models", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["models"], 1)

	// Own listing
	resp, body = doJSON(t, app, "GET", "/models/user", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["models"], 1)

	// Partial update
	resp, body = doForm(t, app, "PUT", "/models/"+id, token,
		map[string]string{"title": "Renamed"}, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	model := body["model"].(map[string]any)
	assert.Equal(t, "Renamed", model["title"])
	assert.Equal(t, "The Utah teapot", model["description"])

	// Edit view
	resp, body = doJSON(t, app, "GET", "/models/"+id+"/edit", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "model")
	assert.Contains(t, body, "model_formats")

	// Download round trip
	req := httptest.NewRequest("GET", "/models/"+id+"/download", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []byte("v 0 0 0"), data)

	// Delete
	resp, _ = doJSON(t, app, "DELETE", "/models/"+id, token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/models/"+id+"/edit", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestModelOwnershipOverHTTP(t *testing.T) {
	app, _ := newTestApp(t)
	ownerToken := registerUser(t, app, "Ada", "ada@example.com")
	otherToken := registerUser(t, app, "Bob", "bob@example.com")
	id := createModel(t, app, ownerToken)

	resp, body := doForm(t, app, "PUT", "/models/"+id, otherToken,
		map[string]string{"title": "Hijacked"}, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Unauthorized", body["message"])

	resp, _ = doJSON(t, app, "DELETE", "/models/"+id, otherToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/models/"+id+"/edit", otherToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "existence is not hidden, only access")
}

func TestModelValidationOverHTTP(t *testing.T) {
	app, blobs := newTestApp(t)
	token := registerUser(t, app, "Ada", "ada@example.com")

	resp, body := doForm(t, app, "POST", "/models", token,
		map[string]string{"title": "", "description": ""}, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Validation failed", body["message"])
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "description")
	assert.Contains(t, errs, "model_file")
	assert.Zero(t, blobs.Len())
}

func TestFormatLifecycleOverHTTP(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerUser(t, app, "Ada", "ada@example.com")
	otherToken := registerUser(t, app, "Bob", "bob@example.com")
	modelID := createModel(t, app, token)

	resp, body := doForm(t, app, "POST", "/models/"+modelID+"/formats", token,
		map[string]string{"format": "gltf"},
		map[string][2]string{"model_file": {"teapot.gltf", "{}"}},
	)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	variant := body["model_format"].(map[string]any)
	variantID := variant["id"].(string)

	// Non-owner is rejected on every format operation
	resp, _ = doJSON(t, app, "GET", "/model-formats/"+variantID, otherToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, body = doJSON(t, app, "GET", "/models/"+modelID+"/formats", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["model_formats"], 1)

	// Reassigning the parent model is rejected
	resp, _ = doForm(t, app, "PUT", "/model-formats/"+variantID, token,
		map[string]string{"model3d_id": modelID}, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, body = doForm(t, app, "PUT", "/model-formats/"+variantID, token,
		map[string]string{"format": "obj"}, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "obj", body["model_format"].(map[string]any)["format"])

	resp, _ = doJSON(t, app, "DELETE", "/model-formats/"+variantID, token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, "GET", "/model-formats/"+variantID, token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHealthAndPublicRoutes(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, "GET", "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, "GET", "/models", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "models")
}
