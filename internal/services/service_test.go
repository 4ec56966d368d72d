package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"modelhub/internal/models"
	"modelhub/internal/repository"
	"modelhub/internal/storage"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

type fixture struct {
	db      *gorm.DB
	blobs   *storage.MemoryStore
	modelS  *ModelService
	formatS *FormatService
	authS   *AuthService
	owner   uuid.UUID
	other   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	blobs := storage.NewMemoryStore()
	modelRepo := repository.NewModel3DRepository(db)
	formatRepo := repository.NewModelFormatRepository(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	f := &fixture{
		db:      db,
		blobs:   blobs,
		modelS:  NewModelService(modelRepo, blobs, nil, 30<<20),
		formatS: NewFormatService(formatRepo, modelRepo, blobs, nil, 30<<20),
		authS:   NewAuthService(userRepo, tokenRepo),
		owner:   uuid.New(),
		other:   uuid.New(),
	}
	for i, id := range []uuid.UUID{f.owner, f.other} {
		require.NoError(t, userRepo.Create(&models.User{
			ID:           id,
			Name:         fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: "x",
		}))
	}
	return f
}

func upload(name, content string) *Upload {
	return &Upload{
		Filename: name,
		Size:     int64(len(content)),
		Reader:   strings.NewReader(content),
	}
}

func blobBytes(t *testing.T, blobs *storage.MemoryStore, ref string) []byte {
	t.Helper()
	rc, err := blobs.Get(context.Background(), ref)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return data
}

func (f *fixture) createModel(t *testing.T, owner uuid.UUID) *models.Model3D {
	t.Helper()
	model, err := f.modelS.Create(context.Background(), owner, CreateModelInput{
		Title:       "Teapot",
		Description: "The Utah teapot",
		ModelFile:   upload("teapot.obj", "v 0 0 0"),
	})
	require.NoError(t, err)
	return model
}

func (f *fixture) createFormat(t *testing.T, owner, model3dID uuid.UUID) *models.ModelFormat {
	t.Helper()
	variant, err := f.formatS.Create(context.Background(), owner, model3dID, "gltf", upload("teapot.gltf", "{\"asset\":{}}"))
	require.NoError(t, err)
	return variant
}
