package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"modelhub/internal/config"
	"modelhub/internal/handlers"
	"modelhub/internal/metrics"
	"modelhub/internal/models"
	"modelhub/internal/repository"
	"modelhub/internal/services"
	"modelhub/internal/storage"
)

// @title modelhub API
// @version 1.0
// @description CRUD backend for 3D model assets and their format variants.
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

func main() {
	_ = godotenv.Load()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg := InitConfig()
	db := ConnectDatabase(cfg)
	MigrateDatabase(db)
	blobs := InitBlobStore(cfg)
	m := metrics.NewMetrics()

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	modelRepo := repository.NewModel3DRepository(db)
	formatRepo := repository.NewModelFormatRepository(db)

	authService := services.NewAuthService(userRepo, tokenRepo)
	modelService := services.NewModelService(modelRepo, blobs, m, cfg.MaxUploadBytes)
	formatService := services.NewFormatService(formatRepo, modelRepo, blobs, m, cfg.MaxUploadBytes)

	app := handlers.NewApp(
		handlers.NewAuthHandler(authService),
		handlers.NewModelHandler(modelService),
		handlers.NewFormatHandler(formatService),
		handlers.NewAuthMiddleware(authService),
		// Room for two maximum-size files plus the scalar fields.
		int(2*cfg.MaxUploadBytes)+1<<20,
	)

	for _, r := range app.GetRoutes() {
		log.Debug().Str("method", r.Method).Str("path", r.Path).Msg("registered route")
	}

	port := cfg.AppPort
	if port == "" {
		port = "8080"
		log.Info().Str("port", port).Msg("defaulting port")
	}
	log.Info().Str("port", port).Msg("server listening")
	log.Fatal().Err(app.Listen(":" + port)).Msg("server stopped")
}

func InitConfig() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}
	return cfg
}

func ConnectDatabase(cfg *config.Config) *gorm.DB {
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	return db
}

func MigrateDatabase(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.AccessToken{},
		&models.Model3D{},
		&models.ModelFormat{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}
}

func InitBlobStore(cfg *config.Config) storage.BlobStore {
	blobs, err := storage.NewMinioStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("minio client initialization failed")
	}
	return blobs
}
