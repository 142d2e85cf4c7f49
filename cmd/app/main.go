package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"fulfillment/cmd"
	httpadapter "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/objectstore"
	"fulfillment/internal/adapters/out/postgres/jobrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/productrepo"
	"fulfillment/internal/adapters/out/postgres/stockrepo"
	"fulfillment/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	config := getConfig(logger)

	db, err := openDatabase(config)
	if err != nil {
		logger.Error("database setup failed", "error", err)
		os.Exit(1)
	}

	artifacts, err := openArtifactStore(config)
	if err != nil {
		logger.Error("artifact store setup failed", "error", err)
		os.Exit(1)
	}

	root := cmd.NewCompositionRoot(config, db, artifacts, logger)

	jobManager := jobs.NewJobManager(root.CreateProcessQueuedJobCommandHandler(), logger)
	if err = jobManager.StartAll(); err != nil {
		logger.Error("job startup failed", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	startWebServer(&root, config)
}

func getConfig(logger *slog.Logger) cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Info("no .env file found, using process environment")
	}

	return cmd.Config{
		HTTPPort:   envOrDefault("HTTP_PORT", "8080"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     envOrDefault("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  envOrDefault("DB_SSLMODE", "disable"),

		StagingDir: envOrDefault("STAGING_DIR", "/var/lib/fulfillment/staging"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    envOrDefault("MINIO_BUCKET", "fulfillment-artifacts"),
		MinioUseSSL:    envOrDefault("MINIO_USE_SSL", "false") == "true",

		WorkerProcessingTimeout: envDuration("WORKER_PROCESSING_TIMEOUT", 30*time.Minute),
		WorkerTickBudget:        envDuration("WORKER_TICK_BUDGET", 25*time.Second),
		WorkerMaxRetries:        envInt("WORKER_MAX_RETRIES", 3),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func openDatabase(config cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName, config.DBSslMode)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.LineDTO{},
		&productrepo.ProductDTO{},
		&productrepo.ComponentDTO{},
		&stockrepo.LocationDTO{},
		&stockrepo.StockLevelDTO{},
		&stockrepo.MovementDTO{},
		&jobrepo.JobDTO{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return db, nil
}

func openArtifactStore(config cmd.Config) (*objectstore.MinioArtifactStore, error) {
	client, err := minio.New(config.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.MinioAccessKey, config.MinioSecretKey, ""),
		Secure: config.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return objectstore.NewMinioArtifactStore(context.Background(), client, config.MinioBucket)
}

func startWebServer(root *cmd.CompositionRoot, config cmd.Config) {
	server := httpadapter.NewServer(
		config.StagingDir,
		root.CreateSubmitImportJobCommandHandler(),
		root.CreateGetJobStatusQueryHandler(),
		root.CreateGetOpenOrdersQueryHandler(),
	)

	e := echo.New()
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)))
}
