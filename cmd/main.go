package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"cropgenius-api/internal/ai/gemini"
	"cropgenius-api/internal/config"
	"cropgenius-api/internal/database/minio"
	"cropgenius-api/internal/database/postgres"
	"cropgenius-api/internal/database/redis"
	"cropgenius-api/internal/event"
	"cropgenius-api/internal/handlers"
	"cropgenius-api/internal/oracle"
	"cropgenius-api/internal/repository"
	"cropgenius-api/internal/services"
	"cropgenius-api/internal/worker"

	"github.com/gofiber/fiber/v3"
)

const weatherPrefetchInterval = 30 * time.Minute

func setupLogging() (*os.File, error) {
	logDir := filepath.Join("/cropgenius", "log", "api")
	if dir := os.Getenv("LOG_DIR"); dir != "" {
		logDir = dir
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	logFileName := fmt.Sprintf("log_%s.log", time.Now().Format("2006-01-02"))
	file, err := os.OpenFile(filepath.Join(logDir, logFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelInfo})))
	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		// Fall back to stderr so a missing log volume never keeps the
		// service from starting.
		fmt.Printf("Failed to set up file logging, using stderr: %v\n", err)
	} else {
		defer logFile.Close()
	}

	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("connecting to PostgreSQL",
		"host", cfg.PostgresCfg.Host, "port", cfg.PostgresCfg.Port,
		"user", cfg.PostgresCfg.Username, "db", cfg.PostgresCfg.DBname)
	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL, retrying in background", "error", err)
		go postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
	} else {
		defer db.Close()
		if err := postgres.EnsureSchema(db); err != nil {
			slog.Error("failed to ensure database schema", "error", err)
			os.Exit(1)
		}
	}

	// Redis backs the oracle and weather caches when available; otherwise an
	// in-process LRU serves the same interface.
	var cache oracle.Cache
	redisClient, err := redis.NewRedisClient(cfg.RedisCfg)
	if err != nil {
		slog.Warn("Redis unavailable, using in-memory cache", "error", err)
		cache = oracle.NewMemoryCache(cfg.DiagnosisCache.MaxEntries, cfg.DiagnosisCache.TTL)
	} else {
		defer redisClient.Close()
		cache = oracle.NewRedisCache(redisClient.GetClient(), "cropgenius")
	}

	scanStore, err := minio.NewMinioClient(cfg.MinioCfg)
	if err != nil {
		slog.Warn("MinIO unavailable, scan images will not be stored", "error", err)
		scanStore = nil
	}

	rabbitConn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		slog.Warn("RabbitMQ unavailable, disease alerts disabled", "error", err)
	} else {
		defer rabbitConn.Close()
	}
	alertPublisher := event.NewAlertPublisher(rabbitConn)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	aiClient, err := gemini.NewFailoverClient(ctx, cfg.GeminiAPICfg)
	if err != nil {
		slog.Error("failed to initialize Gemini clients", "error", err)
		os.Exit(1)
	}
	defer aiClient.Close()

	// Repositories
	detectionRepo := repository.NewDetectionRepository(db)
	predictionRepo := repository.NewPredictionRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	farmRepo := repository.NewFarmRepository(db)
	marketRepo := repository.NewMarketRepository(db)

	// Services
	diseaseService := services.NewDiseaseService(aiClient, cache, cfg.DiagnosisCache.TTL, detectionRepo, scanStore, alertPublisher)
	yieldService := services.NewYieldService(aiClient, predictionRepo)
	questionService := services.NewQuestionService(aiClient, questionRepo)
	farmService := services.NewFarmService(farmRepo)
	weatherService := services.NewWeatherService(cfg.WeatherAPICfg, cache)
	marketService := services.NewMarketService(marketRepo)

	// Background weather prefetch for active farms.
	var managerWg sync.WaitGroup
	pool := worker.NewWorkingPool(2, 16)
	managerWg.Add(1)
	go pool.Start(ctx, &managerWg)

	scheduler := worker.NewJobScheduler("weather-prefetch", weatherPrefetchInterval, pool)
	if cfg.WeatherAPICfg.APIKey != "" {
		scheduler.AddJob(services.NewWeatherPrefetchJob(farmRepo, weatherService).Run)
	} else {
		slog.Warn("OPENWEATHER_API_KEY not set, weather prefetch disabled")
	}
	go scheduler.Run(ctx)

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // base64 crop photos
	})
	app.Get("/checkhealth", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("CropGenius API is healthy")
	})

	handlers.NewOracleHandler(diseaseService, yieldService, questionService).RegisterRoutes(app)
	handlers.NewFarmHandler(farmService).RegisterRoutes(app)
	handlers.NewWeatherHandler(weatherService).RegisterRoutes(app)
	handlers.NewMarketHandler(marketService).RegisterRoutes(app)

	go func() {
		slog.Info("starting CropGenius API", "port", cfg.Port)
		if err := app.Listen(fmt.Sprintf("0.0.0.0:%s", cfg.Port)); err != nil {
			slog.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	managerWg.Wait()
}
