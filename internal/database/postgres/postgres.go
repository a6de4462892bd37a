package postgres

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"cropgenius-api/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ConnectAndCreateDB connects to the configured database, creating it first
// when it does not exist yet.
func ConnectAndCreateDB(cfg config.PostgresConfig) (*sqlx.DB, error) {
	defaultConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password)

	defaultDB, err := sql.Open("postgres", defaultConnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to default postgres db: %w", err)
	}
	defer defaultDB.Close()

	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`
	if err := defaultDB.QueryRow(checkQuery, cfg.DBname).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check if database exists: %w", err)
	}

	if !exists {
		if _, err := defaultDB.Exec(fmt.Sprintf(`CREATE DATABASE "%s"`, cfg.DBname)); err != nil {
			return nil, fmt.Errorf("failed to create database %s: %w", cfg.DBname, err)
		}
		slog.Info("database created", "dbname", cfg.DBname)
	}

	targetConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.DBname)

	db, err := sqlx.Connect("postgres", targetConnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to target database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping target database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	slog.Info("connected to postgres", "host", cfg.Host, "port", cfg.Port, "dbname", cfg.DBname)
	return db, nil
}

// EnsureSchema applies the table DDL. Every statement is idempotent so
// startup after a deploy is safe against an already-provisioned database.
func EnsureSchema(db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS farms (
			id UUID PRIMARY KEY,
			owner_id TEXT NOT NULL,
			farm_name TEXT NOT NULL,
			crop_type TEXT NOT NULL,
			size_hectares DOUBLE PRECISION NOT NULL,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			boundary_wkb BYTEA,
			planting_date BIGINT,
			soil_type TEXT,
			has_irrigation BOOLEAN NOT NULL DEFAULT FALSE,
			region TEXT,
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_farms_owner ON farms (owner_id)`,
		`CREATE TABLE IF NOT EXISTS disease_detections (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			farm_id UUID,
			crop_type TEXT NOT NULL,
			disease_name TEXT NOT NULL,
			scientific_name TEXT NOT NULL DEFAULT '',
			confidence DOUBLE PRECISION NOT NULL,
			severity TEXT NOT NULL,
			affected_area_percent DOUBLE PRECISION NOT NULL,
			symptoms JSONB,
			immediate_actions JSONB,
			preventive_measures JSONB,
			recommended_products JSONB,
			recovery_timeline TEXT NOT NULL DEFAULT '',
			spread_risk TEXT NOT NULL,
			image_url TEXT,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			source_api TEXT NOT NULL,
			processing_time_ms BIGINT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_detections_user ON disease_detections (user_id, timestamp DESC)`,
		`CREATE TABLE IF NOT EXISTS yield_predictions (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			farm_id UUID,
			crop_type TEXT NOT NULL,
			farm_size_hectares DOUBLE PRECISION NOT NULL,
			planting_date TEXT NOT NULL,
			predicted_yield_kg_per_ha DOUBLE PRECISION NOT NULL,
			total_yield_kg DOUBLE PRECISION NOT NULL,
			confidence_score DOUBLE PRECISION NOT NULL,
			market_trend TEXT NOT NULL,
			harvest_window TEXT NOT NULL DEFAULT '',
			risk_factors JSONB,
			recommendations JSONB,
			source_api TEXT NOT NULL,
			processing_time_ms BIGINT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_user ON yield_predictions (user_id, timestamp DESC)`,
		`CREATE TABLE IF NOT EXISTS question_analyses (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			question_text TEXT NOT NULL,
			category TEXT NOT NULL,
			urgency TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			advice JSONB,
			follow_up_questions JSONB,
			source_api TEXT NOT NULL,
			processing_time_ms BIGINT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_user ON question_analyses (user_id, timestamp DESC)`,
		`CREATE TABLE IF NOT EXISTS market_listings (
			id UUID PRIMARY KEY,
			crop_type TEXT NOT NULL,
			region TEXT NOT NULL,
			price_per_kg DOUBLE PRECISION NOT NULL,
			currency TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT 'user',
			listed_by_user TEXT,
			observed_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_listings_crop_region ON market_listings (crop_type, region, observed_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// RetryConnectOnFailed keeps trying to establish the connection in the
// background when startup could not reach the database.
func RetryConnectOnFailed(interval time.Duration, db **sqlx.DB, cfg config.PostgresConfig) {
	for {
		time.Sleep(interval)
		conn, err := ConnectAndCreateDB(cfg)
		if err != nil {
			slog.Warn("postgres reconnect failed, retrying", "interval", interval, "error", err)
			continue
		}
		if err := EnsureSchema(conn); err != nil {
			slog.Warn("postgres schema bootstrap failed, retrying", "error", err)
			continue
		}
		*db = conn
		slog.Info("postgres reconnected")
		return
	}
}
