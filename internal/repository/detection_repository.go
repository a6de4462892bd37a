package repository

import (
	"context"
	"fmt"
	"time"

	"cropgenius-api/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type DetectionRepository struct {
	db *sqlx.DB
}

func NewDetectionRepository(db *sqlx.DB) *DetectionRepository {
	return &DetectionRepository{db: db}
}

func (r *DetectionRepository) Create(ctx context.Context, detection *models.DiseaseDetection) error {
	if detection.ID == uuid.Nil {
		detection.ID = uuid.New()
	}
	if detection.Timestamp.IsZero() {
		detection.Timestamp = time.Now()
	}

	query := `
		INSERT INTO disease_detections (
			id, user_id, farm_id, crop_type,
			disease_name, scientific_name, confidence, severity,
			affected_area_percent, symptoms, immediate_actions,
			preventive_measures, recommended_products, recovery_timeline,
			spread_risk, image_url, latitude, longitude,
			source_api, processing_time_ms, timestamp
		) VALUES (
			:id, :user_id, :farm_id, :crop_type,
			:disease_name, :scientific_name, :confidence, :severity,
			:affected_area_percent, :symptoms, :immediate_actions,
			:preventive_measures, :recommended_products, :recovery_timeline,
			:spread_risk, :image_url, :latitude, :longitude,
			:source_api, :processing_time_ms, :timestamp
		)`

	if _, err := r.db.NamedExecContext(ctx, query, detection); err != nil {
		return fmt.Errorf("failed to create disease detection: %w", err)
	}
	return nil
}

func (r *DetectionRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.DiseaseDetection, error) {
	var detection models.DiseaseDetection
	query := `SELECT * FROM disease_detections WHERE id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &detection, query, id, userID); err != nil {
		return nil, fmt.Errorf("failed to get disease detection %s: %w", id, err)
	}
	return &detection, nil
}

func (r *DetectionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.DiseaseDetection, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	detections := []models.DiseaseDetection{}
	query := `SELECT * FROM disease_detections WHERE user_id = $1 ORDER BY timestamp DESC LIMIT $2`
	if err := r.db.SelectContext(ctx, &detections, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list disease detections: %w", err)
	}
	return detections, nil
}
