package repository

import (
	"context"
	"fmt"
	"time"

	"cropgenius-api/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) Create(ctx context.Context, prediction *models.YieldPrediction) error {
	if prediction.ID == uuid.Nil {
		prediction.ID = uuid.New()
	}
	if prediction.Timestamp.IsZero() {
		prediction.Timestamp = time.Now()
	}

	query := `
		INSERT INTO yield_predictions (
			id, user_id, farm_id, crop_type, farm_size_hectares,
			planting_date, predicted_yield_kg_per_ha, total_yield_kg,
			confidence_score, market_trend, harvest_window,
			risk_factors, recommendations,
			source_api, processing_time_ms, timestamp
		) VALUES (
			:id, :user_id, :farm_id, :crop_type, :farm_size_hectares,
			:planting_date, :predicted_yield_kg_per_ha, :total_yield_kg,
			:confidence_score, :market_trend, :harvest_window,
			:risk_factors, :recommendations,
			:source_api, :processing_time_ms, :timestamp
		)`

	if _, err := r.db.NamedExecContext(ctx, query, prediction); err != nil {
		return fmt.Errorf("failed to create yield prediction: %w", err)
	}
	return nil
}

func (r *PredictionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.YieldPrediction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	predictions := []models.YieldPrediction{}
	query := `SELECT * FROM yield_predictions WHERE user_id = $1 ORDER BY timestamp DESC LIMIT $2`
	if err := r.db.SelectContext(ctx, &predictions, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list yield predictions: %w", err)
	}
	return predictions, nil
}
