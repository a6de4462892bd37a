package repository

import (
	"context"
	"fmt"
	"time"

	"cropgenius-api/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type QuestionRepository struct {
	db *sqlx.DB
}

func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) Create(ctx context.Context, analysis *models.QuestionAnalysis) error {
	if analysis.ID == uuid.Nil {
		analysis.ID = uuid.New()
	}
	if analysis.Timestamp.IsZero() {
		analysis.Timestamp = time.Now()
	}

	query := `
		INSERT INTO question_analyses (
			id, user_id, question_text, category, urgency, confidence,
			summary, advice, follow_up_questions,
			source_api, processing_time_ms, timestamp
		) VALUES (
			:id, :user_id, :question_text, :category, :urgency, :confidence,
			:summary, :advice, :follow_up_questions,
			:source_api, :processing_time_ms, :timestamp
		)`

	if _, err := r.db.NamedExecContext(ctx, query, analysis); err != nil {
		return fmt.Errorf("failed to create question analysis: %w", err)
	}
	return nil
}

func (r *QuestionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.QuestionAnalysis, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	analyses := []models.QuestionAnalysis{}
	query := `SELECT * FROM question_analyses WHERE user_id = $1 ORDER BY timestamp DESC LIMIT $2`
	if err := r.db.SelectContext(ctx, &analyses, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list question analyses: %w", err)
	}
	return analyses, nil
}
