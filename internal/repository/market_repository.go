package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cropgenius-api/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type MarketRepository struct {
	db *sqlx.DB
}

func NewMarketRepository(db *sqlx.DB) *MarketRepository {
	return &MarketRepository{db: db}
}

func (r *MarketRepository) Create(ctx context.Context, listing *models.MarketListing) error {
	if listing.ID == uuid.Nil {
		listing.ID = uuid.New()
	}
	listing.CreatedAt = time.Now()
	if listing.ObservedAt.IsZero() {
		listing.ObservedAt = listing.CreatedAt
	}

	query := `
		INSERT INTO market_listings (
			id, crop_type, region, price_per_kg, currency,
			source, listed_by_user, observed_at, created_at
		) VALUES (
			:id, :crop_type, :region, :price_per_kg, :currency,
			:source, :listed_by_user, :observed_at, :created_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, listing); err != nil {
		return fmt.Errorf("failed to create market listing: %w", err)
	}
	return nil
}

func (r *MarketRepository) List(ctx context.Context, cropType, region string, limit int) ([]models.MarketListing, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	listings := []models.MarketListing{}
	query := `
		SELECT id, crop_type, region, price_per_kg, currency,
		       source, listed_by_user, observed_at, created_at
		FROM market_listings
		WHERE ($1 = '' OR crop_type = $1) AND ($2 = '' OR region = $2)
		ORDER BY observed_at DESC
		LIMIT $3`
	if err := r.db.SelectContext(ctx, &listings, query, cropType, region, limit); err != nil {
		return nil, fmt.Errorf("failed to list market listings: %w", err)
	}
	return listings, nil
}

type trendRow struct {
	LatestPrice  float64 `db:"latest_price"`
	AveragePrice float64 `db:"average_price"`
	SampleCount  int     `db:"sample_count"`
}

// TrendStats returns the latest price and the trailing average over the
// given window for one crop/region pair.
func (r *MarketRepository) TrendStats(ctx context.Context, cropType, region string, window time.Duration) (latest, average float64, samples int, err error) {
	var row trendRow
	query := `
		SELECT
			COALESCE((SELECT price_per_kg FROM market_listings
			 WHERE crop_type = $1 AND region = $2
			 ORDER BY observed_at DESC LIMIT 1), 0) AS latest_price,
			COALESCE(AVG(price_per_kg), 0) AS average_price,
			COUNT(*) AS sample_count
		FROM market_listings
		WHERE crop_type = $1 AND region = $2 AND observed_at >= $3`
	since := time.Now().Add(-window)
	if err := r.db.GetContext(ctx, &row, query, cropType, region, since); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, 0, ErrNotFound
		}
		return 0, 0, 0, fmt.Errorf("failed to compute market trend: %w", err)
	}
	return row.LatestPrice, row.AveragePrice, row.SampleCount, nil
}
