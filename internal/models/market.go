package models

import (
	"time"

	"github.com/google/uuid"
)

// MarketListing is one observed price point for a crop in a region.
type MarketListing struct {
	ID           uuid.UUID `json:"id" db:"id"`
	CropType     string    `json:"crop_type" db:"crop_type"`
	Region       string    `json:"region" db:"region"`
	PricePerKg   float64   `json:"price_per_kg" db:"price_per_kg"`
	Currency     string    `json:"currency" db:"currency"`
	Source       string    `json:"source" db:"source"`
	ListedByUser *string   `json:"listed_by_user,omitempty" db:"listed_by_user"`
	ObservedAt   time.Time `json:"observed_at" db:"observed_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// MarketTrendSummary compares the latest observed price against the trailing
// average for the same crop and region.
type MarketTrendSummary struct {
	CropType      string      `json:"crop_type"`
	Region        string      `json:"region"`
	LatestPrice   float64     `json:"latest_price"`
	AveragePrice  float64     `json:"average_price"`
	ChangePercent float64     `json:"change_percent"`
	Trend         MarketTrend `json:"trend"`
	SampleCount   int         `json:"sample_count"`
}
