package models

import (
	"time"

	"github.com/google/uuid"
)

// YieldPrediction is the normalized output of the yield oracle.
type YieldPrediction struct {
	ID                    uuid.UUID   `json:"id" db:"id"`
	UserID                string      `json:"user_id" db:"user_id"`
	FarmID                *uuid.UUID  `json:"farm_id,omitempty" db:"farm_id"`
	CropType              string      `json:"crop_type" db:"crop_type"`
	FarmSizeHectares      float64     `json:"farm_size_hectares" db:"farm_size_hectares"`
	PlantingDate          string      `json:"planting_date" db:"planting_date"`
	PredictedYieldKgPerHa float64     `json:"predicted_yield_kg_per_ha" db:"predicted_yield_kg_per_ha"`
	TotalYieldKg          float64     `json:"total_yield_kg" db:"total_yield_kg"`
	ConfidenceScore       float64     `json:"confidence_score" db:"confidence_score"`
	MarketTrend           MarketTrend `json:"market_trend" db:"market_trend"`
	HarvestWindow         string      `json:"harvest_window" db:"harvest_window"`
	RiskFactors           StringList  `json:"risk_factors" db:"risk_factors"`
	Recommendations       StringList  `json:"recommendations" db:"recommendations"`
	SourceAPI             string      `json:"source_api" db:"source_api"`
	ProcessingTimeMs      int64       `json:"processing_time_ms" db:"processing_time_ms"`
	Timestamp             time.Time   `json:"timestamp" db:"timestamp"`
}
