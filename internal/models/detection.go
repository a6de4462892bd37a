package models

import (
	"time"

	"github.com/google/uuid"
)

// DiseaseDetection is the fully populated result of one diagnosis. Every
// field is filled by the normalizer even when the model's answer was
// unparseable, so the UI never sees a half-built object.
type DiseaseDetection struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	UserID              string     `json:"user_id" db:"user_id"`
	FarmID              *uuid.UUID `json:"farm_id,omitempty" db:"farm_id"`
	CropType            string     `json:"crop_type" db:"crop_type"`
	DiseaseName         string     `json:"disease_name" db:"disease_name"`
	ScientificName      string     `json:"scientific_name" db:"scientific_name"`
	Confidence          float64    `json:"confidence" db:"confidence"`
	Severity            Severity   `json:"severity" db:"severity"`
	AffectedAreaPercent float64    `json:"affected_area_percent" db:"affected_area_percent"`
	Symptoms            StringList `json:"symptoms" db:"symptoms"`
	ImmediateActions    StringList `json:"immediate_actions" db:"immediate_actions"`
	PreventiveMeasures  StringList `json:"preventive_measures" db:"preventive_measures"`
	RecommendedProducts StringList `json:"recommended_products" db:"recommended_products"`
	RecoveryTimeline    string     `json:"recovery_timeline" db:"recovery_timeline"`
	SpreadRisk          SpreadRisk `json:"spread_risk" db:"spread_risk"`
	ImageURL            *string    `json:"image_url,omitempty" db:"image_url"`
	Latitude            *float64   `json:"latitude,omitempty" db:"latitude"`
	Longitude           *float64   `json:"longitude,omitempty" db:"longitude"`
	SourceAPI           string     `json:"source_api" db:"source_api"`
	ProcessingTimeMs    int64      `json:"processing_time_ms" db:"processing_time_ms"`
	Timestamp           time.Time  `json:"timestamp" db:"timestamp"`
}
