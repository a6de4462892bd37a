package models

import (
	"encoding/base64"
	"time"

	"cropgenius-api/internal/oracle"
)

// ============================================================================
// ORACLE REQUESTS
// ============================================================================

// DiagnoseRequest carries one crop photo plus context. Image is base64
// encoded, matching what the mobile client captures from the camera.
type DiagnoseRequest struct {
	ImageBase64 string   `json:"image_base64"`
	CropType    string   `json:"crop_type"`
	FarmID      string   `json:"farm_id,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`

	// ImageURL is filled by the service after the scan is stored, never by
	// the client.
	ImageURL *string `json:"-"`
}

func (r *DiagnoseRequest) Validate() error {
	if r.ImageBase64 == "" {
		return &oracle.ValidationError{Field: "image_base64", Reason: "is required"}
	}
	if _, err := base64.StdEncoding.DecodeString(r.ImageBase64); err != nil {
		return &oracle.ValidationError{Field: "image_base64", Reason: "is not valid base64"}
	}
	if r.CropType == "" {
		return &oracle.ValidationError{Field: "crop_type", Reason: "is required"}
	}
	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		return &oracle.ValidationError{Field: "latitude", Reason: "must be between -90 and 90"}
	}
	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		return &oracle.ValidationError{Field: "longitude", Reason: "must be between -180 and 180"}
	}
	return nil
}

type YieldRequest struct {
	CropType         string   `json:"crop_type"`
	FarmSizeHectares float64  `json:"farm_size_hectares"`
	PlantingDate     string   `json:"planting_date"`
	FarmID           string   `json:"farm_id,omitempty"`
	SoilType         string   `json:"soil_type,omitempty"`
	HasIrrigation    *bool    `json:"has_irrigation,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
}

func (r *YieldRequest) Validate() error {
	if r.CropType == "" {
		return &oracle.ValidationError{Field: "crop_type", Reason: "is required"}
	}
	if r.FarmSizeHectares <= 0 {
		return &oracle.ValidationError{Field: "farm_size_hectares", Reason: "must be greater than 0"}
	}
	if r.PlantingDate == "" {
		return &oracle.ValidationError{Field: "planting_date", Reason: "is required"}
	}
	if _, err := time.Parse("2006-01-02", r.PlantingDate); err != nil {
		return &oracle.ValidationError{Field: "planting_date", Reason: "must be formatted YYYY-MM-DD"}
	}
	return nil
}

type AskRequest struct {
	QuestionText string `json:"question_text"`
	CropType     string `json:"crop_type,omitempty"`
	Region       string `json:"region,omitempty"`
}

func (r *AskRequest) Validate() error {
	if r.QuestionText == "" {
		return &oracle.ValidationError{Field: "question_text", Reason: "is required"}
	}
	if len(r.QuestionText) > 2000 {
		return &oracle.ValidationError{Field: "question_text", Reason: "must be at most 2000 characters"}
	}
	return nil
}

// ============================================================================
// CRUD REQUESTS
// ============================================================================

type CreateFarmRequest struct {
	FarmName      string       `json:"farm_name"`
	CropType      string       `json:"crop_type"`
	SizeHectares  float64      `json:"size_hectares"`
	Latitude      *float64     `json:"latitude,omitempty"`
	Longitude     *float64     `json:"longitude,omitempty"`
	Boundary      [][2]float64 `json:"boundary,omitempty"`
	PlantingDate  *int64       `json:"planting_date,omitempty"`
	SoilType      *string      `json:"soil_type,omitempty"`
	HasIrrigation bool         `json:"has_irrigation"`
	Region        *string      `json:"region,omitempty"`
}

func (r *CreateFarmRequest) Validate() error {
	if r.FarmName == "" {
		return &oracle.ValidationError{Field: "farm_name", Reason: "is required"}
	}
	if r.CropType == "" {
		return &oracle.ValidationError{Field: "crop_type", Reason: "is required"}
	}
	if r.SizeHectares <= 0 {
		return &oracle.ValidationError{Field: "size_hectares", Reason: "must be greater than 0"}
	}
	if len(r.Boundary) > 0 && len(r.Boundary) < 3 {
		return &oracle.ValidationError{Field: "boundary", Reason: "needs at least 3 points"}
	}
	return nil
}

type CreateListingRequest struct {
	CropType   string  `json:"crop_type"`
	Region     string  `json:"region"`
	PricePerKg float64 `json:"price_per_kg"`
	Currency   string  `json:"currency"`
	Source     string  `json:"source,omitempty"`
}

func (r *CreateListingRequest) Validate() error {
	if r.CropType == "" {
		return &oracle.ValidationError{Field: "crop_type", Reason: "is required"}
	}
	if r.Region == "" {
		return &oracle.ValidationError{Field: "region", Reason: "is required"}
	}
	if r.PricePerKg <= 0 {
		return &oracle.ValidationError{Field: "price_per_kg", Reason: "must be greater than 0"}
	}
	if r.Currency == "" {
		r.Currency = "KES"
	}
	return nil
}
