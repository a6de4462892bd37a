package services

import (
	"context"
	"fmt"
	"time"

	"cropgenius-api/internal/ai/gemini"
	"cropgenius-api/internal/models"
	"cropgenius-api/internal/oracle"

	"github.com/google/uuid"
)

const textSourceAPI = "gemini-2.5-flash"

// fallbackYieldPerHaFactor is the documented default when the model's answer
// carries no usable number: a conservative smallholder estimate scaled by
// farm size.
const fallbackYieldPerHaFactor = 3500.0

type predictionStore interface {
	Create(ctx context.Context, prediction *models.YieldPrediction) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.YieldPrediction, error)
}

// YieldService predicts harvest yield and market outlook from farm
// parameters. Inputs rarely repeat byte-identically, so this domain runs
// uncached.
type YieldService struct {
	pipeline *oracle.Pipeline[*models.YieldRequest, models.YieldPrediction]
	repo     predictionStore
}

func NewYieldService(client oracle.InferenceClient, repo predictionStore) *YieldService {
	domain := oracle.Domain[*models.YieldRequest, models.YieldPrediction]{
		Name: "yield-prediction",
		Validate: func(req *models.YieldRequest) error {
			return req.Validate()
		},
		BuildPrompt: buildYieldPrompt,
		Normalize:   normalizeYieldResult,
	}
	return &YieldService{
		pipeline: oracle.NewPipeline(domain, client, nil),
		repo:     repo,
	}
}

func buildYieldPrompt(req *models.YieldRequest) string {
	soil := "Not specified"
	if req.SoilType != "" {
		soil = req.SoilType
	}
	irrigation := "Not specified"
	if req.HasIrrigation != nil {
		if *req.HasIrrigation {
			irrigation = "yes"
		} else {
			irrigation = "no"
		}
	}
	location := "Not specified"
	if req.Latitude != nil && req.Longitude != nil {
		location = fmt.Sprintf("latitude %.4f, longitude %.4f", *req.Latitude, *req.Longitude)
	}
	return fmt.Sprintf(gemini.YieldPredictionPromptTemplate,
		req.CropType, req.FarmSizeHectares, req.PlantingDate, soil, irrigation, location)
}

func normalizeYieldResult(partial map[string]any, req *models.YieldRequest, elapsed time.Duration) models.YieldPrediction {
	prediction := models.YieldPrediction{
		CropType:         req.CropType,
		FarmSizeHectares: req.FarmSizeHectares,
		PlantingDate:     req.PlantingDate,
		SourceAPI:        textSourceAPI,
		ProcessingTimeMs: stampProcessingTime(partial, elapsed),
		Timestamp:        stampTimestamp(partial),
	}

	// The prompt schema is camelCase; the persisted shape is snake_case.
	// Accept both so re-normalization is stable.
	if v, ok := numFirst(partial, "predictedYieldKgPerHa", "predicted_yield_kg_per_ha"); ok && v > 0 {
		prediction.PredictedYieldKgPerHa = oracle.Clamp(v, 0, 100000)
	} else {
		prediction.PredictedYieldKgPerHa = req.FarmSizeHectares * fallbackYieldPerHaFactor
	}
	prediction.TotalYieldKg = prediction.PredictedYieldKgPerHa * req.FarmSizeHectares

	if v, ok := numFirst(partial, "confidenceScore", "confidence_score"); ok {
		prediction.ConfidenceScore = oracle.Clamp(v, 0, 100)
	} else {
		prediction.ConfidenceScore = 75
	}

	trend, _ := strFirst(partial, "marketTrend", "market_trend")
	prediction.MarketTrend = models.MarketTrend(coerceEnum(trend, models.MarketTrends, string(models.MarketTrendSteady)))

	if window, ok := strFirst(partial, "harvestWindow", "harvest_window"); ok {
		prediction.HarvestWindow = window
	} else {
		prediction.HarvestWindow = "Depends on local conditions; verify with extension services"
	}

	prediction.RiskFactors = strSliceFirst(partial, models.StringList{"Insufficient data for risk assessment"}, "riskFactors", "risk_factors")
	prediction.Recommendations = strSliceFirst(partial, models.StringList{"Consult agricultural expert"}, "recommendations")

	if farmID, err := uuid.Parse(req.FarmID); err == nil {
		prediction.FarmID = &farmID
	}

	return prediction
}

// Predict runs the yield pipeline and persists the prediction for the user.
func (s *YieldService) Predict(ctx context.Context, userID string, req *models.YieldRequest) (*models.YieldPrediction, error) {
	result, _, err := s.pipeline.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	result.ID = uuid.New()
	result.UserID = userID

	if err := s.repo.Create(ctx, &result); err != nil {
		return nil, &oracle.PersistenceError{Op: "save yield prediction", Err: err}
	}
	return &result, nil
}

func (s *YieldService) History(ctx context.Context, userID string, limit int) ([]models.YieldPrediction, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}
