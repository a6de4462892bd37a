package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cropgenius-api/internal/models"
	"cropgenius-api/internal/oracle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validYieldRequest() *models.YieldRequest {
	return &models.YieldRequest{
		CropType:         "maize",
		FarmSizeHectares: 2.5,
		PlantingDate:     "2026-03-15",
	}
}

// ============================================================================
// TEST SUITE 1: PREDICT END TO END
// ============================================================================

func TestYieldPredict_ExtractsJSONFromNoisyResponse(t *testing.T) {
	client := &fakeInferenceClient{response: `Sure, here is my estimate for your farm:

{"predictedYieldKgPerHa": 4200, "confidenceScore": 90}

Good luck with the season!`}
	store := &fakePredictionStore{}
	service := NewYieldService(client, store)

	prediction, err := service.Predict(context.Background(), "user-1", validYieldRequest())
	require.NoError(t, err)

	assert.Equal(t, 4200.0, prediction.PredictedYieldKgPerHa)
	assert.Equal(t, 4200.0*2.5, prediction.TotalYieldKg)
	assert.Equal(t, 90.0, prediction.ConfidenceScore)
	assert.Equal(t, models.MarketTrendSteady, prediction.MarketTrend, "absent trend defaults to steady")
	assert.Equal(t, "user-1", prediction.UserID)
	require.Len(t, store.created, 1)
}

func TestYieldPredict_NoJSONFallsBackToFarmSizeEstimate(t *testing.T) {
	client := &fakeInferenceClient{response: "I cannot analyze this."}
	store := &fakePredictionStore{}
	service := NewYieldService(client, store)

	prediction, err := service.Predict(context.Background(), "user-1", validYieldRequest())
	require.NoError(t, err, "an unparseable answer still produces a prediction")

	assert.Equal(t, 2.5*fallbackYieldPerHaFactor, prediction.PredictedYieldKgPerHa)
	assert.Equal(t, 75.0, prediction.ConfidenceScore)
	assert.Equal(t, models.MarketTrendSteady, prediction.MarketTrend)
	assert.NotEmpty(t, prediction.RiskFactors)
	assert.NotEmpty(t, prediction.Recommendations)
}

func TestYieldPredict_PersistFailureIsTypedDistinctly(t *testing.T) {
	client := &fakeInferenceClient{response: `{"predictedYieldKgPerHa": 4200}`}
	store := &fakePredictionStore{failing: true}
	service := NewYieldService(client, store)

	_, err := service.Predict(context.Background(), "user-1", validYieldRequest())
	var persistErr *oracle.PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, 1, client.calls, "inference ran before the save failed")
}

func TestYieldPredict_InvalidRequestRejectedBeforeInference(t *testing.T) {
	client := &fakeInferenceClient{response: `{}`}
	service := NewYieldService(client, &fakePredictionStore{})

	req := validYieldRequest()
	req.PlantingDate = "15/03/2026"

	_, err := service.Predict(context.Background(), "user-1", req)
	var validationErr *oracle.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 0, client.calls)
}

// ============================================================================
// TEST SUITE 2: NORMALIZATION
// ============================================================================

func TestNormalizeYield_ClampsImplausibleValues(t *testing.T) {
	partial := map[string]any{
		"predictedYieldKgPerHa": 250000.0,
		"confidenceScore":       140.0,
	}

	prediction := normalizeYieldResult(partial, validYieldRequest(), time.Second)

	assert.Equal(t, 100000.0, prediction.PredictedYieldKgPerHa)
	assert.Equal(t, 100.0, prediction.ConfidenceScore)
}

func TestNormalizeYield_NegativeYieldTreatedAsAbsent(t *testing.T) {
	partial := map[string]any{"predictedYieldKgPerHa": -500.0}

	prediction := normalizeYieldResult(partial, validYieldRequest(), time.Second)

	assert.Equal(t, 2.5*fallbackYieldPerHaFactor, prediction.PredictedYieldKgPerHa)
}

func TestNormalizeYield_CoercesTrendCasing(t *testing.T) {
	partial := map[string]any{"marketTrend": "Rising"}

	prediction := normalizeYieldResult(partial, validYieldRequest(), time.Second)

	assert.Equal(t, models.MarketTrendRising, prediction.MarketTrend)
}

// Re-normalizing an already normalized prediction must not drift any field.
func TestNormalizeYield_Idempotent(t *testing.T) {
	req := validYieldRequest()
	first := normalizeYieldResult(map[string]any{
		"predictedYieldKgPerHa": 4200.0,
		"confidenceScore":       90.0,
		"marketTrend":           "rising",
	}, req, 1500*time.Millisecond)

	raw, err := json.Marshal(first)
	require.NoError(t, err)
	var roundTripped map[string]any
	require.NoError(t, json.Unmarshal(raw, &roundTripped))

	second := normalizeYieldResult(roundTripped, req, 9999*time.Millisecond)

	assert.Equal(t, first.PredictedYieldKgPerHa, second.PredictedYieldKgPerHa)
	assert.Equal(t, first.TotalYieldKg, second.TotalYieldKg)
	assert.Equal(t, first.ConfidenceScore, second.ConfidenceScore)
	assert.Equal(t, first.MarketTrend, second.MarketTrend)
	assert.Equal(t, first.HarvestWindow, second.HarvestWindow)
	assert.Equal(t, first.ProcessingTimeMs, second.ProcessingTimeMs)
	assert.WithinDuration(t, first.Timestamp, second.Timestamp, time.Millisecond)
}
