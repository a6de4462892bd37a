package services

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"cropgenius-api/internal/models"
	"cropgenius-api/internal/oracle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDiagnoseRequest() *models.DiagnoseRequest {
	lat, lng := -1.2921, 36.8219
	return &models.DiagnoseRequest{
		ImageBase64: base64.StdEncoding.EncodeToString([]byte("fake-leaf-photo-bytes")),
		CropType:    "maize",
		Latitude:    &lat,
		Longitude:   &lng,
	}
}

const diseaseResponse = `{
	"disease_name": "Maize Streak Virus",
	"scientific_name": "Mastrevirus MSV",
	"confidence": 92,
	"severity": "HIGH",
	"affected_area_percent": 40,
	"symptoms": ["Broken yellow streaks on leaves"],
	"immediate_actions": ["Remove infected plants"],
	"spread_risk": "high"
}`

// ============================================================================
// TEST SUITE 1: DIAGNOSE END TO END
// ============================================================================

func TestDiagnose_NormalizesAndPersists(t *testing.T) {
	client := &fakeInferenceClient{response: diseaseResponse}
	store := &fakeDetectionStore{}
	service := NewDiseaseService(client, oracle.NewMemoryCache(8, time.Hour), time.Hour, store, nil, nil)

	detection, cached, err := service.Diagnose(context.Background(), "user-1", validDiagnoseRequest())
	require.NoError(t, err)

	assert.False(t, cached)
	assert.Equal(t, "Maize Streak Virus", detection.DiseaseName)
	assert.Equal(t, 92.0, detection.Confidence)
	assert.Equal(t, models.SeverityHigh, detection.Severity, "severity casing is folded into the taxonomy")
	assert.Equal(t, models.SpreadRiskHigh, detection.SpreadRisk)
	assert.Equal(t, "user-1", detection.UserID)
	require.Len(t, store.created, 1)
}

func TestDiagnose_RepeatedScanHitsCacheButStillPersists(t *testing.T) {
	client := &fakeInferenceClient{response: diseaseResponse}
	store := &fakeDetectionStore{}
	service := NewDiseaseService(client, oracle.NewMemoryCache(8, time.Hour), time.Hour, store, nil, nil)

	first, cached, err := service.Diagnose(context.Background(), "user-1", validDiagnoseRequest())
	require.NoError(t, err)
	assert.False(t, cached)

	second, cached, err := service.Diagnose(context.Background(), "user-1", validDiagnoseRequest())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 1, client.calls, "the second identical scan must not reach the model")

	assert.Equal(t, first.DiseaseName, second.DiseaseName)
	assert.NotEqual(t, first.ID, second.ID, "every diagnosis gets its own record")
	require.Len(t, store.created, 2, "cache hits still extend the scan history")
}

type fakeScanStore struct{}

func (s *fakeScanStore) UploadScanImage(_ context.Context, userID string, _ []byte, _ string) (string, error) {
	return "https://storage.local/scans/" + userID + "/leaf.jpg", nil
}

func TestDiagnose_CacheHitKeepsRequesterFarmAndImage(t *testing.T) {
	client := &fakeInferenceClient{response: diseaseResponse}
	store := &fakeDetectionStore{}
	service := NewDiseaseService(client, oracle.NewMemoryCache(8, time.Hour), time.Hour, store, &fakeScanStore{}, nil)

	reqA := validDiagnoseRequest()
	reqA.FarmID = "11111111-1111-1111-1111-111111111111"
	first, cached, err := service.Diagnose(context.Background(), "user-a", reqA)
	require.NoError(t, err)
	assert.False(t, cached)

	reqB := validDiagnoseRequest()
	reqB.FarmID = "22222222-2222-2222-2222-222222222222"
	second, cached, err := service.Diagnose(context.Background(), "user-b", reqB)
	require.NoError(t, err)
	assert.True(t, cached, "same image, crop and vicinity share a cache entry")
	assert.Equal(t, 1, client.calls)

	assert.Equal(t, "user-b", second.UserID)
	require.NotNil(t, second.FarmID)
	assert.Equal(t, reqB.FarmID, second.FarmID.String(), "a cache hit must not inherit the first scanner's farm")
	require.NotNil(t, second.ImageURL)
	assert.Contains(t, *second.ImageURL, "user-b", "each record links the requester's own upload")
	require.NotNil(t, first.ImageURL)
	assert.Contains(t, *first.ImageURL, "user-a")

	require.Len(t, store.created, 2)
	assert.Equal(t, reqA.FarmID, store.created[0].FarmID.String())
	assert.Equal(t, reqB.FarmID, store.created[1].FarmID.String())
}

func TestDiagnose_NearbyCoordinatesShareCacheKey(t *testing.T) {
	reqA := validDiagnoseRequest()
	reqB := validDiagnoseRequest()
	latB, lngB := -1.2934, 36.8243
	reqB.Latitude, reqB.Longitude = &latB, &lngB

	assert.Equal(t, diseaseCacheKey(reqA), diseaseCacheKey(reqB))

	farAway := validDiagnoseRequest()
	latFar := 6.5244
	farAway.Latitude = &latFar
	assert.NotEqual(t, diseaseCacheKey(reqA), diseaseCacheKey(farAway))
}

func TestDiagnose_InferenceFailureCachesAndPersistsNothing(t *testing.T) {
	client := &fakeInferenceClient{err: &oracle.InferenceError{StatusCode: 500, Message: "internal error"}}
	store := &fakeDetectionStore{}
	cache := oracle.NewMemoryCache(8, time.Hour)
	service := NewDiseaseService(client, cache, time.Hour, store, nil, nil)

	_, _, err := service.Diagnose(context.Background(), "user-1", validDiagnoseRequest())
	var infErr *oracle.InferenceError
	require.ErrorAs(t, err, &infErr)
	assert.Equal(t, 500, infErr.StatusCode)
	assert.Empty(t, store.created, "a failed diagnosis leaves no record")

	// The next attempt must re-run inference rather than hit a poisoned cache.
	client.err = nil
	client.response = diseaseResponse
	_, cached, err := service.Diagnose(context.Background(), "user-1", validDiagnoseRequest())
	require.NoError(t, err)
	assert.False(t, cached)
}

func TestDiagnose_MissingImageRejected(t *testing.T) {
	client := &fakeInferenceClient{response: diseaseResponse}
	service := NewDiseaseService(client, nil, time.Hour, &fakeDetectionStore{}, nil, nil)

	req := validDiagnoseRequest()
	req.ImageBase64 = ""

	_, _, err := service.Diagnose(context.Background(), "user-1", req)
	var validationErr *oracle.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "image_base64", validationErr.Field)
	assert.Equal(t, 0, client.calls)
}

// ============================================================================
// TEST SUITE 2: NORMALIZATION DEFAULTS
// ============================================================================

func TestNormalizeDisease_EmptyPartialFillsEveryField(t *testing.T) {
	detection := normalizeDiseaseResult(map[string]any{}, validDiagnoseRequest(), 2*time.Second)

	assert.Equal(t, "Unknown Disease", detection.DiseaseName)
	assert.Equal(t, 60.0, detection.Confidence)
	assert.Equal(t, models.SeverityMedium, detection.Severity)
	assert.Equal(t, 25.0, detection.AffectedAreaPercent)
	assert.Equal(t, models.SpreadRiskMedium, detection.SpreadRisk)
	assert.Equal(t, "2-4 weeks with appropriate treatment", detection.RecoveryTimeline)
	assert.NotEmpty(t, detection.Symptoms)
	assert.NotEmpty(t, detection.ImmediateActions)
	assert.NotEmpty(t, detection.PreventiveMeasures)
	assert.NotEmpty(t, detection.RecommendedProducts)
	assert.Equal(t, int64(2000), detection.ProcessingTimeMs)
	assert.False(t, detection.Timestamp.IsZero())
}

func TestNormalizeDisease_UnknownEnumFallsBack(t *testing.T) {
	partial := map[string]any{
		"severity":    "catastrophic",
		"spread_risk": "certain",
		"confidence":  -15.0,
	}

	detection := normalizeDiseaseResult(partial, validDiagnoseRequest(), time.Second)

	assert.Equal(t, models.SeverityMedium, detection.Severity)
	assert.Equal(t, models.SpreadRiskMedium, detection.SpreadRisk)
	assert.Equal(t, 0.0, detection.Confidence, "negative confidence clamps to the floor")
}
