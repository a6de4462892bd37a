package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cropgenius-api/internal/config"
	"cropgenius-api/internal/oracle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const oneCallFixture = `{
	"lat": -1.29, "lon": 36.82, "timezone": "Africa/Nairobi",
	"current": {"temp": 24.5, "humidity": 88, "wind_speed": 3.2, "weather": [{"main": "Clouds"}]},
	"daily": [
		{"dt": 1756368000, "temp": {"min": 15.0, "max": 36.2}, "pop": 0.7, "rain": 12.5, "weather": [{"main": "Rain"}]},
		{"dt": 1756454400, "temp": {"min": 16.0, "max": 28.0}, "pop": 0.1, "rain": 0, "weather": [{"main": "Clear"}]}
	]
}`

func newWeatherTestServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(oneCallFixture))
	}))
}

func TestWeatherGetInsight_DerivesAgronomicFlags(t *testing.T) {
	hits := 0
	server := newWeatherTestServer(t, &hits)
	defer server.Close()

	service := NewWeatherService(config.WeatherAPIConfig{APIKey: "test-key", CacheTTL: time.Minute}, nil)
	service.baseURL = server.URL

	insight, err := service.GetInsight(context.Background(), -1.2921, 36.8219)
	require.NoError(t, err)

	assert.True(t, insight.RainExpected, "pop 0.7 crosses the rain threshold")
	assert.True(t, insight.HeatStress, "max 36.2 crosses the heat threshold")
	assert.Equal(t, "Clouds", insight.Current.Condition)
	assert.Len(t, insight.Daily, 2)
	assert.Equal(t, 70.0, insight.Daily[0].RainChance)
	assert.NotEmpty(t, insight.FarmingAdvice)
}

func TestWeatherGetInsight_SecondCallServedFromCache(t *testing.T) {
	hits := 0
	server := newWeatherTestServer(t, &hits)
	defer server.Close()

	cache := oracle.NewMemoryCache(8, time.Minute)
	service := NewWeatherService(config.WeatherAPIConfig{APIKey: "test-key", CacheTTL: time.Minute}, cache)
	service.baseURL = server.URL

	_, err := service.GetInsight(context.Background(), -1.2921, 36.8219)
	require.NoError(t, err)

	// Same coarse bucket, slightly different point.
	_, err = service.GetInsight(context.Background(), -1.2934, 36.8243)
	require.NoError(t, err)

	assert.Equal(t, 1, hits, "nearby lookups share one upstream call")
}

func TestWeatherGetInsight_UpstreamErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"cod": 401, "message": "Invalid API key"}`))
	}))
	defer server.Close()

	service := NewWeatherService(config.WeatherAPIConfig{APIKey: "test-key", CacheTTL: time.Minute}, nil)
	service.baseURL = server.URL

	_, err := service.GetInsight(context.Background(), -1.29, 36.82)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestWeatherGetInsight_MissingKeyFailsFast(t *testing.T) {
	service := NewWeatherService(config.WeatherAPIConfig{}, nil)

	_, err := service.GetInsight(context.Background(), -1.29, 36.82)
	require.Error(t, err)
}
