package services

import (
	"context"
	"log/slog"

	"cropgenius-api/internal/models"
)

type farmLister interface {
	ListActive(ctx context.Context) ([]models.Farm, error)
}

// WeatherPrefetchJob warms the weather cache for every active farm with
// coordinates, so dashboard reads hit cache instead of the rate-limited
// upstream. Wired into the background scheduler.
type WeatherPrefetchJob struct {
	farms   farmLister
	weather *WeatherService
}

func NewWeatherPrefetchJob(farms farmLister, weather *WeatherService) *WeatherPrefetchJob {
	return &WeatherPrefetchJob{farms: farms, weather: weather}
}

func (j *WeatherPrefetchJob) Run(ctx context.Context) error {
	farms, err := j.farms.ListActive(ctx)
	if err != nil {
		return err
	}

	prefetched := 0
	for _, farm := range farms {
		if farm.Latitude == nil || farm.Longitude == nil {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := j.weather.GetInsight(ctx, *farm.Latitude, *farm.Longitude); err != nil {
			slog.Warn("weather prefetch failed for farm", "farm_id", farm.ID, "error", err)
			continue
		}
		prefetched++
	}

	slog.Info("weather prefetch complete", "farms", len(farms), "prefetched", prefetched)
	return nil
}
