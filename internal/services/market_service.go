package services

import (
	"context"
	"time"

	"cropgenius-api/internal/models"
	"cropgenius-api/internal/oracle"
)

// trendWindow is how far back the trailing average looks when classifying a
// price movement.
const trendWindow = 30 * 24 * time.Hour

// trendThresholdPercent separates "steady" from a real move.
const trendThresholdPercent = 5.0

type listingStore interface {
	Create(ctx context.Context, listing *models.MarketListing) error
	List(ctx context.Context, cropType, region string, limit int) ([]models.MarketListing, error)
	TrendStats(ctx context.Context, cropType, region string, window time.Duration) (latest, average float64, samples int, err error)
}

// MarketService manages observed crop prices and derives a trend per
// crop/region pair.
type MarketService struct {
	repo listingStore
}

func NewMarketService(repo listingStore) *MarketService {
	return &MarketService{repo: repo}
}

func (s *MarketService) CreateListing(ctx context.Context, userID string, req *models.CreateListingRequest) (*models.MarketListing, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	source := req.Source
	if source == "" {
		source = "user"
	}
	listing := &models.MarketListing{
		CropType:     req.CropType,
		Region:       req.Region,
		PricePerKg:   req.PricePerKg,
		Currency:     req.Currency,
		Source:       source,
		ListedByUser: &userID,
		ObservedAt:   time.Now(),
	}
	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, &oracle.PersistenceError{Op: "save market listing", Err: err}
	}
	return listing, nil
}

func (s *MarketService) ListPrices(ctx context.Context, cropType, region string, limit int) ([]models.MarketListing, error) {
	return s.repo.List(ctx, cropType, region, limit)
}

// Trend compares the latest price against the trailing 30-day average.
func (s *MarketService) Trend(ctx context.Context, cropType, region string) (*models.MarketTrendSummary, error) {
	latest, average, samples, err := s.repo.TrendStats(ctx, cropType, region, trendWindow)
	if err != nil {
		return nil, err
	}

	summary := &models.MarketTrendSummary{
		CropType:     cropType,
		Region:       region,
		LatestPrice:  latest,
		AveragePrice: average,
		Trend:        models.MarketTrendSteady,
		SampleCount:  samples,
	}
	if samples == 0 || average == 0 {
		return summary, nil
	}

	summary.ChangePercent = (latest - average) / average * 100
	switch {
	case summary.ChangePercent >= trendThresholdPercent:
		summary.Trend = models.MarketTrendRising
	case summary.ChangePercent <= -trendThresholdPercent:
		summary.Trend = models.MarketTrendFalling
	}
	return summary, nil
}
