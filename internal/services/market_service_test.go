package services

import (
	"context"
	"testing"
	"time"

	"cropgenius-api/internal/models"
	"cropgenius-api/internal/oracle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeListingStore struct {
	created []models.MarketListing
	latest  float64
	average float64
	samples int
	failing bool
}

func (s *fakeListingStore) Create(_ context.Context, listing *models.MarketListing) error {
	if s.failing {
		return assert.AnError
	}
	s.created = append(s.created, *listing)
	return nil
}

func (s *fakeListingStore) List(_ context.Context, _, _ string, _ int) ([]models.MarketListing, error) {
	return s.created, nil
}

func (s *fakeListingStore) TrendStats(_ context.Context, _, _ string, _ time.Duration) (float64, float64, int, error) {
	return s.latest, s.average, s.samples, nil
}

func TestMarketCreateListing_DefaultsSourceAndCurrency(t *testing.T) {
	store := &fakeListingStore{}
	service := NewMarketService(store)

	listing, err := service.CreateListing(context.Background(), "user-1", &models.CreateListingRequest{
		CropType:   "maize",
		Region:     "Nakuru",
		PricePerKg: 45,
	})
	require.NoError(t, err)

	assert.Equal(t, "user", listing.Source)
	assert.Equal(t, "KES", listing.Currency)
	require.NotNil(t, listing.ListedByUser)
	assert.Equal(t, "user-1", *listing.ListedByUser)
	require.Len(t, store.created, 1)
}

func TestMarketCreateListing_PersistFailureIsTyped(t *testing.T) {
	service := NewMarketService(&fakeListingStore{failing: true})

	_, err := service.CreateListing(context.Background(), "user-1", &models.CreateListingRequest{
		CropType:   "maize",
		Region:     "Nakuru",
		PricePerKg: 45,
	})
	var persistErr *oracle.PersistenceError
	require.ErrorAs(t, err, &persistErr)
}

func TestMarketTrend_Classification(t *testing.T) {
	cases := []struct {
		name    string
		latest  float64
		average float64
		samples int
		want    models.MarketTrend
	}{
		{"rising above threshold", 110, 100, 12, models.MarketTrendRising},
		{"falling below threshold", 90, 100, 12, models.MarketTrendFalling},
		{"within threshold is steady", 103, 100, 12, models.MarketTrendSteady},
		{"no samples is steady", 0, 0, 0, models.MarketTrendSteady},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := NewMarketService(&fakeListingStore{
				latest: tc.latest, average: tc.average, samples: tc.samples,
			})
			summary, err := service.Trend(context.Background(), "maize", "Nakuru")
			require.NoError(t, err)
			assert.Equal(t, tc.want, summary.Trend)
		})
	}
}
