package services

import (
	"context"

	"cropgenius-api/internal/models"
	"cropgenius-api/internal/repository"

	"github.com/google/uuid"
)

// FarmService owns the farm CRUD. Every operation is scoped to the owning
// user; a farm belonging to someone else behaves exactly like a missing one.
type FarmService struct {
	repo *repository.FarmRepository
}

func NewFarmService(repo *repository.FarmRepository) *FarmService {
	return &FarmService{repo: repo}
}

func (s *FarmService) Create(ctx context.Context, ownerID string, req *models.CreateFarmRequest) (*models.Farm, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	farm := &models.Farm{
		OwnerID:       ownerID,
		FarmName:      req.FarmName,
		CropType:      req.CropType,
		SizeHectares:  req.SizeHectares,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		PlantingDate:  req.PlantingDate,
		SoilType:      req.SoilType,
		HasIrrigation: req.HasIrrigation,
		Region:        req.Region,
		Status:        models.FarmActive,
	}
	if len(req.Boundary) >= 3 {
		farm.Boundary = &models.Boundary{Coordinates: req.Boundary}
	}

	if err := s.repo.Create(ctx, farm); err != nil {
		return nil, err
	}
	return farm, nil
}

func (s *FarmService) Get(ctx context.Context, id uuid.UUID, ownerID string) (*models.Farm, error) {
	return s.repo.GetByID(ctx, id, ownerID)
}

func (s *FarmService) List(ctx context.Context, ownerID string) ([]models.Farm, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *FarmService) Update(ctx context.Context, id uuid.UUID, ownerID string, req *models.CreateFarmRequest) (*models.Farm, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	farm, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	farm.FarmName = req.FarmName
	farm.CropType = req.CropType
	farm.SizeHectares = req.SizeHectares
	farm.Latitude = req.Latitude
	farm.Longitude = req.Longitude
	farm.PlantingDate = req.PlantingDate
	farm.SoilType = req.SoilType
	farm.HasIrrigation = req.HasIrrigation
	farm.Region = req.Region
	if len(req.Boundary) >= 3 {
		farm.Boundary = &models.Boundary{Coordinates: req.Boundary}
	}

	if err := s.repo.Update(ctx, farm); err != nil {
		return nil, err
	}
	return farm, nil
}

func (s *FarmService) Delete(ctx context.Context, id uuid.UUID, ownerID string) error {
	return s.repo.Delete(ctx, id, ownerID)
}
