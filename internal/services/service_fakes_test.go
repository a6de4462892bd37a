package services

import (
	"context"
	"fmt"

	"cropgenius-api/internal/models"
)

// ============================================================================
// SHARED TEST FAKES
// ============================================================================

type fakeInferenceClient struct {
	response string
	err      error
	calls    int
}

func (c *fakeInferenceClient) Generate(_ context.Context, _ string, _ []string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

type fakeDetectionStore struct {
	created []models.DiseaseDetection
	failing bool
}

func (s *fakeDetectionStore) Create(_ context.Context, detection *models.DiseaseDetection) error {
	if s.failing {
		return fmt.Errorf("connection refused")
	}
	s.created = append(s.created, *detection)
	return nil
}

func (s *fakeDetectionStore) ListByUser(_ context.Context, userID string, _ int) ([]models.DiseaseDetection, error) {
	var out []models.DiseaseDetection
	for _, d := range s.created {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakePredictionStore struct {
	created []models.YieldPrediction
	failing bool
}

func (s *fakePredictionStore) Create(_ context.Context, prediction *models.YieldPrediction) error {
	if s.failing {
		return fmt.Errorf("connection refused")
	}
	s.created = append(s.created, *prediction)
	return nil
}

func (s *fakePredictionStore) ListByUser(_ context.Context, userID string, _ int) ([]models.YieldPrediction, error) {
	var out []models.YieldPrediction
	for _, p := range s.created {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeQuestionStore struct {
	created []models.QuestionAnalysis
}

func (s *fakeQuestionStore) Create(_ context.Context, analysis *models.QuestionAnalysis) error {
	s.created = append(s.created, *analysis)
	return nil
}

func (s *fakeQuestionStore) ListByUser(_ context.Context, userID string, _ int) ([]models.QuestionAnalysis, error) {
	var out []models.QuestionAnalysis
	for _, q := range s.created {
		if q.UserID == userID {
			out = append(out, q)
		}
	}
	return out, nil
}
