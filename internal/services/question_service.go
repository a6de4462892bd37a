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

type questionStore interface {
	Create(ctx context.Context, analysis *models.QuestionAnalysis) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.QuestionAnalysis, error)
}

// QuestionService triages free-text farmer questions into the eight-category
// taxonomy with urgency and first advice.
type QuestionService struct {
	pipeline *oracle.Pipeline[*models.AskRequest, models.QuestionAnalysis]
	repo     questionStore
}

func NewQuestionService(client oracle.InferenceClient, repo questionStore) *QuestionService {
	domain := oracle.Domain[*models.AskRequest, models.QuestionAnalysis]{
		Name: "question-triage",
		Validate: func(req *models.AskRequest) error {
			return req.Validate()
		},
		BuildPrompt: buildQuestionPrompt,
		Normalize:   normalizeQuestionResult,
	}
	return &QuestionService{
		pipeline: oracle.NewPipeline(domain, client, nil),
		repo:     repo,
	}
}

func buildQuestionPrompt(req *models.AskRequest) string {
	context := "Not specified"
	if req.CropType != "" || req.Region != "" {
		crop := req.CropType
		if crop == "" {
			crop = "Not specified"
		}
		region := req.Region
		if region == "" {
			region = "Not specified"
		}
		context = fmt.Sprintf("Crop: %s, Region: %s", crop, region)
	}
	return fmt.Sprintf(gemini.QuestionTriagePromptTemplate, req.QuestionText, context)
}

func normalizeQuestionResult(partial map[string]any, req *models.AskRequest, elapsed time.Duration) models.QuestionAnalysis {
	analysis := models.QuestionAnalysis{
		QuestionText:     req.QuestionText,
		Category:         models.QuestionCategory(oracle.Enum(partial, "category", models.QuestionCategories, string(models.CategoryGeneral))),
		Urgency:          models.Urgency(oracle.Enum(partial, "urgency", models.Urgencies, string(models.UrgencyMedium))),
		Confidence:       oracle.ClampNum(partial, "confidence", 0, 100, 70),
		SourceAPI:        textSourceAPI,
		ProcessingTimeMs: stampProcessingTime(partial, elapsed),
		Timestamp:        stampTimestamp(partial),
	}

	if summary, ok := oracle.Str(partial, "summary"); ok {
		analysis.Summary = summary
	} else {
		analysis.Summary = req.QuestionText
	}

	analysis.Advice = strSliceOrDefault(partial, "advice", models.StringList{"Consult agricultural expert"})
	analysis.FollowUpQuestions = strSliceOrDefault(partial, "follow_up_questions", models.StringList{})

	return analysis
}

// Analyze runs the triage pipeline and persists the analysis for the user.
func (s *QuestionService) Analyze(ctx context.Context, userID string, req *models.AskRequest) (*models.QuestionAnalysis, error) {
	result, _, err := s.pipeline.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	result.ID = uuid.New()
	result.UserID = userID

	if err := s.repo.Create(ctx, &result); err != nil {
		return nil, &oracle.PersistenceError{Op: "save question analysis", Err: err}
	}
	return &result, nil
}

func (s *QuestionService) History(ctx context.Context, userID string, limit int) ([]models.QuestionAnalysis, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}
