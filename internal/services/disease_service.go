package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cropgenius-api/internal/ai/gemini"
	"cropgenius-api/internal/event"
	"cropgenius-api/internal/models"
	"cropgenius-api/internal/oracle"

	"github.com/google/uuid"
)

const diseaseSourceAPI = "gemini-2.5-pro"

type detectionStore interface {
	Create(ctx context.Context, detection *models.DiseaseDetection) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.DiseaseDetection, error)
}

type scanImageStore interface {
	UploadScanImage(ctx context.Context, userID string, data []byte, contentType string) (string, error)
}

type diseaseAlertPublisher interface {
	PublishDiseaseAlert(ctx context.Context, alert event.DiseaseAlertEvent) error
}

// DiseaseService diagnoses crop diseases from photos. It is the one oracle
// domain with a cache: repeated scans of the same subject in the same
// vicinity short-circuit the model call.
type DiseaseService struct {
	pipeline *oracle.Pipeline[*models.DiagnoseRequest, models.DiseaseDetection]
	repo     detectionStore
	images   scanImageStore
	alerts   diseaseAlertPublisher
}

func NewDiseaseService(client oracle.InferenceClient, cache oracle.Cache, cacheTTL time.Duration, repo detectionStore, images scanImageStore, alerts diseaseAlertPublisher) *DiseaseService {
	domain := oracle.Domain[*models.DiagnoseRequest, models.DiseaseDetection]{
		Name: "disease-diagnosis",
		Validate: func(req *models.DiagnoseRequest) error {
			return req.Validate()
		},
		BuildPrompt: buildDiseasePrompt,
		Images: func(req *models.DiagnoseRequest) []string {
			return []string{req.ImageBase64}
		},
		CacheKey:  diseaseCacheKey,
		CacheTTL:  cacheTTL,
		Normalize: normalizeDiseaseResult,
	}
	return &DiseaseService{
		pipeline: oracle.NewPipeline(domain, client, cache),
		repo:     repo,
		images:   images,
		alerts:   alerts,
	}
}

func buildDiseasePrompt(req *models.DiagnoseRequest) string {
	location := "Not specified"
	if req.Latitude != nil && req.Longitude != nil {
		location = fmt.Sprintf("latitude %.4f, longitude %.4f", *req.Latitude, *req.Longitude)
	}
	return fmt.Sprintf(gemini.DiseaseDiagnosisPromptTemplate, req.CropType, location)
}

// diseaseCacheKey is content-addressable: hash of the image bytes, the crop
// type, and the coordinates rounded to ~1.1 km buckets.
func diseaseCacheKey(req *models.DiagnoseRequest) string {
	imageBytes, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		imageBytes = []byte(req.ImageBase64)
	}
	hash := sha256.Sum256(imageBytes)

	lat, lng := "na", "na"
	if req.Latitude != nil && req.Longitude != nil {
		lat = oracle.CoarseCoord(*req.Latitude)
		lng = oracle.CoarseCoord(*req.Longitude)
	}
	return fmt.Sprintf("disease:%x:%s:%s:%s", hash, req.CropType, lat, lng)
}

func normalizeDiseaseResult(partial map[string]any, req *models.DiagnoseRequest, elapsed time.Duration) models.DiseaseDetection {
	expertFallback := models.StringList{"Consult agricultural expert"}

	detection := models.DiseaseDetection{
		CropType:            req.CropType,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		Confidence:          oracle.ClampNum(partial, "confidence", 0, 100, 60),
		Severity:            models.Severity(oracle.Enum(partial, "severity", models.Severities, string(models.SeverityMedium))),
		AffectedAreaPercent: oracle.ClampNum(partial, "affected_area_percent", 0, 100, 25),
		SpreadRisk:          models.SpreadRisk(oracle.Enum(partial, "spread_risk", models.SpreadRisks, string(models.SpreadRiskMedium))),
		SourceAPI:           diseaseSourceAPI,
		ProcessingTimeMs:    stampProcessingTime(partial, elapsed),
		Timestamp:           stampTimestamp(partial),
	}

	if name, ok := oracle.Str(partial, "disease_name"); ok {
		detection.DiseaseName = name
	} else {
		detection.DiseaseName = "Unknown Disease"
	}
	if sci, ok := oracle.Str(partial, "scientific_name"); ok {
		detection.ScientificName = sci
	}
	if timeline, ok := oracle.Str(partial, "recovery_timeline"); ok {
		detection.RecoveryTimeline = timeline
	} else {
		detection.RecoveryTimeline = "2-4 weeks with appropriate treatment"
	}

	detection.Symptoms = strSliceOrDefault(partial, "symptoms", models.StringList{"Visual symptoms unclear from photo"})
	detection.ImmediateActions = strSliceOrDefault(partial, "immediate_actions", expertFallback)
	detection.PreventiveMeasures = strSliceOrDefault(partial, "preventive_measures", models.StringList{"Practice crop rotation and field hygiene"})
	detection.RecommendedProducts = strSliceOrDefault(partial, "recommended_products", expertFallback)

	return detection
}

// Diagnose runs the full diagnosis pipeline for one photo and persists the
// result under the requesting user. The returned bool reports a cache hit.
func (s *DiseaseService) Diagnose(ctx context.Context, userID string, req *models.DiagnoseRequest) (*models.DiseaseDetection, bool, error) {
	if err := req.Validate(); err != nil {
		return nil, false, err
	}

	// Upload the scan before inference so the record links to the stored
	// image. Best effort: a failed upload degrades to a record without an
	// image link.
	if s.images != nil {
		imageBytes, _ := base64.StdEncoding.DecodeString(req.ImageBase64)
		contentType := http.DetectContentType(imageBytes)
		url, err := s.images.UploadScanImage(ctx, userID, imageBytes, contentType)
		if err != nil {
			slog.Warn("scan image upload failed, continuing without image URL", "error", err)
		} else {
			req.ImageURL = &url
		}
	}

	result, cached, err := s.pipeline.Run(ctx, req)
	if err != nil {
		return nil, false, err
	}

	// Each diagnosis gets its own row, cached or not, so the user's scan
	// history is complete. Identity and request-scoped fields are stamped
	// here, never cached: the cache key is content-addressable, so a hit
	// may have been produced by a different user's scan.
	result.ID = uuid.New()
	result.UserID = userID
	result.ImageURL = req.ImageURL
	result.FarmID = nil
	if farmID, err := uuid.Parse(req.FarmID); err == nil {
		result.FarmID = &farmID
	}

	if err := s.repo.Create(ctx, &result); err != nil {
		return nil, cached, &oracle.PersistenceError{Op: "save disease detection", Err: err}
	}

	s.publishAlertIfSevere(ctx, &result)

	return &result, cached, nil
}

func (s *DiseaseService) publishAlertIfSevere(ctx context.Context, detection *models.DiseaseDetection) {
	if s.alerts == nil {
		return
	}
	if detection.Severity != models.SeverityHigh && detection.Severity != models.SeverityCritical {
		return
	}
	alert := event.DiseaseAlertEvent{
		UserID:      detection.UserID,
		CropType:    detection.CropType,
		DiseaseName: detection.DiseaseName,
		Severity:    string(detection.Severity),
		SpreadRisk:  string(detection.SpreadRisk),
		Latitude:    detection.Latitude,
		Longitude:   detection.Longitude,
		DetectedAt:  detection.Timestamp,
	}
	if detection.FarmID != nil {
		alert.FarmID = detection.FarmID.String()
	}
	if err := s.alerts.PublishDiseaseAlert(ctx, alert); err != nil {
		slog.Warn("disease alert publish failed", "disease", detection.DiseaseName, "error", err)
	}
}

func (s *DiseaseService) History(ctx context.Context, userID string, limit int) ([]models.DiseaseDetection, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}
