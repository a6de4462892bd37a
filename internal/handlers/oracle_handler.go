package handlers

import (
	"strconv"

	"cropgenius-api/internal/models"
	"cropgenius-api/internal/services"

	"github.com/gofiber/fiber/v3"
)

// OracleHandler exposes the three AI endpoints: diagnose, predict-yield,
// and ask, plus each one's per-user history.
type OracleHandler struct {
	diseaseService  *services.DiseaseService
	yieldService    *services.YieldService
	questionService *services.QuestionService
}

func NewOracleHandler(disease *services.DiseaseService, yield *services.YieldService, question *services.QuestionService) *OracleHandler {
	return &OracleHandler{
		diseaseService:  disease,
		yieldService:    yield,
		questionService: question,
	}
}

func (h *OracleHandler) RegisterRoutes(app *fiber.App) {
	gr := app.Group("/api/v1/ai")

	gr.Post("/diagnose", h.Diagnose)
	gr.Get("/diagnose/history", h.DiagnoseHistory)
	gr.Post("/predict-yield", h.PredictYield)
	gr.Get("/predict-yield/history", h.YieldHistory)
	gr.Post("/ask", h.Ask)
	gr.Get("/ask/history", h.AskHistory)
}

func (h *OracleHandler) Diagnose(c fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req models.DiagnoseRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(models.CreateErrorResponse("BAD_REQUEST", "Invalid request body"))
	}

	detection, cached, err := h.diseaseService.Diagnose(c.Context(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(models.CreateCachedResponse(detection, cached))
}

func (h *OracleHandler) DiagnoseHistory(c fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return unauthorized(c)
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	detections, err := h.diseaseService.History(c.Context(), userID, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(models.CreateSuccessResponse(detections))
}

func (h *OracleHandler) PredictYield(c fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req models.YieldRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(models.CreateErrorResponse("BAD_REQUEST", "Invalid request body"))
	}

	prediction, err := h.yieldService.Predict(c.Context(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(models.CreateSuccessResponse(prediction))
}

func (h *OracleHandler) YieldHistory(c fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return unauthorized(c)
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	predictions, err := h.yieldService.History(c.Context(), userID, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(models.CreateSuccessResponse(predictions))
}

func (h *OracleHandler) Ask(c fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req models.AskRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(models.CreateErrorResponse("BAD_REQUEST", "Invalid request body"))
	}

	analysis, err := h.questionService.Analyze(c.Context(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(models.CreateSuccessResponse(analysis))
}

func (h *OracleHandler) AskHistory(c fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return unauthorized(c)
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	analyses, err := h.questionService.History(c.Context(), userID, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(models.CreateSuccessResponse(analyses))
}
