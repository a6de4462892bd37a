package handlers

import (
	"strconv"

	"cropgenius-api/internal/models"
	"cropgenius-api/internal/services"

	"github.com/gofiber/fiber/v3"
)

type MarketHandler struct {
	marketService *services.MarketService
}

func NewMarketHandler(marketService *services.MarketService) *MarketHandler {
	return &MarketHandler{marketService: marketService}
}

func (h *MarketHandler) RegisterRoutes(app *fiber.App) {
	gr := app.Group("/api/v1/market")

	gr.Post("/listings", h.CreateListing)
	gr.Get("/prices", h.ListPrices)
	gr.Get("/trend", h.Trend)
}

func (h *MarketHandler) CreateListing(c fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req models.CreateListingRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(models.CreateErrorResponse("BAD_REQUEST", "Invalid request body"))
	}

	listing, err := h.marketService.CreateListing(c.Context(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.CreateSuccessResponse(listing))
}

func (h *MarketHandler) ListPrices(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	listings, err := h.marketService.ListPrices(c.Context(), c.Query("crop_type"), c.Query("region"), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(models.CreateSuccessResponse(listings))
}

func (h *MarketHandler) Trend(c fiber.Ctx) error {
	cropType := c.Query("crop_type")
	if cropType == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(models.CreateErrorResponse("BAD_REQUEST", "crop_type query parameter is required"))
	}

	summary, err := h.marketService.Trend(c.Context(), cropType, c.Query("region"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(models.CreateSuccessResponse(summary))
}
