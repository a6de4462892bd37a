package handlers

import (
	"strconv"

	"cropgenius-api/internal/models"
	"cropgenius-api/internal/services"

	"github.com/gofiber/fiber/v3"
)

type WeatherHandler struct {
	weatherService *services.WeatherService
}

func NewWeatherHandler(weatherService *services.WeatherService) *WeatherHandler {
	return &WeatherHandler{weatherService: weatherService}
}

func (h *WeatherHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/v1/weather", h.GetInsight)
}

func (h *WeatherHandler) GetInsight(c fiber.Ctx) error {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(models.CreateErrorResponse("BAD_REQUEST", "lat and lon query parameters are required"))
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return c.Status(fiber.StatusBadRequest).
			JSON(models.CreateErrorResponse("BAD_REQUEST", "lat/lon out of range"))
	}

	insight, err := h.weatherService.GetInsight(c.Context(), lat, lon)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(models.CreateSuccessResponse(insight))
}
