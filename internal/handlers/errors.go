package handlers

import (
	"errors"

	"cropgenius-api/internal/models"
	"cropgenius-api/internal/oracle"
	"cropgenius-api/internal/repository"

	"github.com/gofiber/fiber/v3"
)

// respondError maps the typed error taxonomy onto HTTP statuses. The client
// can tell "model failed" (retry the whole call) apart from "save failed"
// (retry the save without re-running inference).
func respondError(c fiber.Ctx, err error) error {
	var validationErr *oracle.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).
			JSON(models.CreateErrorResponse("VALIDATION_ERROR", validationErr.Error()))
	}

	var inferenceErr *oracle.InferenceError
	if errors.As(err, &inferenceErr) {
		return c.Status(fiber.StatusBadGateway).
			JSON(models.CreateErrorResponse("INFERENCE_ERROR", inferenceErr.Error()))
	}

	var persistenceErr *oracle.PersistenceError
	if errors.As(err, &persistenceErr) {
		return c.Status(fiber.StatusInternalServerError).
			JSON(models.CreateErrorResponse("PERSISTENCE_ERROR", persistenceErr.Error()))
	}

	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).
			JSON(models.CreateErrorResponse("NOT_FOUND", "record not found"))
	}

	return c.Status(fiber.StatusInternalServerError).
		JSON(models.CreateErrorResponse("INTERNAL_ERROR", err.Error()))
}

// requireUserID reads the authenticated user from the gateway-injected
// header.
func requireUserID(c fiber.Ctx) (string, bool) {
	userID := c.Get("X-User-ID")
	return userID, userID != ""
}

func unauthorized(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).
		JSON(models.CreateErrorResponse("UNAUTHORIZED", "User ID is required"))
}
