package handlers

import (
	"cropgenius-api/internal/models"
	"cropgenius-api/internal/services"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type FarmHandler struct {
	farmService *services.FarmService
}

func NewFarmHandler(farmService *services.FarmService) *FarmHandler {
	return &FarmHandler{farmService: farmService}
}

func (h *FarmHandler) RegisterRoutes(app *fiber.App) {
	gr := app.Group("/api/v1/farms")

	gr.Post("/", h.Create)
	gr.Get("/", h.List)
	gr.Get("/:id", h.Get)
	gr.Put("/:id", h.Update)
	gr.Delete("/:id", h.Delete)
}

func (h *FarmHandler) Create(c fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return unauthorized(c)
	}

	var req models.CreateFarmRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(models.CreateErrorResponse("BAD_REQUEST", "Invalid request body"))
	}

	farm, err := h.farmService.Create(c.Context(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.CreateSuccessResponse(farm))
}

func (h *FarmHandler) List(c fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return unauthorized(c)
	}

	farms, err := h.farmService.List(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(models.CreateSuccessResponse(farms))
}

func (h *FarmHandler) Get(c fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(models.CreateErrorResponse("BAD_REQUEST", "Invalid farm ID"))
	}

	farm, err := h.farmService.Get(c.Context(), id, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(models.CreateSuccessResponse(farm))
}

func (h *FarmHandler) Update(c fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(models.CreateErrorResponse("BAD_REQUEST", "Invalid farm ID"))
	}

	var req models.CreateFarmRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(models.CreateErrorResponse("BAD_REQUEST", "Invalid request body"))
	}

	farm, err := h.farmService.Update(c.Context(), id, userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(models.CreateSuccessResponse(farm))
}

func (h *FarmHandler) Delete(c fiber.Ctx) error {
	userID, ok := requireUserID(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(models.CreateErrorResponse("BAD_REQUEST", "Invalid farm ID"))
	}

	if err := h.farmService.Delete(c.Context(), id, userID); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(models.CreateSuccessResponse(fiber.Map{"deleted": true}))
}
