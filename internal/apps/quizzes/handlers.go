package quizzes

import (
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/handlers"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List accepts an optional ?app= filter.
func (h *Handler) List(c *fiber.Ctx) error {
	list, err := h.service.List(c.UserContext(), c.Query("app"))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := handlers.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	q, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(q)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	q, err := h.service.Create(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(q)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := handlers.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	q, err := h.service.Update(c.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(q)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := handlers.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
