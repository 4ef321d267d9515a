package dicas

import (
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func callerEmail(c *fiber.Ctx) (string, error) {
	email := middleware.Email(c)
	if email == "" {
		return "", apperr.Unauthorized("Unauthorized")
	}
	return email, nil
}

func (h *Handler) List(c *fiber.Ctx) error {
	list, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *Handler) Specialists(c *fiber.Ctx) error {
	list, err := h.service.Specialists(c.UserContext())
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
	dica, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dica)
}

func (h *Handler) Verified(c *fiber.Ctx) error {
	return h.byTema(c, true)
}

func (h *Handler) NotVerified(c *fiber.Ctx) error {
	return h.byTema(c, false)
}

func (h *Handler) byTema(c *fiber.Ctx, verified bool) error {
	list, err := h.service.ByTema(c.UserContext(), c.Params("tema"), verified)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	email, err := callerEmail(c)
	if err != nil {
		return err
	}
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	dica, err := h.service.Create(c.UserContext(), email, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dica)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := handlers.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	dica, err := h.service.Update(c.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(dica)
}

func (h *Handler) Verify(c *fiber.Ctx) error {
	email, err := callerEmail(c)
	if err != nil {
		return err
	}
	id, err := handlers.UUIDParam(c, "id")
	if err != nil {
		return err
	}

	dica, err := h.service.Verify(c.UserContext(), id, email)
	if err != nil {
		return err
	}
	return c.JSON(dica)
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
