package handlers

import (
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TemaHandler struct {
	temaService *services.TemaService
}

func NewTemaHandler(temaService *services.TemaService) *TemaHandler {
	return &TemaHandler{temaService: temaService}
}

func (h *TemaHandler) List(c *fiber.Ctx) error {
	temas, err := h.temaService.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(temas)
}

func (h *TemaHandler) Get(c *fiber.Ctx) error {
	id, err := UUIDParam(c, "id")
	if err != nil {
		return err
	}
	tema, err := h.temaService.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(tema)
}

func (h *TemaHandler) Create(c *fiber.Ctx) error {
	var req dto.TemaRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	tema, err := h.temaService.Create(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(tema)
}

func (h *TemaHandler) Update(c *fiber.Ctx) error {
	id, err := UUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.TemaRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	tema, err := h.temaService.Update(c.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(tema)
}

func (h *TemaHandler) Delete(c *fiber.Ctx) error {
	id, err := UUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.temaService.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListByTema serves /temas/:id/subtemas.
func (h *TemaHandler) ListByTema(c *fiber.Ctx) error {
	id, err := UUIDParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.temaService.Get(c.UserContext(), id); err != nil {
		return err
	}
	subtemas, err := h.temaService.ListSubtemas(c.UserContext(), &id)
	if err != nil {
		return err
	}
	return c.JSON(subtemas)
}

// ListSubtemas accepts an optional ?temaId= filter.
func (h *TemaHandler) ListSubtemas(c *fiber.Ctx) error {
	var temaID *uuid.UUID
	if raw := c.Query("temaId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return invalidQuery("temaId")
		}
		temaID = &id
	}
	subtemas, err := h.temaService.ListSubtemas(c.UserContext(), temaID)
	if err != nil {
		return err
	}
	return c.JSON(subtemas)
}

func (h *TemaHandler) GetSubtema(c *fiber.Ctx) error {
	id, err := UUIDParam(c, "id")
	if err != nil {
		return err
	}
	subtema, err := h.temaService.GetSubtema(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(subtema)
}

func (h *TemaHandler) CreateSubtema(c *fiber.Ctx) error {
	var req dto.SubtemaRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	subtema, err := h.temaService.CreateSubtema(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(subtema)
}

func (h *TemaHandler) UpdateSubtema(c *fiber.Ctx) error {
	id, err := UUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.SubtemaRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	subtema, err := h.temaService.UpdateSubtema(c.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(subtema)
}

func (h *TemaHandler) DeleteSubtema(c *fiber.Ctx) error {
	id, err := UUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.temaService.DeleteSubtema(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
