package handlers

import (
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *services.UserService
	isAdmin     func(c *fiber.Ctx) bool
}

// NewUserHandler takes the admin check used to let admins delete any
// account.
func NewUserHandler(userService *services.UserService, isAdmin func(c *fiber.Ctx) bool) *UserHandler {
	return &UserHandler{userService: userService, isAdmin: isAdmin}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.userService.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := UUIDParam(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userService.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	actorID, err := CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := UUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}
	photo, err := FormFile(c, "fotoPerfil")
	if err != nil {
		return err
	}

	user, err := h.userService.Update(c.UserContext(), actorID, id, &req, photo)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	actorID, err := CurrentUserID(c)
	if err != nil {
		return err
	}
	id, err := UUIDParam(c, "id")
	if err != nil {
		return err
	}

	if actorID != id && !h.isAdmin(c) {
		return apperr.Forbidden("you can only delete your own account")
	}

	if err := h.userService.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetMonitor grants or revokes the verification privilege. Admin only.
func (h *UserHandler) SetMonitor(c *fiber.Ctx) error {
	id, err := UUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.MonitorRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody()
	}

	user, err := h.userService.SetMonitor(c.UserContext(), id, req.IsMonitor)
	if err != nil {
		return err
	}
	return c.JSON(user)
}
