package middleware

import (
	"slices"
	"strings"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/repository"
	"github.com/gofiber/fiber/v2"
)

// AdminRequired lets a request through when the caller's email is listed in
// ADMIN_EMAILS or the stored user has role "admin". Must run after
// JWTProtected.
func AdminRequired(users repository.UserRepository, cfg *config.Config) fiber.Handler {
	adminEmails := cfg.AdminEmailList()

	return func(c *fiber.Ctx) error {
		userID, err := UserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if slices.Contains(adminEmails, strings.ToLower(Email(c))) {
			return c.Next()
		}

		user, err := users.FindByID(c.UserContext(), userID)
		if err == nil && user.Role == "admin" {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

// IsAdmin reports whether the caller would pass AdminRequired.
func IsAdmin(c *fiber.Ctx, users repository.UserRepository, cfg *config.Config) bool {
	if slices.Contains(cfg.AdminEmailList(), strings.ToLower(Email(c))) {
		return true
	}
	userID, err := UserID(c)
	if err != nil {
		return false
	}
	user, err := users.FindByID(c.UserContext(), userID)
	return err == nil && user.Role == "admin"
}
