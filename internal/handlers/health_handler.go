package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db         *gorm.DB
	themeCount func() int
}

func NewHealthHandler(db *gorm.DB, themeCount func() int) *HealthHandler {
	return &HealthHandler{db: db, themeCount: themeCount}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status:     "ok",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		DB:         "ok",
		ThemeCount: h.themeCount(),
	}

	if err := database.Ping(h.db); err != nil {
		resp.Status = "degraded"
		resp.DB = "unreachable"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
