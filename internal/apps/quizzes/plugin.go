package quizzes

import (
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

type Plugin struct{}

func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) ID() string { return "quizzes" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{&models.Quiz{}}
}

// RegisterRoutes keeps quiz authoring behind the admin check.
func (p *Plugin) RegisterRoutes(router fiber.Router, deps *apps.Deps) {
	h := NewHandler(NewService(deps.Store))

	g := router.Group("/quizzes")
	g.Get("/", h.List)
	g.Get("/:id", h.Get)

	g.Post("/", deps.Auth, deps.Admin, h.Create)
	g.Put("/:id", deps.Auth, deps.Admin, h.Update)
	g.Delete("/:id", deps.Auth, deps.Admin, h.Delete)
}
