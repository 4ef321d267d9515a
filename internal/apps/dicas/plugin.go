package dicas

import (
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

type Plugin struct{}

func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) ID() string { return "dicas" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{
		&models.Dica{},
		&models.DicaSubtema{},
	}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, deps *apps.Deps) {
	h := NewHandler(NewService(deps.Store, deps.Temas))

	g := router.Group("/dicas")
	g.Get("/", h.List)
	g.Get("/especialistas", h.Specialists)
	g.Get("/tema/:tema/verificadas", h.Verified)
	g.Get("/tema/:tema/nao-verificadas", h.NotVerified)
	g.Get("/:id", h.Get)

	g.Post("/", deps.Auth, h.Create)
	g.Put("/:id", deps.Auth, h.Update)
	g.Patch("/:id/verificar", deps.Auth, h.Verify)
	g.Delete("/:id", deps.Auth, h.Delete)
}
