package receitas

import (
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

type Plugin struct{}

func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) ID() string { return "receitas" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{
		&models.Receita{},
		&models.ReceitaSubtema{},
		&models.ReceitaFoto{},
		&models.Ingrediente{},
	}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, deps *apps.Deps) {
	h := NewHandler(
		NewService(deps.Store, deps.Temas, deps.Storage),
		NewIngredienteService(deps.Store),
	)

	r := router.Group("/receitas")
	r.Get("/", h.List)
	r.Get("/tema/:tema", h.ByTema)
	r.Get("/tema/:tema/verificadas", h.Verified)
	r.Get("/tema/:tema/nao-verificadas", h.NotVerified)
	r.Get("/tema/:tema/subtemas", h.BySubtemas)
	r.Get("/:id", h.Get)

	r.Post("/", deps.Auth, h.Create)
	r.Put("/:id", deps.Auth, h.Update)
	r.Patch("/:id/verificar", deps.Auth, h.Verify)
	r.Delete("/:id", deps.Auth, h.Delete)
	r.Post("/:id/ingredientes", deps.Auth, h.AddIngrediente)

	i := router.Group("/ingredientes")
	i.Get("/", h.ListIngredientes)
	i.Get("/:id", h.GetIngrediente)
	i.Put("/:id", deps.Auth, h.UpdateIngrediente)
	i.Delete("/:id", deps.Auth, h.DeleteIngrediente)
}
