package apps

import (
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
)

// Deps are the shared resources every plugin receives when mounting its
// routes.
type Deps struct {
	Store   *repository.Store
	Config  *config.Config
	Storage storage.Storage
	Temas   *services.TemaService

	// Auth guards write routes; Admin must run after Auth.
	Auth  fiber.Handler
	Admin fiber.Handler
}

// Plugin defines the interface every resource module must implement.
type Plugin interface {
	// ID returns the unique module identifier.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts the module's routes on the /api group. Reads
	// are public, so writes must apply deps.Auth themselves.
	RegisterRoutes(router fiber.Router, deps *Deps)
}
