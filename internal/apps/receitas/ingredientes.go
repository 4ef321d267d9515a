package receitas

import (
	"context"
	"strings"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/validation"
	"github.com/google/uuid"
)

var ErrIngredienteNotFound = apperr.NotFound("ingrediente not found")

// IngredienteService is the standalone CRUD over ingredientes. New rows are
// always created under an existing receita.
type IngredienteService struct {
	store *repository.Store
}

func NewIngredienteService(store *repository.Store) *IngredienteService {
	return &IngredienteService{store: store}
}

func (s *IngredienteService) List(ctx context.Context, receitaID *uuid.UUID) ([]models.Ingrediente, error) {
	list, err := s.store.Ingredientes.FindAll(ctx, receitaID)
	if err != nil {
		return nil, services.RepoErr(err, nil, "failed to list ingredientes")
	}
	return list, nil
}

func (s *IngredienteService) Get(ctx context.Context, id uuid.UUID) (*models.Ingrediente, error) {
	ing, err := s.store.Ingredientes.FindByID(ctx, id)
	if err != nil {
		return nil, services.RepoErr(err, ErrIngredienteNotFound, "failed to get ingrediente")
	}
	return ing, nil
}

func (s *IngredienteService) Create(ctx context.Context, receitaID uuid.UUID, req *IngredienteRequest) (*models.Ingrediente, error) {
	if err := validation.Ingredient(req.Name, req.Quantity, req.Unit); err != nil {
		return nil, err
	}
	if _, err := s.store.Receitas.FindByID(ctx, receitaID); err != nil {
		return nil, services.RepoErr(err, ErrReceitaNotFound, "failed to get receita")
	}

	ing := &models.Ingrediente{
		ReceitaID: receitaID,
		Name:      strings.TrimSpace(req.Name),
		Quantity:  req.Quantity,
		Unit:      strings.TrimSpace(req.Unit),
	}
	if err := s.store.Ingredientes.Create(ctx, ing); err != nil {
		return nil, services.RepoErr(err, nil, "failed to create ingrediente")
	}
	return ing, nil
}

func (s *IngredienteService) Update(ctx context.Context, id uuid.UUID, req *IngredienteRequest) (*models.Ingrediente, error) {
	if err := validation.Ingredient(req.Name, req.Quantity, req.Unit); err != nil {
		return nil, err
	}
	err := s.store.Ingredientes.Update(ctx, id, map[string]interface{}{
		"name":     strings.TrimSpace(req.Name),
		"quantity": req.Quantity,
		"unit":     strings.TrimSpace(req.Unit),
	})
	if err != nil {
		return nil, services.RepoErr(err, ErrIngredienteNotFound, "failed to update ingrediente")
	}
	return s.Get(ctx, id)
}

func (s *IngredienteService) Delete(ctx context.Context, id uuid.UUID) error {
	return services.RepoErr(s.store.Ingredientes.Delete(ctx, id), ErrIngredienteNotFound, "failed to delete ingrediente")
}
