package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/validation"
	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"
)

// TemaService owns temas and subtemas. Tema lookups by name are cached;
// subtemas are not, since they are created inside transactions that may
// roll back.
type TemaService struct {
	store   *repository.Store
	catalog *catalog.Registry
	cache   *ristretto.Cache[string, models.Tema]
}

func NewTemaService(store *repository.Store, cat *catalog.Registry) (*TemaService, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, models.Tema]{
		NumCounters: 10_000,
		MaxCost:     1_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tema cache: %w", err)
	}
	return &TemaService{store: store, catalog: cat, cache: c}, nil
}

func (s *TemaService) Close() {
	s.cache.Close()
}

// InCatalog reports whether name is one of the fixed theme codes.
func (s *TemaService) InCatalog(name string) bool {
	return s.catalog.Exists(name)
}

func (s *TemaService) CatalogSize() int {
	return len(s.catalog.All())
}

// ByName resolves a tema by name through the cache.
func (s *TemaService) ByName(ctx context.Context, name string) (*models.Tema, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTemaNotFound
	}
	if tema, ok := s.cache.Get(name); ok {
		return &tema, nil
	}

	tema, err := s.store.Temas.FindByName(ctx, name)
	if err != nil {
		return nil, RepoErr(err, ErrTemaNotFound, "failed to get tema")
	}
	s.cache.Set(name, *tema, 1)
	return tema, nil
}

func (s *TemaService) List(ctx context.Context) ([]models.Tema, error) {
	temas, err := s.store.Temas.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list temas")
	}
	return temas, nil
}

func (s *TemaService) Get(ctx context.Context, id uuid.UUID) (*models.Tema, error) {
	tema, err := s.store.Temas.FindByID(ctx, id)
	if err != nil {
		return nil, RepoErr(err, ErrTemaNotFound, "failed to get tema")
	}
	return tema, nil
}

func validateName(field, name string) error {
	var errs validation.Errors
	if errs.Required(field, name) {
		errs.Length(field, name, 1, 100)
	}
	return errs.Err("invalid " + field)
}

func (s *TemaService) Create(ctx context.Context, req *dto.TemaRequest) (*models.Tema, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateName("nome", name); err != nil {
		return nil, err
	}
	tema := models.Tema{Name: name, Description: req.Description}
	if err := s.store.Temas.Create(ctx, &tema); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("tema already exists")
		}
		return nil, apperr.Internal(err, "failed to create tema")
	}
	return &tema, nil
}

func (s *TemaService) Update(ctx context.Context, id uuid.UUID, req *dto.TemaRequest) (*models.Tema, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{"description": req.Description}
	if name := strings.TrimSpace(req.Name); name != "" {
		if err := validateName("nome", name); err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if err := s.store.Temas.Update(ctx, id, fields); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("tema already exists")
		}
		return nil, RepoErr(err, ErrTemaNotFound, "failed to update tema")
	}
	s.cache.Del(current.Name)
	return s.Get(ctx, id)
}

func (s *TemaService) Delete(ctx context.Context, id uuid.UUID) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Temas.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return apperr.Conflict("tema still has subtemas or content")
		}
		return RepoErr(err, ErrTemaNotFound, "failed to delete tema")
	}
	s.cache.Del(current.Name)
	return nil
}

func (s *TemaService) ListSubtemas(ctx context.Context, temaID *uuid.UUID) ([]models.Subtema, error) {
	if temaID != nil {
		if _, err := s.Get(ctx, *temaID); err != nil {
			return nil, err
		}
	}
	subs, err := s.store.Subtemas.FindAll(ctx, temaID)
	if err != nil {
		return nil, apperr.Internal(err, "failed to list subtemas")
	}
	return subs, nil
}

func (s *TemaService) GetSubtema(ctx context.Context, id uuid.UUID) (*models.Subtema, error) {
	sub, err := s.store.Subtemas.FindByID(ctx, id)
	if err != nil {
		return nil, RepoErr(err, ErrSubtemaNotFound, "failed to get subtema")
	}
	return sub, nil
}

func (s *TemaService) CreateSubtema(ctx context.Context, req *dto.SubtemaRequest) (*models.Subtema, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateName("nome", name); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, req.TemaID); err != nil {
		return nil, err
	}
	sub := models.Subtema{TemaID: req.TemaID, Name: name, Description: req.Description}
	if err := s.store.Subtemas.Create(ctx, &sub); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("subtema already exists in this tema")
		}
		return nil, apperr.Internal(err, "failed to create subtema")
	}
	return &sub, nil
}

// UpdateSubtema renames or re-describes a subtema. Moving it to another tema
// is not supported.
func (s *TemaService) UpdateSubtema(ctx context.Context, id uuid.UUID, req *dto.SubtemaRequest) (*models.Subtema, error) {
	current, err := s.GetSubtema(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.TemaID != uuid.Nil && req.TemaID != current.TemaID {
		return nil, apperr.BadRequest("subtema cannot change tema")
	}

	fields := map[string]interface{}{"description": req.Description}
	if name := strings.TrimSpace(req.Name); name != "" {
		if err := validateName("nome", name); err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if err := s.store.Subtemas.Update(ctx, id, fields); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("subtema already exists in this tema")
		}
		return nil, RepoErr(err, ErrSubtemaNotFound, "failed to update subtema")
	}
	return s.GetSubtema(ctx, id)
}

func (s *TemaService) DeleteSubtema(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Subtemas.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return apperr.Conflict("subtema is still linked to content")
		}
		return RepoErr(err, ErrSubtemaNotFound, "failed to delete subtema")
	}
	return nil
}

// ResolveSubtemaStrict finds a subtema by name within temaID, creating it
// when the name is unused. A name that already belongs to another tema is a
// conflict.
func ResolveSubtemaStrict(ctx context.Context, store *repository.Store, temaID uuid.UUID, name string) (*models.Subtema, error) {
	sub, err := store.Subtemas.FindByName(ctx, temaID, name)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal(err, "failed to look up subtema")
	}

	others, err := store.Subtemas.FindByNameAnyTema(ctx, name)
	if err != nil {
		return nil, apperr.Internal(err, "failed to look up subtema")
	}
	if len(others) > 0 {
		return nil, apperr.Conflict(fmt.Sprintf("subtema %q belongs to another tema", name))
	}

	sub, _, err = store.Subtemas.FindOrCreate(ctx, temaID, name)
	if err != nil {
		return nil, apperr.Internal(err, "failed to create subtema")
	}
	return sub, nil
}

// EnsureSubtema is the lenient variant: find-or-create by (temaID, name).
func EnsureSubtema(ctx context.Context, store *repository.Store, temaID uuid.UUID, name string) (*models.Subtema, error) {
	sub, _, err := store.Subtemas.FindOrCreate(ctx, temaID, name)
	if err != nil {
		return nil, apperr.Internal(err, "failed to resolve subtema")
	}
	return sub, nil
}

// UniqueNames trims names, drops blanks and duplicates, keeping first-seen
// order.
func UniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		result = append(result, n)
	}
	return result
}
