package dicas

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/validation"
	"github.com/google/uuid"
)

var (
	ErrDicaNotFound   = apperr.NotFound("dica not found")
	ErrNoDicasForTema = apperr.NotFound("no dicas found for tema")
)

// Service runs every dica write inside one transaction, so a failure while
// resolving subtemas or inserting links never leaves a half-created dica.
type Service struct {
	store *repository.Store
	temas *services.TemaService
}

func NewService(store *repository.Store, temas *services.TemaService) *Service {
	return &Service{store: store, temas: temas}
}

// Create stores a dica authored by the user owning email. The specialist
// flag is copied from the author's monitor status and never changes.
func (s *Service) Create(ctx context.Context, email string, req *CreateRequest) (*DicaResponse, error) {
	if err := validation.Dica(req.Title, req.Content); err != nil {
		return nil, err
	}

	author, err := services.UserByEmail(ctx, s.store, email)
	if err != nil {
		return nil, err
	}
	tema, err := s.temas.ByName(ctx, req.Tema)
	if err != nil {
		return nil, err
	}
	names := services.UniqueNames(req.Subtemas)

	var id uuid.UUID
	err = s.store.WithinTx(ctx, func(tx *repository.Store) error {
		dica := &models.Dica{
			Title:                 strings.TrimSpace(req.Title),
			Content:               strings.TrimSpace(req.Content),
			AuthorID:              author.ID,
			TemaID:                tema.ID,
			IsCreatedBySpecialist: author.IsMonitor,
		}

		subtemaIDs, err := resolveSubtemas(ctx, tx, tema.ID, names)
		if err != nil {
			return err
		}
		if err := tx.Dicas.Create(ctx, dica); err != nil {
			return err
		}
		if err := tx.DicaSubtemas.CreateBatch(ctx, buildLinks(dica.ID, subtemaIDs, req.Assunto)); err != nil {
			return err
		}
		id = dica.ID
		return nil
	})
	if err != nil {
		return nil, services.RepoErr(err, nil, "failed to create dica")
	}

	slog.Info("dica created", "dica_id", id.String(), "tema", tema.Name, "subtemas", len(names))
	return s.Get(ctx, id)
}

// Update replaces content, tema and subtemas. New links are inserted first;
// when the resulting subtema set differs from the stored one every old link
// is deleted. An unchanged set leaves the links alone.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateRequest) (*DicaResponse, error) {
	var title string
	if req.Title != nil {
		title = *req.Title
	}
	if err := validation.Dica(title, req.Content); err != nil {
		return nil, err
	}

	current, err := s.store.Dicas.FindByID(ctx, id)
	if err != nil {
		return nil, services.RepoErr(err, ErrDicaNotFound, "failed to get dica")
	}

	temaID := current.TemaID
	if strings.TrimSpace(req.Tema) != "" {
		tema, err := s.temas.ByName(ctx, req.Tema)
		if err != nil {
			return nil, err
		}
		temaID = tema.ID
	}

	names := req.Subtemas
	if names == nil && temaID != current.TemaID {
		// Links must follow the tema, so carry the names over.
		for _, l := range current.Links {
			names = append(names, l.Subtema.Name)
		}
	}

	err = s.store.WithinTx(ctx, func(tx *repository.Store) error {
		fields := map[string]interface{}{
			"content": strings.TrimSpace(req.Content),
			"tema_id": temaID,
		}
		if req.Title != nil {
			fields["title"] = strings.TrimSpace(*req.Title)
		}
		if err := tx.Dicas.Update(ctx, id, fields); err != nil {
			return err
		}
		if names == nil {
			return nil
		}

		subtemaIDs, err := resolveSubtemas(ctx, tx, temaID, services.UniqueNames(names))
		if err != nil {
			return err
		}
		if sameSubtemas(current.Links, subtemaIDs) {
			return nil
		}

		oldIDs := make([]uuid.UUID, len(current.Links))
		for i, l := range current.Links {
			oldIDs[i] = l.ID
		}
		if err := tx.DicaSubtemas.CreateBatch(ctx, buildLinks(id, subtemaIDs, req.Assunto)); err != nil {
			return err
		}
		return tx.DicaSubtemas.DeleteByIDs(ctx, oldIDs)
	})
	if err != nil {
		return nil, services.RepoErr(err, ErrDicaNotFound, "failed to update dica")
	}
	return s.Get(ctx, id)
}

// Verify marks the dica as verified by a monitor. Verification is one-way:
// verifying again keeps the first verifier.
func (s *Service) Verify(ctx context.Context, id uuid.UUID, verifierEmail string) (*DicaResponse, error) {
	verifier, err := services.RequireMonitor(ctx, s.store, verifierEmail)
	if err != nil {
		return nil, err
	}

	var changed bool
	err = s.store.WithinTx(ctx, func(tx *repository.Store) error {
		var err error
		changed, err = tx.Dicas.MarkVerified(ctx, id, verifier.Email)
		return err
	})
	if err != nil {
		return nil, services.RepoErr(err, ErrDicaNotFound, "failed to verify dica")
	}

	if changed {
		slog.Info("dica verified", "dica_id", id.String(), "verified_by", verifier.Email)
	}
	return s.Get(ctx, id)
}

// Delete removes the links and then the dica.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.WithinTx(ctx, func(tx *repository.Store) error {
		if _, err := tx.Dicas.FindByID(ctx, id); err != nil {
			return err
		}
		if _, err := tx.DicaSubtemas.DeleteByDica(ctx, id); err != nil {
			return err
		}
		return tx.Dicas.Delete(ctx, id)
	})
	return services.RepoErr(err, ErrDicaNotFound, "failed to delete dica")
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*DicaResponse, error) {
	dica, err := s.store.Dicas.FindByID(ctx, id)
	if err != nil {
		return nil, services.RepoErr(err, ErrDicaNotFound, "failed to get dica")
	}
	resp := toResponse(dica)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]DicaResponse, error) {
	return s.find(ctx, repository.DicaFilter{})
}

// Specialists lists dicas written by monitors.
func (s *Service) Specialists(ctx context.Context) ([]DicaResponse, error) {
	specialist := true
	return s.find(ctx, repository.DicaFilter{Specialist: &specialist})
}

// ByTema lists linked dicas of a tema with the given verification state.
// A missing tema, or a tema without linked dicas, is NotFound.
func (s *Service) ByTema(ctx context.Context, temaName string, verified bool) ([]DicaResponse, error) {
	tema, err := s.temas.ByName(ctx, temaName)
	if err != nil {
		return nil, err
	}
	list, err := s.find(ctx, repository.DicaFilter{TemaID: &tema.ID, Verified: &verified, Linked: true})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNoDicasForTema
	}
	return list, nil
}

func (s *Service) find(ctx context.Context, f repository.DicaFilter) ([]DicaResponse, error) {
	list, err := s.store.Dicas.FindAll(ctx, f)
	if err != nil {
		return nil, services.RepoErr(err, nil, "failed to list dicas")
	}
	return toResponses(list), nil
}

func resolveSubtemas(ctx context.Context, tx *repository.Store, temaID uuid.UUID, names []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		sub, err := services.ResolveSubtemaStrict(ctx, tx, temaID, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, sub.ID)
	}
	return ids, nil
}

func buildLinks(dicaID uuid.UUID, subtemaIDs []uuid.UUID, assunto string) []models.DicaSubtema {
	links := make([]models.DicaSubtema, len(subtemaIDs))
	for i, sid := range subtemaIDs {
		links[i] = models.DicaSubtema{DicaID: dicaID, SubtemaID: sid, Assunto: strings.TrimSpace(assunto)}
	}
	return links
}

func sameSubtemas(links []models.DicaSubtema, ids []uuid.UUID) bool {
	current := make(map[uuid.UUID]struct{}, len(links))
	for _, l := range links {
		current[l.SubtemaID] = struct{}{}
	}
	if len(current) != len(ids) {
		return false
	}
	for _, id := range ids {
		if _, ok := current[id]; !ok {
			return false
		}
	}
	return true
}
