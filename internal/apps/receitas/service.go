package receitas

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/storage"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/validation"
	"github.com/google/uuid"
)

var (
	ErrReceitaNotFound = apperr.NotFound("receita not found")
	ErrEmptyUpdate     = apperr.BadRequest("titulo, conteudo or fotos must be provided")
)

// Service runs receita writes step by step. Subtemas and links are upserted
// by natural key so a retried request converges; ingredientes inserted
// before an invalid one stay persisted. Uploaded photos are removed again
// whenever the call fails.
type Service struct {
	store   *repository.Store
	temas   *services.TemaService
	storage storage.Storage
	now     func() time.Time
}

func NewService(store *repository.Store, temas *services.TemaService, st storage.Storage) *Service {
	return &Service{store: store, temas: temas, storage: st, now: time.Now}
}

func parseTemaID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid receita", validation.Errors{{Field: "temaId", Message: "must be a valid id"}})
	}
	return id, nil
}

// Create stores a receita authored by the user owning email, then links its
// subtemas, inserts its ingredientes and uploads its photos in that order.
func (s *Service) Create(ctx context.Context, email string, req *ReceitaRequest, photos []storage.Object) (*ReceitaResponse, error) {
	names := services.UniqueNames(req.Subtemas)

	var errs validation.Errors
	errs.Required("titulo", req.Title)
	errs.Required("conteudo", req.Content)
	errs.Required("temaId", req.TemaID)
	if len(names) == 0 {
		errs.Add("subtemas", "at least one subtema is required")
	}
	if len(photos) > validation.MaxRecipePhotos {
		errs.Add("fotos", fmt.Sprintf("at most %d photos allowed", validation.MaxRecipePhotos))
	}
	if err := errs.Err("invalid receita"); err != nil {
		return nil, err
	}
	temaID, err := parseTemaID(req.TemaID)
	if err != nil {
		return nil, err
	}

	author, err := services.UserByEmail(ctx, s.store, email)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Temas.FindByID(ctx, temaID); err != nil {
		return nil, services.RepoErr(err, services.ErrTemaNotFound, "failed to get tema")
	}

	tracker := storage.NewTracker(s.storage)
	defer tracker.Rollback(ctx)

	receita := &models.Receita{
		Title:    strings.TrimSpace(req.Title),
		Content:  strings.TrimSpace(req.Content),
		AuthorID: author.ID,
		TemaID:   temaID,
	}
	if err := s.store.Receitas.Create(ctx, receita); err != nil {
		return nil, services.RepoErr(err, nil, "failed to create receita")
	}

	if err := s.linkSubtemas(ctx, receita.ID, temaID, names, req.Assunto); err != nil {
		return nil, err
	}
	if err := s.insertIngredientes(ctx, receita.ID, req.Ingredientes); err != nil {
		return nil, err
	}
	if err := s.attachPhotos(ctx, tracker, receita.ID, photos); err != nil {
		return nil, err
	}

	tracker.Commit()
	slog.Info("receita created", "receita_id", receita.ID.String(), "fotos", len(photos))
	return s.Get(ctx, receita.ID)
}

// Update changes the fields present in req. Supplied subtemas replace the
// stored links; without them a tema change moves the stored subtema names
// to the new tema. Supplied ingredientes replace the stored ones.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *ReceitaRequest, photos []storage.Object) (*ReceitaResponse, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" && content == "" && len(photos) == 0 {
		return nil, ErrEmptyUpdate
	}
	if len(photos) > validation.MaxRecipePhotos {
		return nil, apperr.BadRequest(fmt.Sprintf("at most %d photos allowed", validation.MaxRecipePhotos))
	}

	current, err := s.store.Receitas.FindByID(ctx, id)
	if err != nil {
		return nil, services.RepoErr(err, ErrReceitaNotFound, "failed to get receita")
	}

	temaID := current.TemaID
	if strings.TrimSpace(req.TemaID) != "" {
		if temaID, err = parseTemaID(req.TemaID); err != nil {
			return nil, err
		}
		if _, err := s.store.Temas.FindByID(ctx, temaID); err != nil {
			return nil, services.RepoErr(err, services.ErrTemaNotFound, "failed to get tema")
		}
	}

	tracker := storage.NewTracker(s.storage)
	defer tracker.Rollback(ctx)

	fields := map[string]interface{}{"tema_id": temaID}
	if title != "" {
		fields["title"] = title
	}
	if content != "" {
		fields["content"] = content
	}
	if err := s.store.Receitas.Update(ctx, id, fields); err != nil {
		return nil, services.RepoErr(err, ErrReceitaNotFound, "failed to update receita")
	}

	names := services.UniqueNames(req.Subtemas)
	switch {
	case len(names) > 0:
		if _, err := s.store.ReceitaSubtemas.DeleteByReceita(ctx, id); err != nil {
			return nil, services.RepoErr(err, nil, "failed to replace receita subtemas")
		}
		if err := s.linkSubtemas(ctx, id, temaID, names, req.Assunto); err != nil {
			return nil, err
		}
	case temaID != current.TemaID && len(current.Links) > 0:
		// Links must follow the tema: rebind each name under the new one.
		if _, err := s.store.ReceitaSubtemas.DeleteByReceita(ctx, id); err != nil {
			return nil, services.RepoErr(err, nil, "failed to replace receita subtemas")
		}
		for _, l := range current.Links {
			if err := s.link(ctx, id, temaID, l.Subtema.Name, l.Assunto); err != nil {
				return nil, err
			}
		}
	}

	if req.Ingredientes != nil {
		if _, err := s.store.Ingredientes.DeleteByReceita(ctx, id); err != nil {
			return nil, services.RepoErr(err, nil, "failed to replace ingredientes")
		}
		if err := s.insertIngredientes(ctx, id, req.Ingredientes); err != nil {
			return nil, err
		}
	}

	if err := s.attachPhotos(ctx, tracker, id, photos); err != nil {
		return nil, err
	}

	tracker.Commit()
	return s.Get(ctx, id)
}

// Verify marks the receita as verified by a monitor. Verification is
// one-way: verifying again keeps the first verifier.
func (s *Service) Verify(ctx context.Context, id uuid.UUID, verifierEmail string) (*ReceitaResponse, error) {
	verifier, err := services.RequireMonitor(ctx, s.store, verifierEmail)
	if err != nil {
		return nil, err
	}
	changed, err := s.store.Receitas.MarkVerified(ctx, id, verifier.Email)
	if err != nil {
		return nil, services.RepoErr(err, ErrReceitaNotFound, "failed to verify receita")
	}

	if changed {
		slog.Info("receita verified", "receita_id", id.String(), "verified_by", verifier.Email)
	}
	return s.Get(ctx, id)
}

// Delete removes the receita with its links, ingredientes and photo rows in
// one transaction, then removes the photo objects.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	receita, err := s.store.Receitas.FindByID(ctx, id)
	if err != nil {
		return services.RepoErr(err, ErrReceitaNotFound, "failed to get receita")
	}

	err = s.store.WithinTx(ctx, func(tx *repository.Store) error {
		if _, err := tx.ReceitaSubtemas.DeleteByReceita(ctx, id); err != nil {
			return err
		}
		if _, err := tx.Ingredientes.DeleteByReceita(ctx, id); err != nil {
			return err
		}
		if _, err := tx.ReceitaFotos.DeleteByReceita(ctx, id); err != nil {
			return err
		}
		return tx.Receitas.Delete(ctx, id)
	})
	if err != nil {
		return services.RepoErr(err, ErrReceitaNotFound, "failed to delete receita")
	}

	cleanup := context.WithoutCancel(ctx)
	for _, f := range receita.Fotos {
		if err := s.storage.Remove(cleanup, storage.BucketRecipePhotos, f.Key); err != nil {
			slog.Error("failed to remove receita photo",
				"action", "storage_cleanup",
				"receita_id", id.String(),
				"key", f.Key,
				"error", err,
			)
		}
	}
	return nil
}

// Get returns the receita with author and verifier names filled in.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ReceitaResponse, error) {
	receita, err := s.store.Receitas.FindByID(ctx, id)
	if err != nil {
		return nil, services.RepoErr(err, ErrReceitaNotFound, "failed to get receita")
	}
	resp := toResponse(receita)
	resp.AuthorName = receita.Author.Name
	if receita.VerifyBy != nil {
		if verifier, err := s.store.Users.FindByEmail(ctx, *receita.VerifyBy); err == nil {
			resp.VerifierName = verifier.Name
		}
	}
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]ReceitaResponse, error) {
	return s.find(ctx, repository.ReceitaFilter{})
}

// ByTema lists receitas linked to a catalog tema. A nil verified lists both
// states.
func (s *Service) ByTema(ctx context.Context, temaName string, verified *bool) ([]ReceitaResponse, error) {
	tema, err := s.catalogTema(ctx, temaName)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, repository.ReceitaFilter{TemaID: &tema.ID, Verified: verified})
}

// BySubtemas lists receitas of a catalog tema linked to any of names.
func (s *Service) BySubtemas(ctx context.Context, temaName string, names []string) ([]ReceitaResponse, error) {
	names = services.UniqueNames(names)
	if len(names) == 0 {
		return nil, apperr.BadRequest("at least one subtema is required")
	}
	tema, err := s.catalogTema(ctx, temaName)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, repository.ReceitaFilter{TemaID: &tema.ID, SubtemaNames: names})
}

func (s *Service) catalogTema(ctx context.Context, name string) (*models.Tema, error) {
	if !s.temas.InCatalog(name) {
		return nil, apperr.BadRequest(fmt.Sprintf("invalid tema %q", name))
	}
	return s.temas.ByName(ctx, name)
}

func (s *Service) find(ctx context.Context, f repository.ReceitaFilter) ([]ReceitaResponse, error) {
	list, err := s.store.Receitas.FindAll(ctx, f)
	if err != nil {
		return nil, services.RepoErr(err, nil, "failed to list receitas")
	}
	return toResponses(list), nil
}

func (s *Service) linkSubtemas(ctx context.Context, receitaID, temaID uuid.UUID, names []string, assunto string) error {
	for _, name := range names {
		if err := s.link(ctx, receitaID, temaID, name, assunto); err != nil {
			return err
		}
	}
	return nil
}

// link finds or creates the subtema name under temaID and upserts the
// receita link to it.
func (s *Service) link(ctx context.Context, receitaID, temaID uuid.UUID, name, assunto string) error {
	sub, err := services.EnsureSubtema(ctx, s.store, temaID, name)
	if err != nil {
		return err
	}
	link := &models.ReceitaSubtema{
		ReceitaID: receitaID,
		SubtemaID: sub.ID,
		Assunto:   strings.TrimSpace(assunto),
	}
	if err := s.store.ReceitaSubtemas.Upsert(ctx, link); err != nil {
		return services.RepoErr(err, nil, "failed to link subtema")
	}
	return nil
}

// insertIngredientes validates and inserts in order, stopping at the first
// invalid payload. Rows inserted before it are kept.
func (s *Service) insertIngredientes(ctx context.Context, receitaID uuid.UUID, items []IngredienteRequest) error {
	for i, item := range items {
		if err := validation.Ingredient(item.Name, item.Quantity, item.Unit); err != nil {
			slog.Warn("invalid ingrediente, aborting",
				"receita_id", receitaID.String(),
				"inserted", i,
			)
			return err
		}
		ing := &models.Ingrediente{
			ReceitaID: receitaID,
			Name:      strings.TrimSpace(item.Name),
			Quantity:  item.Quantity,
			Unit:      strings.TrimSpace(item.Unit),
		}
		if err := s.store.Ingredientes.Create(ctx, ing); err != nil {
			return services.RepoErr(err, nil, "failed to create ingrediente")
		}
	}
	return nil
}

// attachPhotos uploads every photo through the tracker, then records the
// photo rows and the new imageSource in one transaction.
func (s *Service) attachPhotos(ctx context.Context, tracker *storage.Tracker, receitaID uuid.UUID, photos []storage.Object) error {
	if len(photos) == 0 {
		return nil
	}

	now := s.now()
	rows := make([]models.ReceitaFoto, 0, len(photos))
	for i, p := range photos {
		key := storage.ObjectKey(receitaID.String(), fmt.Sprintf("%d_%s", i, p.Name), now)
		url, err := tracker.Upload(ctx, storage.BucketRecipePhotos, key, p.Data, p.ContentType)
		if err != nil {
			return apperr.Internal(err, "failed to upload receita photo")
		}
		rows = append(rows, models.ReceitaFoto{ReceitaID: receitaID, URL: url, Key: key})
	}

	err := s.store.WithinTx(ctx, func(tx *repository.Store) error {
		for i := range rows {
			if err := tx.ReceitaFotos.Create(ctx, &rows[i]); err != nil {
				return err
			}
		}
		return tx.Receitas.Update(ctx, receitaID, map[string]interface{}{
			"image_source": rows[len(rows)-1].URL,
		})
	})
	return services.RepoErr(err, ErrReceitaNotFound, "failed to save receita photos")
}
