package quizzes

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

var ErrQuizNotFound = apperr.NotFound("quiz not found")

type Service struct {
	store *repository.Store
}

func NewService(store *repository.Store) *Service {
	return &Service{store: store}
}

func validate(req *QuizRequest) error {
	return validation.Quiz(validation.QuizInput{
		Question:   req.Question,
		TrueAnswer: req.TrueAnswer,
		Title:      req.Title,
		Order:      req.Order,
		AppID:      req.AppID,
	})
}

// List returns the quizzes of appID ordered by their position, or every
// quiz when appID is empty.
func (s *Service) List(ctx context.Context, appID string) ([]QuizResponse, error) {
	list, err := s.store.Quizzes.FindAll(ctx, strings.TrimSpace(appID))
	if err != nil {
		return nil, services.RepoErr(err, nil, "failed to list quizzes")
	}
	out := make([]QuizResponse, len(list))
	for i := range list {
		out[i] = toResponse(&list[i])
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*QuizResponse, error) {
	q, err := s.store.Quizzes.FindByID(ctx, id)
	if err != nil {
		return nil, services.RepoErr(err, ErrQuizNotFound, "failed to get quiz")
	}
	resp := toResponse(q)
	return &resp, nil
}

func (s *Service) Create(ctx context.Context, req *QuizRequest) (*QuizResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	q := &models.Quiz{
		Question:    strings.TrimSpace(req.Question),
		TrueAnswer:  strings.TrimSpace(req.TrueAnswer),
		Order:       req.Order,
		AppID:       strings.TrimSpace(req.AppID),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
	}
	if err := s.store.Quizzes.Create(ctx, q); err != nil {
		return nil, services.RepoErr(err, nil, "failed to create quiz")
	}
	resp := toResponse(q)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *QuizRequest) (*QuizResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	err := s.store.Quizzes.Update(ctx, id, map[string]interface{}{
		"question":    strings.TrimSpace(req.Question),
		"true_answer": strings.TrimSpace(req.TrueAnswer),
		"ordem":       req.Order,
		"app_id":      strings.TrimSpace(req.AppID),
		"title":       strings.TrimSpace(req.Title),
		"description": req.Description,
	})
	if err != nil {
		return nil, services.RepoErr(err, ErrQuizNotFound, "failed to update quiz")
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return services.RepoErr(s.store.Quizzes.Delete(ctx, id), ErrQuizNotFound, "failed to delete quiz")
}
