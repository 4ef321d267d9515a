package repository

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizRepository interface {
	Create(ctx context.Context, q *models.Quiz) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error)
	// FindAll returns quizzes ordered by their order field. An empty appID
	// lists every app.
	FindAll(ctx context.Context, appID string) ([]models.Quiz, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ForApp returns a GORM scope that filters by app_id.
func ForApp(appID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if appID == "" {
			return db
		}
		return db.Where("app_id = ?", appID)
	}
}

type quizRepo struct {
	db *gorm.DB
}

func (r *quizRepo) Create(ctx context.Context, q *models.Quiz) error {
	return translate(r.db.WithContext(ctx).Create(q).Error)
}

func (r *quizRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.WithContext(ctx).First(&quiz, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &quiz, nil
}

func (r *quizRepo) FindAll(ctx context.Context, appID string) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := r.db.WithContext(ctx).
		Scopes(ForApp(appID)).
		Order("ordem ASC, created_at ASC").
		Find(&quizzes).Error
	return quizzes, translate(err)
}

func (r *quizRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return updated(r.db.WithContext(ctx).Model(&models.Quiz{}).Where("id = ?", id).Updates(fields))
}

func (r *quizRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return updated(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Quiz{}))
}
