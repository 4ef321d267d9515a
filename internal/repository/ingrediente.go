package repository

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IngredienteRepository interface {
	Create(ctx context.Context, i *models.Ingrediente) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ingrediente, error)
	// FindAll lists every ingrediente, or only a receita's when receitaID is set.
	FindAll(ctx context.Context, receitaID *uuid.UUID) ([]models.Ingrediente, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByReceita(ctx context.Context, receitaID uuid.UUID) (int64, error)
}

type ingredienteRepo struct {
	db *gorm.DB
}

func (r *ingredienteRepo) Create(ctx context.Context, i *models.Ingrediente) error {
	return translate(r.db.WithContext(ctx).Create(i).Error)
}

func (r *ingredienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Ingrediente, error) {
	var ing models.Ingrediente
	if err := r.db.WithContext(ctx).First(&ing, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &ing, nil
}

func (r *ingredienteRepo) FindAll(ctx context.Context, receitaID *uuid.UUID) ([]models.Ingrediente, error) {
	q := r.db.WithContext(ctx).Order("created_at ASC")
	if receitaID != nil {
		q = q.Where("receita_id = ?", *receitaID)
	}
	var ings []models.Ingrediente
	err := q.Find(&ings).Error
	return ings, translate(err)
}

func (r *ingredienteRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return updated(r.db.WithContext(ctx).Model(&models.Ingrediente{}).Where("id = ?", id).Updates(fields))
}

func (r *ingredienteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return updated(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Ingrediente{}))
}

func (r *ingredienteRepo) DeleteByReceita(ctx context.Context, receitaID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("receita_id = ?", receitaID).Delete(&models.Ingrediente{})
	return res.RowsAffected, translate(res.Error)
}
