package repository

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DicaFilter narrows FindAll. Nil fields are not applied.
type DicaFilter struct {
	TemaID     *uuid.UUID
	Verified   *bool
	Specialist *bool
	// Linked keeps only dicas with at least one subtema link.
	Linked bool
}

type DicaRepository interface {
	Create(ctx context.Context, d *models.Dica) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Dica, error)
	FindAll(ctx context.Context, f DicaFilter) ([]models.Dica, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	// MarkVerified records the verifier once. It reports false when the
	// row was already verified.
	MarkVerified(ctx context.Context, id uuid.UUID, verifier string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type DicaSubtemaRepository interface {
	CreateBatch(ctx context.Context, links []models.DicaSubtema) error
	FindByDica(ctx context.Context, dicaID uuid.UUID) ([]models.DicaSubtema, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
	DeleteByDica(ctx context.Context, dicaID uuid.UUID) (int64, error)
}

type dicaRepo struct {
	db *gorm.DB
}

func (r *dicaRepo) preload(q *gorm.DB) *gorm.DB {
	return q.Preload("Tema").Preload("Links", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Preload("Links.Subtema")
}

func (r *dicaRepo) Create(ctx context.Context, d *models.Dica) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(d).Error)
}

func (r *dicaRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Dica, error) {
	var dica models.Dica
	if err := r.preload(r.db.WithContext(ctx)).First(&dica, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &dica, nil
}

func (r *dicaRepo) FindAll(ctx context.Context, f DicaFilter) ([]models.Dica, error) {
	q := r.db.WithContext(ctx).Model(&models.Dica{})
	if f.TemaID != nil {
		q = q.Where("tema_id = ?", *f.TemaID)
	}
	if f.Verified != nil {
		q = q.Where("is_verify = ?", *f.Verified)
	}
	if f.Specialist != nil {
		q = q.Where("is_created_by_specialist = ?", *f.Specialist)
	}
	if f.Linked {
		q = q.Where("id IN (?)", r.db.Model(&models.DicaSubtema{}).Select("dica_id"))
	}

	var dicas []models.Dica
	err := r.preload(q).Order("created_at DESC").Find(&dicas).Error
	return dicas, translate(err)
}

func (r *dicaRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return updated(r.db.WithContext(ctx).Model(&models.Dica{}).Where("id = ?", id).Updates(fields))
}

func (r *dicaRepo) MarkVerified(ctx context.Context, id uuid.UUID, verifier string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Dica{}).
		Where("id = ? AND is_verify = ?", id, false).
		Updates(map[string]interface{}{"is_verify": true, "verify_by": verifier})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Dica{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, translate(err)
	}
	if n == 0 {
		return false, ErrNotFound
	}
	return false, nil
}

func (r *dicaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return updated(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Dica{}))
}

type dicaSubtemaRepo struct {
	db *gorm.DB
}

func (r *dicaSubtemaRepo) CreateBatch(ctx context.Context, links []models.DicaSubtema) error {
	if len(links) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(&links).Error)
}

func (r *dicaSubtemaRepo) FindByDica(ctx context.Context, dicaID uuid.UUID) ([]models.DicaSubtema, error) {
	var links []models.DicaSubtema
	err := r.db.WithContext(ctx).
		Preload("Subtema").
		Where("dica_id = ?", dicaID).
		Order("created_at ASC").
		Find(&links).Error
	return links, translate(err)
}

func (r *dicaSubtemaRepo) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.DicaSubtema{}).Error)
}

func (r *dicaSubtemaRepo) DeleteByDica(ctx context.Context, dicaID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("dica_id = ?", dicaID).Delete(&models.DicaSubtema{})
	return res.RowsAffected, translate(res.Error)
}
