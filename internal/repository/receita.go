package repository

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReceitaFilter narrows FindAll. TemaID and SubtemaNames filter by link
// membership: a receita matches when one of its subtemas belongs to the tema
// (and, when names are given, carries one of those names).
type ReceitaFilter struct {
	TemaID       *uuid.UUID
	Verified     *bool
	SubtemaNames []string
}

type ReceitaRepository interface {
	Create(ctx context.Context, r *models.Receita) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Receita, error)
	FindAll(ctx context.Context, f ReceitaFilter) ([]models.Receita, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	// MarkVerified records the verifier once. It reports false when the
	// row was already verified.
	MarkVerified(ctx context.Context, id uuid.UUID, verifier string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ReceitaSubtemaRepository interface {
	// Upsert inserts the link unless (receita_id, subtema_id) already exists.
	Upsert(ctx context.Context, link *models.ReceitaSubtema) error
	FindByReceita(ctx context.Context, receitaID uuid.UUID) ([]models.ReceitaSubtema, error)
	DeleteByReceita(ctx context.Context, receitaID uuid.UUID) (int64, error)
}

type ReceitaFotoRepository interface {
	Create(ctx context.Context, f *models.ReceitaFoto) error
	FindByReceita(ctx context.Context, receitaID uuid.UUID) ([]models.ReceitaFoto, error)
	DeleteByReceita(ctx context.Context, receitaID uuid.UUID) (int64, error)
}

type receitaRepo struct {
	db *gorm.DB
}

func (r *receitaRepo) preload(q *gorm.DB) *gorm.DB {
	return q.Preload("Author").
		Preload("Tema").
		Preload("Links", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Links.Subtema").
		Preload("Ingredientes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Fotos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, key ASC") })
}

func (r *receitaRepo) Create(ctx context.Context, rec *models.Receita) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error)
}

func (r *receitaRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Receita, error) {
	var rec models.Receita
	if err := r.preload(r.db.WithContext(ctx)).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *receitaRepo) FindAll(ctx context.Context, f ReceitaFilter) ([]models.Receita, error) {
	q := r.db.WithContext(ctx).Model(&models.Receita{})
	if f.Verified != nil {
		q = q.Where("is_verify = ?", *f.Verified)
	}
	if f.TemaID != nil {
		members := r.db.Table("receita_subtemas").
			Select("receita_subtemas.receita_id").
			Joins("JOIN subtemas ON subtemas.id = receita_subtemas.subtema_id").
			Where("subtemas.tema_id = ?", *f.TemaID)
		if len(f.SubtemaNames) > 0 {
			members = members.Where("subtemas.name IN ?", f.SubtemaNames)
		}
		q = q.Where("id IN (?)", members)
	}

	var recs []models.Receita
	err := r.preload(q).Order("created_at DESC").Find(&recs).Error
	return recs, translate(err)
}

func (r *receitaRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return updated(r.db.WithContext(ctx).Model(&models.Receita{}).Where("id = ?", id).Updates(fields))
}

func (r *receitaRepo) MarkVerified(ctx context.Context, id uuid.UUID, verifier string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Receita{}).
		Where("id = ? AND is_verify = ?", id, false).
		Updates(map[string]interface{}{"is_verify": true, "verify_by": verifier})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Receita{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, translate(err)
	}
	if n == 0 {
		return false, ErrNotFound
	}
	return false, nil
}

func (r *receitaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return updated(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Receita{}))
}

type receitaSubtemaRepo struct {
	db *gorm.DB
}

func (r *receitaSubtemaRepo) Upsert(ctx context.Context, link *models.ReceitaSubtema) error {
	return translate(r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "receita_id"}, {Name: "subtema_id"}},
			DoNothing: true,
		}).
		Create(link).Error)
}

func (r *receitaSubtemaRepo) FindByReceita(ctx context.Context, receitaID uuid.UUID) ([]models.ReceitaSubtema, error) {
	var links []models.ReceitaSubtema
	err := r.db.WithContext(ctx).
		Preload("Subtema").
		Where("receita_id = ?", receitaID).
		Order("created_at ASC").
		Find(&links).Error
	return links, translate(err)
}

func (r *receitaSubtemaRepo) DeleteByReceita(ctx context.Context, receitaID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("receita_id = ?", receitaID).Delete(&models.ReceitaSubtema{})
	return res.RowsAffected, translate(res.Error)
}

type receitaFotoRepo struct {
	db *gorm.DB
}

func (r *receitaFotoRepo) Create(ctx context.Context, f *models.ReceitaFoto) error {
	return translate(r.db.WithContext(ctx).Create(f).Error)
}

func (r *receitaFotoRepo) FindByReceita(ctx context.Context, receitaID uuid.UUID) ([]models.ReceitaFoto, error) {
	var fotos []models.ReceitaFoto
	err := r.db.WithContext(ctx).Where("receita_id = ?", receitaID).Order("created_at ASC").Find(&fotos).Error
	return fotos, translate(err)
}

func (r *receitaFotoRepo) DeleteByReceita(ctx context.Context, receitaID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("receita_id = ?", receitaID).Delete(&models.ReceitaFoto{})
	return res.RowsAffected, translate(res.Error)
}
