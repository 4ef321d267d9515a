package repository

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TemaRepository interface {
	Create(ctx context.Context, t *models.Tema) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tema, error)
	FindByName(ctx context.Context, name string) (*models.Tema, error)
	FindAll(ctx context.Context) ([]models.Tema, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SubtemaRepository interface {
	Create(ctx context.Context, s *models.Subtema) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Subtema, error)
	// FindByName looks a subtema up by name within one tema.
	FindByName(ctx context.Context, temaID uuid.UUID, name string) (*models.Subtema, error)
	// FindByNameAnyTema returns every subtema with the given name, whatever
	// tema owns it.
	FindByNameAnyTema(ctx context.Context, name string) ([]models.Subtema, error)
	// FindOrCreate is an upsert on (tema_id, name). created reports whether
	// this call inserted the row.
	FindOrCreate(ctx context.Context, temaID uuid.UUID, name string) (sub *models.Subtema, created bool, err error)
	FindAll(ctx context.Context, temaID *uuid.UUID) ([]models.Subtema, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type temaRepo struct {
	db *gorm.DB
}

func (r *temaRepo) Create(ctx context.Context, t *models.Tema) error {
	return translate(r.db.WithContext(ctx).Create(t).Error)
}

func (r *temaRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Tema, error) {
	var tema models.Tema
	if err := r.db.WithContext(ctx).First(&tema, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &tema, nil
}

func (r *temaRepo) FindByName(ctx context.Context, name string) (*models.Tema, error) {
	var tema models.Tema
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&tema).Error; err != nil {
		return nil, translate(err)
	}
	return &tema, nil
}

func (r *temaRepo) FindAll(ctx context.Context) ([]models.Tema, error) {
	var temas []models.Tema
	err := r.db.WithContext(ctx).Order("name ASC").Find(&temas).Error
	return temas, translate(err)
}

func (r *temaRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return updated(r.db.WithContext(ctx).Model(&models.Tema{}).Where("id = ?", id).Updates(fields))
}

func (r *temaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return updated(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Tema{}))
}

type subtemaRepo struct {
	db *gorm.DB
}

func (r *subtemaRepo) Create(ctx context.Context, s *models.Subtema) error {
	return translate(r.db.WithContext(ctx).Omit("Tema").Create(s).Error)
}

func (r *subtemaRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Subtema, error) {
	var sub models.Subtema
	if err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (r *subtemaRepo) FindByName(ctx context.Context, temaID uuid.UUID, name string) (*models.Subtema, error) {
	var sub models.Subtema
	err := r.db.WithContext(ctx).Where("tema_id = ? AND name = ?", temaID, name).First(&sub).Error
	if err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (r *subtemaRepo) FindByNameAnyTema(ctx context.Context, name string) ([]models.Subtema, error) {
	var subs []models.Subtema
	err := r.db.WithContext(ctx).Where("name = ?", name).Order("created_at ASC").Find(&subs).Error
	return subs, translate(err)
}

func (r *subtemaRepo) FindOrCreate(ctx context.Context, temaID uuid.UUID, name string) (*models.Subtema, bool, error) {
	sub := models.Subtema{TemaID: temaID, Name: name}
	res := r.db.WithContext(ctx).
		Omit("Tema").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tema_id"}, {Name: "name"}},
			DoNothing: true,
		}).
		Create(&sub)
	if res.Error != nil {
		return nil, false, translate(res.Error)
	}
	if res.RowsAffected == 1 {
		return &sub, true, nil
	}

	existing, err := r.FindByName(ctx, temaID, name)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *subtemaRepo) FindAll(ctx context.Context, temaID *uuid.UUID) ([]models.Subtema, error) {
	var subs []models.Subtema
	q := r.db.WithContext(ctx).Order("name ASC")
	if temaID != nil {
		q = q.Where("tema_id = ?", *temaID)
	}
	err := q.Find(&subs).Error
	return subs, translate(err)
}

func (r *subtemaRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return updated(r.db.WithContext(ctx).Model(&models.Subtema{}).Where("id = ?", id).Updates(fields))
}

func (r *subtemaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return updated(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Subtema{}))
}
