// Package repository is the persistence gateway: one repository per entity,
// all backed by a shared *gorm.DB connection pool.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate record")
	// ErrReferenced is returned when a delete would orphan dependent rows.
	ErrReferenced = errors.New("record is still referenced")
)

// Store bundles every repository over the same connection (or transaction).
type Store struct {
	db *gorm.DB

	Users           UserRepository
	RefreshTokens   RefreshTokenRepository
	Temas           TemaRepository
	Subtemas        SubtemaRepository
	Dicas           DicaRepository
	DicaSubtemas    DicaSubtemaRepository
	Receitas        ReceitaRepository
	ReceitaSubtemas ReceitaSubtemaRepository
	ReceitaFotos    ReceitaFotoRepository
	Ingredientes    IngredienteRepository
	Quizzes         QuizRepository
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:              db,
		Users:           &userRepo{db: db},
		RefreshTokens:   &refreshTokenRepo{db: db},
		Temas:           &temaRepo{db: db},
		Subtemas:        &subtemaRepo{db: db},
		Dicas:           &dicaRepo{db: db},
		DicaSubtemas:    &dicaSubtemaRepo{db: db},
		Receitas:        &receitaRepo{db: db},
		ReceitaSubtemas: &receitaSubtemaRepo{db: db},
		ReceitaFotos:    &receitaFotoRepo{db: db},
		Ingredientes:    &ingredienteRepo{db: db},
		Quizzes:         &quizRepo{db: db},
	}
}

// DB exposes the underlying handle for health checks and migrations.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// WithinTx runs fn against a Store bound to a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) WithinTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// translate maps GORM errors onto the gateway's sentinel errors. GORM must
// be opened with TranslateError enabled for duplicate keys to be detected.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrReferenced
	default:
		return err
	}
}

// updated checks the outcome of an UPDATE/DELETE by primary key.
func updated(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
