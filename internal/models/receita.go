package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Receita struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title        string    `gorm:"size:200;not null"`
	Content      string    `gorm:"type:text;not null"`
	AuthorID     uuid.UUID `gorm:"type:uuid;not null;index"`
	TemaID       uuid.UUID `gorm:"type:uuid;not null;index"`
	IsVerify     bool      `gorm:"not null;default:false;index"`
	VerifyBy     *string   `gorm:"size:255"`
	ImageSource  string    `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Author       User             `gorm:"foreignKey:AuthorID"`
	Tema         Tema             `gorm:"foreignKey:TemaID"`
	Links        []ReceitaSubtema `gorm:"foreignKey:ReceitaID"`
	Ingredientes []Ingrediente    `gorm:"foreignKey:ReceitaID"`
	Fotos        []ReceitaFoto    `gorm:"foreignKey:ReceitaID"`
}

func (r *Receita) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (Receita) TableName() string {
	return "receitas"
}

// ReceitaSubtema is keyed by (receita_id, subtema_id).
type ReceitaSubtema struct {
	ReceitaID uuid.UUID `gorm:"type:uuid;primaryKey"`
	SubtemaID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Assunto   string    `gorm:"type:text"`
	CreatedAt time.Time
	Subtema   Subtema `gorm:"foreignKey:SubtemaID"`
}

func (ReceitaSubtema) TableName() string {
	return "receita_subtemas"
}

type ReceitaFoto struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReceitaID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL       string    `gorm:"type:text;not null"`
	Key       string    `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (f *ReceitaFoto) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (ReceitaFoto) TableName() string {
	return "receita_fotos"
}
