package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Dica is a tip. IsCreatedBySpecialist is copied from the author's monitor
// flag at creation and never changes afterwards.
type Dica struct {
	ID                    uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Title                 string        `gorm:"size:200"`
	Content               string        `gorm:"type:text;not null"`
	AuthorID              uuid.UUID     `gorm:"type:uuid;not null;index"`
	TemaID                uuid.UUID     `gorm:"type:uuid;not null;index"`
	IsVerify              bool          `gorm:"not null;default:false;index"`
	VerifyBy              *string       `gorm:"size:255"`
	IsCreatedBySpecialist bool          `gorm:"not null;default:false;index"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
	Author                User          `gorm:"foreignKey:AuthorID"`
	Tema                  Tema          `gorm:"foreignKey:TemaID"`
	Links                 []DicaSubtema `gorm:"foreignKey:DicaID"`
}

func (d *Dica) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (Dica) TableName() string {
	return "dicas"
}

// DicaSubtema links a dica to a subtema with a free-text subject.
type DicaSubtema struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	DicaID    uuid.UUID `gorm:"type:uuid;not null;index"`
	SubtemaID uuid.UUID `gorm:"type:uuid;not null;index"`
	Assunto   string    `gorm:"type:text"`
	CreatedAt time.Time
	Subtema   Subtema `gorm:"foreignKey:SubtemaID"`
}

func (l *DicaSubtema) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (DicaSubtema) TableName() string {
	return "dica_subtemas"
}
