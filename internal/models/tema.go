package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tema struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null;size:100;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (t *Tema) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (Tema) TableName() string {
	return "temas"
}

// Subtema belongs to exactly one Tema. (tema_id, name) is unique so
// find-or-create by name can never produce duplicates, even under races.
type Subtema struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TemaID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subtemas_tema_name,priority:1" json:"temaId"`
	Name        string    `gorm:"not null;size:100;uniqueIndex:idx_subtemas_tema_name,priority:2" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Tema        Tema      `gorm:"foreignKey:TemaID" json:"-"`
}

func (s *Subtema) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (Subtema) TableName() string {
	return "subtemas"
}
