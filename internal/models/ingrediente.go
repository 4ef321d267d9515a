package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Ingrediente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReceitaID uuid.UUID `gorm:"type:uuid;not null;index" json:"receitaId"`
	Name      string    `gorm:"size:20;not null" json:"name"`
	Quantity  float64   `gorm:"not null" json:"quantity"`
	Unit      string    `gorm:"size:30;not null" json:"unit"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i *Ingrediente) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (Ingrediente) TableName() string {
	return "ingredientes"
}
