package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quiz is one question of an in-app quiz. Description holds the answer
// options, one per line.
type Quiz struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Question    string    `gorm:"type:text;not null" json:"question"`
	TrueAnswer  string    `gorm:"type:text;not null" json:"trueAnswer"`
	Order       int       `gorm:"column:ordem;not null;index" json:"order"`
	AppID       string    `gorm:"size:50;not null;index" json:"appId"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

func (Quiz) TableName() string {
	return "quizzes"
}
