package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an app account. IsMonitor grants the verification privilege for
// dicas and receitas.
type User struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email              string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Name               string    `gorm:"not null;size:100" json:"name"`
	Phone              string    `gorm:"size:20" json:"phone"`
	Password           string    `gorm:"not null" json:"-"`
	ConsciousnessLevel int       `gorm:"not null;default:0" json:"consciousnessLevel"`
	IsMonitor          bool      `gorm:"not null;default:false" json:"isMonitor"`
	Role               string    `gorm:"size:20;default:'user'" json:"role"`
	ProfilePhotoURL    *string   `gorm:"type:text" json:"profilePhotoUrl,omitempty"`
	ProfilePhotoKey    *string   `gorm:"type:text" json:"-"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (User) TableName() string {
	return "users"
}
