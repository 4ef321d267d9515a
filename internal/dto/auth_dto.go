package dto

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest is accepted as JSON or multipart form; the optional
// profile photo comes in the fotoPerfil form file.
type RegisterRequest struct {
	Email              string `json:"email" form:"email"`
	Name               string `json:"nome" form:"nome"`
	Phone              string `json:"telefone" form:"telefone"`
	Password           string `json:"senha" form:"senha"`
	ConsciousnessLevel int    `json:"nivelConsciencia" form:"nivelConsciencia"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"senha"`
}

type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	Phone              string    `json:"phone"`
	ConsciousnessLevel int       `json:"consciousnessLevel"`
	IsMonitor          bool      `json:"isMonitor"`
	Role               string    `json:"role"`
	ProfilePhotoURL    *string   `json:"profilePhotoUrl"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// UpdateUserRequest carries optional fields; nil means unchanged.
type UpdateUserRequest struct {
	Name               *string `json:"nome" form:"nome"`
	Phone              *string `json:"telefone" form:"telefone"`
	Password           *string `json:"senha" form:"senha"`
	ConsciousnessLevel *int    `json:"nivelConsciencia" form:"nivelConsciencia"`
}

type MonitorRequest struct {
	IsMonitor bool `json:"isMonitor"`
}
