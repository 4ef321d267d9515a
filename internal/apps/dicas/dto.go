package dicas

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/google/uuid"
)

type CreateRequest struct {
	Title    string   `json:"titulo"`
	Content  string   `json:"conteudo"`
	Tema     string   `json:"tema"`
	Subtemas []string `json:"subtemas"`
	Assunto  string   `json:"assunto"`
}

// UpdateRequest replaces the content. An empty Tema keeps the current tema;
// a nil Subtemas keeps the current subtema names.
type UpdateRequest struct {
	Title    *string  `json:"titulo"`
	Content  string   `json:"conteudo"`
	Tema     string   `json:"tema"`
	Subtemas []string `json:"subtemas"`
	Assunto  string   `json:"assunto"`
}

// DicaResponse is the single projection shared by every dica query.
type DicaResponse struct {
	ID                    uuid.UUID        `json:"id"`
	Title                 string           `json:"title"`
	Content               string           `json:"content"`
	IsVerify              bool             `json:"isVerify"`
	AuthorID              uuid.UUID        `json:"authorId"`
	VerifyBy              *string          `json:"verifyBy"`
	CreatedAt             time.Time        `json:"createdAt"`
	UpdatedAt             time.Time        `json:"updatedAt"`
	Theme                 string           `json:"theme"`
	Subtemas              []dto.SubtemaRef `json:"subtemas"`
	IsCreatedBySpecialist bool             `json:"isCreatedBySpecialist"`
}

func toResponse(d *models.Dica) DicaResponse {
	subtemas := make([]dto.SubtemaRef, 0, len(d.Links))
	for _, l := range d.Links {
		subtemas = append(subtemas, dto.SubtemaRef{
			ID:      l.SubtemaID,
			Name:    l.Subtema.Name,
			Assunto: l.Assunto,
		})
	}
	return DicaResponse{
		ID:                    d.ID,
		Title:                 d.Title,
		Content:               d.Content,
		IsVerify:              d.IsVerify,
		AuthorID:              d.AuthorID,
		VerifyBy:              d.VerifyBy,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
		Theme:                 d.Tema.Name,
		Subtemas:              subtemas,
		IsCreatedBySpecialist: d.IsCreatedBySpecialist,
	}
}

func toResponses(list []models.Dica) []DicaResponse {
	out := make([]DicaResponse, len(list))
	for i := range list {
		out[i] = toResponse(&list[i])
	}
	return out
}
