package receitas

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/google/uuid"
)

type IngredienteRequest struct {
	Name     string  `json:"nome"`
	Quantity float64 `json:"quantidade"`
	Unit     string  `json:"unidade"`
}

// ReceitaRequest is used for create and update. On update empty strings
// keep the stored value and nil slices keep the stored links or
// ingredientes.
type ReceitaRequest struct {
	Title        string               `json:"titulo"`
	Content      string               `json:"conteudo"`
	TemaID       string               `json:"temaId"`
	Subtemas     []string             `json:"subtemas"`
	Assunto      string               `json:"assunto"`
	Ingredientes []IngredienteRequest `json:"ingredientes"`
}

// ReceitaResponse is the single projection shared by every receita query.
// AuthorName and VerifierName are filled by the detail lookup only.
type ReceitaResponse struct {
	ID           uuid.UUID            `json:"id"`
	Title        string               `json:"title"`
	Content      string               `json:"content"`
	AuthorID     uuid.UUID            `json:"authorId"`
	AuthorName   string               `json:"authorName,omitempty"`
	TemaID       uuid.UUID            `json:"temaId"`
	Theme        string               `json:"theme"`
	IsVerify     bool                 `json:"isVerify"`
	VerifyBy     *string              `json:"verifyBy"`
	VerifierName string               `json:"verifierName,omitempty"`
	ImageSource  string               `json:"imageSource"`
	Fotos        []string             `json:"fotos"`
	Subtemas     []dto.SubtemaRef     `json:"subtemas"`
	Ingredientes []models.Ingrediente `json:"ingredientes"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

func toResponse(r *models.Receita) ReceitaResponse {
	seen := make(map[string]struct{}, len(r.Links))
	subtemas := make([]dto.SubtemaRef, 0, len(r.Links))
	for _, l := range r.Links {
		if _, ok := seen[l.Subtema.Name]; ok {
			continue
		}
		seen[l.Subtema.Name] = struct{}{}
		subtemas = append(subtemas, dto.SubtemaRef{ID: l.SubtemaID, Name: l.Subtema.Name, Assunto: l.Assunto})
	}

	fotos := make([]string, len(r.Fotos))
	for i, f := range r.Fotos {
		fotos[i] = f.URL
	}

	ingredientes := r.Ingredientes
	if ingredientes == nil {
		ingredientes = []models.Ingrediente{}
	}

	return ReceitaResponse{
		ID:           r.ID,
		Title:        r.Title,
		Content:      r.Content,
		AuthorID:     r.AuthorID,
		TemaID:       r.TemaID,
		Theme:        r.Tema.Name,
		IsVerify:     r.IsVerify,
		VerifyBy:     r.VerifyBy,
		ImageSource:  r.ImageSource,
		Fotos:        fotos,
		Subtemas:     subtemas,
		Ingredientes: ingredientes,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toResponses(list []models.Receita) []ReceitaResponse {
	out := make([]ReceitaResponse, len(list))
	for i := range list {
		out[i] = toResponse(&list[i])
	}
	return out
}
