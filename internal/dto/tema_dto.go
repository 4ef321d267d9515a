package dto

import "github.com/google/uuid"

type TemaRequest struct {
	Name        string `json:"nome"`
	Description string `json:"descricao"`
}

type SubtemaRequest struct {
	TemaID      uuid.UUID `json:"temaId"`
	Name        string    `json:"nome"`
	Description string    `json:"descricao"`
}

// SubtemaRef is the subtema projection embedded in dicas and receitas.
type SubtemaRef struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Assunto string    `json:"assunto,omitempty"`
}
