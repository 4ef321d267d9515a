package quizzes

import (
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/google/uuid"
)

type QuizRequest struct {
	Question    string `json:"question"`
	TrueAnswer  string `json:"trueAnswer"`
	Order       int    `json:"order"`
	AppID       string `json:"appId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type QuizResponse struct {
	ID          uuid.UUID `json:"id"`
	Question    string    `json:"question"`
	TrueAnswer  string    `json:"trueAnswer"`
	Order       int       `json:"order"`
	AppID       string    `json:"appId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Options     []string  `json:"options"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ParseOptions splits a description into its answer options, one per
// non-blank line.
func ParseOptions(description string) []string {
	options := []string{}
	for _, line := range strings.Split(strings.ReplaceAll(description, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			options = append(options, line)
		}
	}
	return options
}

func toResponse(q *models.Quiz) QuizResponse {
	return QuizResponse{
		ID:          q.ID,
		Question:    q.Question,
		TrueAnswer:  q.TrueAnswer,
		Order:       q.Order,
		AppID:       q.AppID,
		Title:       q.Title,
		Description: q.Description,
		Options:     ParseOptions(q.Description),
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}
