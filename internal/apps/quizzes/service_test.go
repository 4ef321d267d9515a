package quizzes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptions(t *testing.T) {
	assert.Equal(t, []string{"Garrafa PET", "Vidro", "Papel"}, ParseOptions("Garrafa PET\r\n  Vidro \n\nPapel\n"))
	assert.Equal(t, []string{}, ParseOptions(""))
}

func quiz(app string, order int) *QuizRequest {
	return &QuizRequest{
		Question:    "Qual material leva mais tempo para se decompor?",
		TrueAnswer:  "Vidro",
		Order:       order,
		AppID:       app,
		Title:       "Reciclagem",
		Description: "Papel\nVidro\nPlástico",
	}
}

func TestQuizService(t *testing.T) {
	svc := NewService(repository.New(testutil.NewDB(t)))
	ctx := context.Background()

	second, err := svc.Create(ctx, quiz("ecodicas", 2))
	require.NoError(t, err)
	first, err := svc.Create(ctx, quiz("ecodicas", 1))
	require.NoError(t, err)
	_, err = svc.Create(ctx, quiz("outro", 1))
	require.NoError(t, err)

	assert.Equal(t, []string{"Papel", "Vidro", "Plástico"}, first.Options)

	list, err := svc.List(ctx, "ecodicas")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.Create(ctx, quiz("ecodicas", 0))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	req := quiz("ecodicas", 3)
	req.Description = "Sim\nNão"
	updated, err := svc.Update(ctx, first.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Order)
	assert.Equal(t, []string{"Sim", "Não"}, updated.Options)

	_, err = svc.Update(ctx, uuid.New(), req)
	assert.ErrorIs(t, err, ErrQuizNotFound)

	require.NoError(t, svc.Delete(ctx, first.ID))
	_, err = svc.Get(ctx, first.ID)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestQuizWritesRequireAdmin(t *testing.T) {
	db := testutil.NewDB(t)
	store := repository.New(db)
	cfg := &config.Config{JWTSecret: testutil.TestSecret, AdminEmails: "admin@x.com"}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	New().RegisterRoutes(app.Group("/api"), &apps.Deps{
		Store:  store,
		Config: cfg,
		Auth:   middleware.JWTProtected(cfg),
		Admin:  middleware.AdminRequired(store.Users, cfg),
	})

	post := func(email string) int {
		body, err := json.Marshal(quiz("ecodicas", 1))
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/quizzes", strings.NewReader(string(body)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+testutil.AccessToken(t, testutil.CreateUser(t, db, email, false)))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusForbidden, post("user@x.com"))
	assert.Equal(t, http.StatusCreated, post("admin@x.com"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/quizzes?app=ecodicas", nil), -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var list []QuizResponse
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Len(t, list, 1)
}
