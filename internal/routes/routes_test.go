package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apps/dicas"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/repository"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type server struct {
	app *fiber.App
	db  *gorm.DB
}

func newServer(t *testing.T) server {
	t.Helper()
	db := testutil.NewDB(t)
	store := repository.New(db)
	cfg := &config.Config{
		JWTSecret:           testutil.TestSecret,
		JWTAccessExpiry:     15 * time.Minute,
		JWTRefreshExpiry:    time.Hour,
		PasswordResetExpiry: 30 * time.Minute,
		ResetURL:            "ecodicas://reset-password",
		AdminEmails:         "admin@ecodicas.com",
	}
	objects := testutil.NewFakeStorage()

	temas, err := services.NewTemaService(store, catalog.NewRegistry(catalog.Theme{Name: "Agua"}, catalog.Theme{Name: "Energia"}))
	require.NoError(t, err)
	t.Cleanup(temas.Close)

	deps := &apps.Deps{
		Store:   store,
		Config:  cfg,
		Storage: objects,
		Temas:   temas,
		Auth:    middleware.JWTProtected(cfg),
		Admin:   middleware.AdminRequired(store.Users, cfg),
	}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	Setup(app, deps,
		handlers.NewAuthHandler(services.NewAuthService(store, cfg, objects, testutil.NewFakeResetStore(), &testutil.FakeMailer{})),
		handlers.NewUserHandler(services.NewUserService(store, objects), func(c *fiber.Ctx) bool {
			return middleware.IsAdmin(c, store.Users, cfg)
		}),
		handlers.NewTemaHandler(temas),
		handlers.NewHealthHandler(db, temas.CatalogSize),
		[]apps.Plugin{dicas.New()},
	)
	return server{app: app, db: db}
}

func (s server) do(t *testing.T, method, path, body, token string) (int, []byte) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t)

	status, data := s.do(t, http.MethodGet, "/api/health", "", "")
	require.Equal(t, http.StatusOK, status)
	var health dto.HealthResponse
	require.NoError(t, json.Unmarshal(data, &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "ok", health.DB)
	assert.Equal(t, 2, health.ThemeCount)

	status, _ = s.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, status)
}

func TestAuthFlow(t *testing.T) {
	s := newServer(t)

	register := `{"email":"Ana@Example.com","nome":"Ana","senha":"segredo123","nivelConsciencia":3}`
	status, data := s.do(t, http.MethodPost, "/api/auth/register", register, "")
	require.Equal(t, http.StatusCreated, status, string(data))

	var auth dto.AuthResponse
	require.NoError(t, json.Unmarshal(data, &auth))
	assert.NotEmpty(t, auth.AccessToken)
	assert.NotEmpty(t, auth.RefreshToken)
	assert.Equal(t, "ana@example.com", auth.User.Email)

	status, _ = s.do(t, http.MethodPost, "/api/auth/register", register, "")
	assert.Equal(t, http.StatusConflict, status)

	status, data = s.do(t, http.MethodPost, "/api/auth/register", `{"email":"nope","nome":"","senha":"123"}`, "")
	require.Equal(t, http.StatusBadRequest, status)
	var invalid dto.ErrorResponse
	require.NoError(t, json.Unmarshal(data, &invalid))
	assert.NotEmpty(t, invalid.Detail)

	status, _ = s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","senha":"errada123"}`, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, data = s.do(t, http.MethodPost, "/api/auth/login", `{"email":"ana@example.com","senha":"segredo123"}`, "")
	require.Equal(t, http.StatusOK, status, string(data))

	status, data = s.do(t, http.MethodPost, "/api/auth/refresh", `{"refreshToken":"`+auth.RefreshToken+`"}`, "")
	require.Equal(t, http.StatusOK, status, string(data))
	var refreshed dto.AuthResponse
	require.NoError(t, json.Unmarshal(data, &refreshed))

	// The rotated token is spent.
	status, _ = s.do(t, http.MethodPost, "/api/auth/refresh", `{"refreshToken":"`+auth.RefreshToken+`"}`, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(t, http.MethodPost, "/api/auth/password/forgot", `{"email":"ghost@example.com"}`, "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, http.MethodPut, "/api/users/"+auth.User.ID.String(), `{"nome":"Ana Souza"}`, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, data = s.do(t, http.MethodPut, "/api/users/"+auth.User.ID.String(), `{"nome":"Ana Souza"}`, refreshed.AccessToken)
	require.Equal(t, http.StatusOK, status, string(data))
	var user dto.UserResponse
	require.NoError(t, json.Unmarshal(data, &user))
	assert.Equal(t, "Ana Souza", user.Name)
}

func TestUserRoutes(t *testing.T) {
	s := newServer(t)
	ana := testutil.CreateUser(t, s.db, "ana@x.com", false)
	bia := testutil.CreateUser(t, s.db, "bia@x.com", false)
	admin := testutil.CreateUser(t, s.db, "admin@ecodicas.com", false)

	status, data := s.do(t, http.MethodGet, "/api/users", "", "")
	require.Equal(t, http.StatusOK, status)
	var list []dto.UserResponse
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Len(t, list, 3)

	status, _ = s.do(t, http.MethodGet, "/api/users/not-a-uuid", "", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodPut, "/api/users/"+bia.ID.String(), `{"nome":"Hacker"}`, testutil.AccessToken(t, ana))
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, http.MethodDelete, "/api/users/"+bia.ID.String(), "", testutil.AccessToken(t, ana))
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, http.MethodPut, "/api/admin/users/"+ana.ID.String()+"/monitor", `{"isMonitor":true}`, testutil.AccessToken(t, bia))
	assert.Equal(t, http.StatusForbidden, status)

	status, data = s.do(t, http.MethodPut, "/api/admin/users/"+ana.ID.String()+"/monitor", `{"isMonitor":true}`, testutil.AccessToken(t, admin))
	require.Equal(t, http.StatusOK, status, string(data))
	var updated dto.UserResponse
	require.NoError(t, json.Unmarshal(data, &updated))
	assert.True(t, updated.IsMonitor)

	status, _ = s.do(t, http.MethodDelete, "/api/users/"+bia.ID.String(), "", testutil.AccessToken(t, admin))
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = s.do(t, http.MethodDelete, "/api/users/"+ana.ID.String(), "", testutil.AccessToken(t, ana))
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = s.do(t, http.MethodGet, "/api/users/"+ana.ID.String(), "", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTemaRoutes(t *testing.T) {
	s := newServer(t)
	token := testutil.AccessToken(t, testutil.CreateUser(t, s.db, "ana@x.com", false))

	status, _ := s.do(t, http.MethodPost, "/api/temas", `{"nome":"Agua"}`, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, data := s.do(t, http.MethodPost, "/api/temas", `{"nome":"Agua","descricao":"Uso consciente"}`, token)
	require.Equal(t, http.StatusCreated, status, string(data))
	var tema models.Tema
	require.NoError(t, json.Unmarshal(data, &tema))

	status, _ = s.do(t, http.MethodPost, "/api/temas", `{"nome":"Agua"}`, token)
	assert.Equal(t, http.StatusConflict, status)

	status, data = s.do(t, http.MethodPost, "/api/subtemas", `{"temaId":"`+tema.ID.String()+`","nome":"Reuso"}`, token)
	require.Equal(t, http.StatusCreated, status, string(data))

	status, data = s.do(t, http.MethodGet, "/api/temas/"+tema.ID.String()+"/subtemas", "", "")
	require.Equal(t, http.StatusOK, status)
	var subs []models.Subtema
	require.NoError(t, json.Unmarshal(data, &subs))
	require.Len(t, subs, 1)
	assert.Equal(t, "Reuso", subs[0].Name)

	status, _ = s.do(t, http.MethodGet, "/api/subtemas?temaId=bad", "", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.do(t, http.MethodDelete, "/api/subtemas/"+subs[0].ID.String(), "", token)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = s.do(t, http.MethodDelete, "/api/temas/"+tema.ID.String(), "", token)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = s.do(t, http.MethodGet, "/api/temas/"+tema.ID.String(), "", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPluginRoutesMounted(t *testing.T) {
	s := newServer(t)

	status, data := s.do(t, http.MethodGet, "/api/dicas", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(data))

	status, _ = s.do(t, http.MethodPost, "/api/dicas", `{"titulo":"x"}`, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}
