package dicas

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T, f fixture) *fiber.App {
	t.Helper()
	cfg := &config.Config{JWTSecret: testutil.TestSecret}
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	New().RegisterRoutes(app.Group("/api"), &apps.Deps{
		Store:  f.store,
		Config: cfg,
		Temas:  f.svc.temas,
		Auth:   middleware.JWTProtected(cfg),
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string, user *models.User) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+testutil.AccessToken(t, user))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

const scenarioBody = `{"titulo":"Reduce Plastic","conteudo":"Use reusable bags.","tema":"Eco","subtemas":["Plastic","Waste"]}`

func TestCreateDicaEndpoint(t *testing.T) {
	f := newFixture(t)
	author := testutil.CreateUser(t, f.db, "a@x.com", false)
	testutil.CreateTema(t, f.db, "Eco")
	app := newApp(t, f)

	resp, _ := do(t, app, http.MethodPost, "/api/dicas", scenarioBody, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := do(t, app, http.MethodPost, "/api/dicas", scenarioBody, author)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var dica DicaResponse
	require.NoError(t, json.Unmarshal(body, &dica))
	assert.False(t, dica.IsCreatedBySpecialist)
	assert.Len(t, dica.Subtemas, 2)
	assert.Equal(t, author.ID, dica.AuthorID)
}

func TestCreateDicaUnknownTemaEndpoint(t *testing.T) {
	f := newFixture(t)
	author := testutil.CreateUser(t, f.db, "a@x.com", false)
	app := newApp(t, f)

	resp, body := do(t, app, http.MethodPost, "/api/dicas", scenarioBody, author)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.True(t, e.Error)
	assert.Equal(t, services.ErrTemaNotFound.Message, e.Message)
}

func TestCreateDicaValidationDetail(t *testing.T) {
	f := newFixture(t)
	author := testutil.CreateUser(t, f.db, "a@x.com", false)
	testutil.CreateTema(t, f.db, "Eco")
	app := newApp(t, f)

	resp, body := do(t, app, http.MethodPost, "/api/dicas", `{"conteudo":"x","tema":"Eco"}`, author)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), `"field":"conteudo"`)
}

func TestVerifyAsNonMonitorEndpoint(t *testing.T) {
	f := newFixture(t)
	author := testutil.CreateUser(t, f.db, "a@x.com", false)
	testutil.CreateTema(t, f.db, "Eco")
	app := newApp(t, f)

	_, body := do(t, app, http.MethodPost, "/api/dicas", scenarioBody, author)
	var dica DicaResponse
	require.NoError(t, json.Unmarshal(body, &dica))

	resp, _ := do(t, app, http.MethodPatch, "/api/dicas/"+dica.ID.String()+"/verificar", "", author)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = do(t, app, http.MethodGet, "/api/dicas/"+dica.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &dica))
	assert.False(t, dica.IsVerify)
}

func TestDeleteThenGetEndpoint(t *testing.T) {
	f := newFixture(t)
	author := testutil.CreateUser(t, f.db, "a@x.com", false)
	testutil.CreateTema(t, f.db, "Eco")
	app := newApp(t, f)

	_, body := do(t, app, http.MethodPost, "/api/dicas", scenarioBody, author)
	var dica DicaResponse
	require.NoError(t, json.Unmarshal(body, &dica))

	resp, _ := do(t, app, http.MethodDelete, "/api/dicas/"+dica.ID.String(), "", author)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Zero(t, f.countLinks(t))

	resp, _ = do(t, app, http.MethodGet, "/api/dicas/"+dica.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTemaRoutesEndpoint(t *testing.T) {
	f := newFixture(t)
	author := testutil.CreateUser(t, f.db, "a@x.com", false)
	testutil.CreateTema(t, f.db, "Eco")
	app := newApp(t, f)

	resp, _ := do(t, app, http.MethodGet, "/api/dicas/tema/Eco/nao-verificadas", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	do(t, app, http.MethodPost, "/api/dicas", scenarioBody, author)

	resp, body := do(t, app, http.MethodGet, "/api/dicas/tema/Eco/nao-verificadas", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []DicaResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list, 1)

	resp, _ = do(t, app, http.MethodGet, "/api/dicas/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
