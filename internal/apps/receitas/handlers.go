package receitas

import (
	"encoding/json"
	"strings"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const photoField = "fotos"

type Handler struct {
	service      *Service
	ingredientes *IngredienteService
}

func NewHandler(service *Service, ingredientes *IngredienteService) *Handler {
	return &Handler{service: service, ingredientes: ingredientes}
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// splitList accepts repeated form fields as well as comma separated values.
func splitList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	var out []string
	for _, v := range values {
		out = append(out, strings.Split(v, ",")...)
	}
	return out
}

// parseRequest reads a JSON body or a multipart form. In a form the
// ingredientes field carries a JSON array.
func parseRequest(c *fiber.Ctx) (*ReceitaRequest, error) {
	var req ReceitaRequest
	if !handlers.IsMultipart(c) {
		if err := c.BodyParser(&req); err != nil {
			return nil, apperr.BadRequest("Invalid request body")
		}
		return &req, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperr.BadRequest("invalid multipart form")
	}
	req.Title = first(form.Value["titulo"])
	req.Content = first(form.Value["conteudo"])
	req.TemaID = first(form.Value["temaId"])
	req.Assunto = first(form.Value["assunto"])
	req.Subtemas = splitList(form.Value["subtemas"])
	if raw := first(form.Value["ingredientes"]); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Ingredientes); err != nil {
			return nil, apperr.BadRequest("ingredientes must be a JSON array")
		}
	}
	return &req, nil
}

func (h *Handler) List(c *fiber.Ctx) error {
	list, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := handlers.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	receita, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(receita)
}

func (h *Handler) ByTema(c *fiber.Ctx) error {
	return h.byTema(c, nil)
}

func (h *Handler) Verified(c *fiber.Ctx) error {
	verified := true
	return h.byTema(c, &verified)
}

func (h *Handler) NotVerified(c *fiber.Ctx) error {
	verified := false
	return h.byTema(c, &verified)
}

func (h *Handler) byTema(c *fiber.Ctx, verified *bool) error {
	list, err := h.service.ByTema(c.UserContext(), c.Params("tema"), verified)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// BySubtemas serves /tema/:tema/subtemas?subtemas=a,b.
func (h *Handler) BySubtemas(c *fiber.Ctx) error {
	names := splitList([]string{c.Query("subtemas")})
	list, err := h.service.BySubtemas(c.UserContext(), c.Params("tema"), names)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	email := middleware.Email(c)
	if email == "" {
		return apperr.Unauthorized("Unauthorized")
	}
	req, err := parseRequest(c)
	if err != nil {
		return err
	}
	photos, err := handlers.FormFiles(c, photoField, validation.MaxRecipePhotos)
	if err != nil {
		return err
	}

	receita, err := h.service.Create(c.UserContext(), email, req, photos)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(receita)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := handlers.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	req, err := parseRequest(c)
	if err != nil {
		return err
	}
	photos, err := handlers.FormFiles(c, photoField, validation.MaxRecipePhotos)
	if err != nil {
		return err
	}

	receita, err := h.service.Update(c.UserContext(), id, req, photos)
	if err != nil {
		return err
	}
	return c.JSON(receita)
}

func (h *Handler) Verify(c *fiber.Ctx) error {
	id, err := handlers.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	receita, err := h.service.Verify(c.UserContext(), id, middleware.Email(c))
	if err != nil {
		return err
	}
	return c.JSON(receita)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := handlers.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) AddIngrediente(c *fiber.Ctx) error {
	id, err := handlers.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req IngredienteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	ing, err := h.ingredientes.Create(c.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(ing)
}

// ListIngredientes accepts an optional ?receitaId= filter.
func (h *Handler) ListIngredientes(c *fiber.Ctx) error {
	var receitaID *uuid.UUID
	if raw := c.Query("receitaId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperr.BadRequest("invalid receitaId")
		}
		receitaID = &id
	}
	list, err := h.ingredientes.List(c.UserContext(), receitaID)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (h *Handler) GetIngrediente(c *fiber.Ctx) error {
	id, err := handlers.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	ing, err := h.ingredientes.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(ing)
}

func (h *Handler) UpdateIngrediente(c *fiber.Ctx) error {
	id, err := handlers.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req IngredienteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	ing, err := h.ingredientes.Update(c.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(ing)
}

func (h *Handler) DeleteIngrediente(c *fiber.Ctx) error {
	id, err := handlers.UUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.ingredientes.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
