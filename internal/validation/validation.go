// Package validation holds the pure input checks shared by the workflows.
// Checks collect field errors so a response can report every problem at once.
package validation

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/ecodicas-backend/internal/apperr"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{7,14}$`)

const (
	DicaContentMin     = 3
	DicaContentMax     = 1000
	DicaTitleMax       = 200
	IngredientNameMax  = 20
	UserNameMax        = 100
	PasswordMin        = 8
	ConsciousnessLevel = 5
	MaxRecipePhotos    = 8
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Errors []FieldError

func (e *Errors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// Err returns nil when no field failed, otherwise a Validation error whose
// detail lists every failure.
func (e Errors) Err(message string) error {
	if len(e) == 0 {
		return nil
	}
	return apperr.Validation(message, []FieldError(e))
}

func (e *Errors) Required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		e.Add(field, "is required")
		return false
	}
	return true
}

func (e *Errors) Length(field, value string, min, max int) {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	switch {
	case n < min:
		e.Add(field, "is too short")
	case max > 0 && n > max:
		e.Add(field, "is too long")
	}
}

func (e *Errors) Email(field, value string) {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != strings.TrimSpace(value) || !strings.Contains(addr.Address, ".") {
		e.Add(field, "must be a valid email address")
	}
}

func (e *Errors) Phone(field, value string) {
	if !phonePattern.MatchString(value) {
		e.Add(field, "must be a valid phone number")
	}
}

func (e *Errors) Range(field string, value, min, max int) {
	if value < min || value > max {
		e.Add(field, "is out of range")
	}
}

// Dica checks a tip: a body of 3 to 1000 characters and, when given, a
// title of at most DicaTitleMax characters.
func Dica(title, content string) error {
	var errs Errors
	errs.Length("conteudo", content, DicaContentMin, DicaContentMax)
	if strings.TrimSpace(title) != "" {
		errs.Length("titulo", title, 1, DicaTitleMax)
	}
	return errs.Err("invalid dica")
}

// Ingredient checks one ingredient payload: name of 1 to 20 characters,
// positive quantity and a unit.
func Ingredient(name string, quantity float64, unit string) error {
	var errs Errors
	if errs.Required("nome", name) {
		errs.Length("nome", name, 1, IngredientNameMax)
	}
	if quantity <= 0 {
		errs.Add("quantidade", "must be greater than zero")
	}
	errs.Required("unidade", unit)
	return errs.Err("invalid ingrediente")
}

type UserInput struct {
	Email              string
	Name               string
	Phone              string
	Password           string
	ConsciousnessLevel int
}

// NewUser checks a registration payload. Phone is optional.
func NewUser(in UserInput) error {
	var errs Errors
	if errs.Required("email", in.Email) {
		errs.Email("email", in.Email)
	}
	if errs.Required("nome", in.Name) {
		errs.Length("nome", in.Name, 1, UserNameMax)
	}
	if in.Phone != "" {
		errs.Phone("telefone", in.Phone)
	}
	Password(&errs, in.Password)
	errs.Range("nivelConsciencia", in.ConsciousnessLevel, 0, ConsciousnessLevel)
	return errs.Err("invalid user")
}

func Password(errs *Errors, password string) {
	if utf8.RuneCountInString(password) < PasswordMin {
		errs.Add("senha", "must have at least 8 characters")
	}
}

type QuizInput struct {
	Question   string
	TrueAnswer string
	Title      string
	Order      int
	AppID      string
}

func Quiz(in QuizInput) error {
	var errs Errors
	errs.Required("question", in.Question)
	errs.Required("trueAnswer", in.TrueAnswer)
	errs.Required("title", in.Title)
	errs.Required("appId", in.AppID)
	if in.Order < 1 {
		errs.Add("order", "must be at least 1")
	}
	return errs.Err("invalid quiz")
}
