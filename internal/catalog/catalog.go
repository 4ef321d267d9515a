// Package catalog holds the fixed set of valid theme codes. The set is read
// once at startup from a YAML file and is read-only afterwards.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

type Theme struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type themesFile struct {
	Themes []Theme `yaml:"themes"`
}

// Defaults is used when no catalog file is present.
var Defaults = []Theme{
	{Name: "Alimentacao", Description: "Alimentação consciente e receitas sustentáveis"},
	{Name: "Agua", Description: "Uso consciente da água"},
	{Name: "Energia", Description: "Economia e fontes renováveis de energia"},
	{Name: "Residuos", Description: "Redução, reuso e reciclagem de resíduos"},
	{Name: "Mobilidade", Description: "Transporte sustentável"},
	{Name: "Consumo", Description: "Consumo responsável"},
}

type Registry struct {
	mu     sync.RWMutex
	themes map[string]Theme
}

func NewRegistry(themes ...Theme) *Registry {
	r := &Registry{themes: make(map[string]Theme, len(themes))}
	for _, t := range themes {
		r.Register(t)
	}
	return r
}

// LoadFromFile parses a themes.yaml file. A missing file yields the default
// catalog; a malformed one is an error.
func LoadFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewRegistry(Defaults...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read themes catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Registry, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file themesFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse themes catalog: %w", err)
	}
	if len(file.Themes) == 0 {
		return nil, errors.New("themes catalog is empty")
	}

	r := NewRegistry()
	for _, t := range file.Themes {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			return nil, errors.New("themes catalog entry without name")
		}
		if r.Exists(t.Name) {
			return nil, fmt.Errorf("duplicate theme %q in catalog", t.Name)
		}
		r.Register(t)
	}
	return r, nil
}

func (r *Registry) Register(t Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.themes[t.Name] = t
}

func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.themes[name]
	return ok
}

// All returns the catalog sorted by name.
func (r *Registry) All() []Theme {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Theme, 0, len(r.themes))
	for _, t := range r.themes {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
