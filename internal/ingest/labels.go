package ingest

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/miradorstack/mirador-pathmine/internal/models"
)

// Labeler assigns episode categories from a code rules file.
type Labeler struct {
	byCode  map[models.Code]string
	byLabel map[string]string
	logger  *slog.Logger
}

// Category groups codes under one named category.
type Category struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
	Codes   []string `yaml:"codes"`
}

// LabelsFile is the YAML root structure.
type LabelsFile struct {
	Categories []Category `yaml:"categories"`
}

// NewLabeler loads category rules from path. An empty or missing path yields
// a nil Labeler, which passes raw labels through unchanged.
func NewLabeler(path string, logger *slog.Logger) (*Labeler, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var file LabelsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	l := NewLabelerFromCategories(file.Categories)
	l.logger = logger
	logger.Debug("loaded label rules", slog.String("path", path), slog.Int("categories", len(file.Categories)))
	return l, nil
}

// NewLabelerFromCategories builds a Labeler from in-memory rules.
func NewLabelerFromCategories(categories []Category) *Labeler {
	l := &Labeler{
		byCode:  make(map[models.Code]string),
		byLabel: make(map[string]string),
		logger:  slog.Default(),
	}
	for _, cat := range categories {
		for _, code := range cat.Codes {
			l.byCode[models.Code(code)] = cat.Name
		}
		for _, alias := range cat.Aliases {
			l.byLabel[strings.TrimSpace(alias)] = cat.Name
		}
	}
	return l
}

// Resolve returns the category for an episode whose first record carries
// rawLabel and code. Code rules win over label aliases; otherwise the raw
// label is returned.
func (l *Labeler) Resolve(rawLabel string, code models.Code) string {
	if l == nil {
		return rawLabel
	}
	if name, ok := l.byCode[code]; ok {
		return name
	}
	if name, ok := l.byLabel[rawLabel]; ok {
		return name
	}
	return rawLabel
}
