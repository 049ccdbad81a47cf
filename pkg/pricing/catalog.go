package pricing

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog is returned when a catalog file fails to parse or validate
var ErrInvalidCatalog = errors.New("invalid plan catalog")

//go:embed catalog.yaml
var defaultCatalogYAML []byte

var validate = validator.New()

// Catalog is the ordered set of plans shown on the page
type Catalog struct {
	Plans []PlanDefinition `yaml:"plans" json:"plans" validate:"required,min=1,dive"`
}

// DefaultCatalog returns the built-in Starter and Pro Teacher plans
func DefaultCatalog() *Catalog {
	catalog, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return catalog
}

// LoadCatalog reads and validates a YAML catalog file
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses and validates YAML catalog data
func ParseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	if err := validate.Struct(&catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	seen := make(map[string]bool, len(catalog.Plans))
	for _, plan := range catalog.Plans {
		if seen[plan.ID] {
			return nil, fmt.Errorf("%w: duplicate plan id %q", ErrInvalidCatalog, plan.ID)
		}
		seen[plan.ID] = true
	}

	return &catalog, nil
}

// Plan looks up a plan by ID
func (c *Catalog) Plan(id string) (PlanDefinition, bool) {
	for _, plan := range c.Plans {
		if plan.ID == id {
			return plan, true
		}
	}
	return PlanDefinition{}, false
}

// Warnings lists catalog problems that do not prevent rendering
func (c *Catalog) Warnings() []string {
	var warnings []string

	var popular []string
	for _, plan := range c.Plans {
		if plan.IsPopular {
			popular = append(popular, plan.ID)
		}
	}
	if len(popular) > 1 {
		warnings = append(warnings, fmt.Sprintf("%d plans are marked popular: %v", len(popular), popular))
	}

	return warnings
}
