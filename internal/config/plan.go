package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/land-temperature-etl/internal/domain"
	"gopkg.in/yaml.v3"
)

// Plan lists the series a run extracts by name, and optionally overrides TOP_N.
type Plan struct {
	TopN       int             `yaml:"top_n"`
	Selections []PlanSelection `yaml:"selections"`
}

// PlanSelection names entities of one dimension.
type PlanSelection struct {
	Dimension string   `yaml:"dimension"`
	Names     []string `yaml:"names"`
}

// DefaultPlan selects Abidjan and Paris among cities and the United States among countries.
func DefaultPlan() *Plan {
	return &Plan{
		Selections: []PlanSelection{
			{Dimension: string(domain.DimensionCity), Names: []string{"Abidjan", "Paris"}},
			{Dimension: string(domain.DimensionCountry), Names: []string{"United States"}},
		},
	}
}

// LoadPlan reads a YAML plan from path. An empty path yields DefaultPlan.
func LoadPlan(path string) (*Plan, error) {
	if path == "" {
		return DefaultPlan(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	plan, err := ParsePlan(data)
	if err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", path, err)
	}
	return plan, nil
}

// ParsePlan decodes and validates a YAML plan. Unknown keys are rejected.
func ParsePlan(data []byte) (*Plan, error) {
	var plan Plan
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if plan.TopN < 0 || plan.TopN > 100 {
		return nil, errors.New("top_n must be between 0 (unset) and 100")
	}
	if _, err := plan.DomainSelections(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// DomainSelections converts the plan entries into domain selections.
func (p *Plan) DomainSelections() ([]domain.Selection, error) {
	out := make([]domain.Selection, 0, len(p.Selections))
	for i, s := range p.Selections {
		d, err := domain.ParseDimension(s.Dimension)
		if err != nil {
			return nil, fmt.Errorf("selection %d: %w", i, err)
		}
		if len(s.Names) == 0 {
			return nil, fmt.Errorf("selection %d: names are required", i)
		}
		out = append(out, domain.Selection{Dimension: d, Names: s.Names})
	}
	return out, nil
}

// EffectiveTopN returns the plan override when set, else fallback.
func (p *Plan) EffectiveTopN(fallback int) int {
	if p.TopN > 0 {
		return p.TopN
	}
	return fallback
}
