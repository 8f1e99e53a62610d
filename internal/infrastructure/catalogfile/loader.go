// Package catalogfile reads category and criteria seed files written in YAML.
package catalogfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
)

type fileCatalog struct {
	Categories []fileCategory `yaml:"categories"`
}

type fileCategory struct {
	Name        string          `yaml:"name"`
	Color       string          `yaml:"color"`
	Description string          `yaml:"description"`
	Criteria    []fileCriterion `yaml:"criteria"`
}

type fileCriterion struct {
	Name    string   `yaml:"name"`
	Pattern string   `yaml:"pattern"`
	Weight  *float64 `yaml:"weight"`
}

func Load(path string) ([]domain.CategorySeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a catalog document. Unknown keys are rejected; a criterion without
// an explicit weight gets 1.0.
func Parse(r io.Reader) ([]domain.CategorySeed, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc fileCatalog
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.WrapError(domain.ErrInvalidInput, "parse catalog", errors.New("catalog file is empty"))
		}
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse catalog", err)
	}

	seeds := make([]domain.CategorySeed, 0, len(doc.Categories))
	for i, cat := range doc.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			return nil, domain.WrapError(domain.ErrInvalidInput, "parse catalog", fmt.Errorf("categories[%d]: name is required", i))
		}
		seed := domain.CategorySeed{
			Category: domain.CategoryInput{
				Name:        cat.Name,
				Color:       cat.Color,
				Description: cat.Description,
			},
			Criteria: make([]domain.CriterionSeed, 0, len(cat.Criteria)),
		}
		for j, cr := range cat.Criteria {
			weight := 1.0
			if cr.Weight != nil {
				weight = *cr.Weight
			}
			if !domain.ValidWeight(weight) {
				return nil, domain.WrapError(domain.ErrInvalidInput, "parse catalog",
					fmt.Errorf("categories[%d].criteria[%d]: weight %v out of range [0,1]", i, j, weight))
			}
			seed.Criteria = append(seed.Criteria, domain.CriterionSeed{
				Name:    cr.Name,
				Pattern: cr.Pattern,
				Weight:  weight,
			})
		}
		seeds = append(seeds, seed)
	}
	return seeds, nil
}
