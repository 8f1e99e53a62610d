package domain

import (
	"regexp"
	"time"
)

const DefaultCategoryColor = "#6b7280"

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Criterion is a named weighted pattern rule belonging to one category.
type Criterion struct {
	ID         int64     `json:"id"`
	CategoryID int64     `json:"category_id"`
	Name       string    `json:"name"`
	Pattern    string    `json:"pattern"`
	Weight     float64   `json:"weight"`
	CreatedAt  time.Time `json:"created_at"`
}

// CriterionWithCategory is one entry of the criteria index: a criterion joined with its category.
type CriterionWithCategory struct {
	Criterion Criterion
	Category  Category
}

type CategoryInput struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

type CriterionInput struct {
	CategoryID int64   `json:"category_id"`
	Name       string  `json:"name"`
	Pattern    string  `json:"pattern"`
	Weight     float64 `json:"weight"`
}

type CriteriaFilter struct {
	CategoryID int64
}

func ValidColor(color string) bool {
	return hexColorPattern.MatchString(color)
}

func ValidWeight(weight float64) bool {
	return weight >= 0 && weight <= 1
}

// CategorySeed is one category of a catalog seed file with its criteria.
type CategorySeed struct {
	Category CategoryInput
	Criteria []CriterionSeed
}

type CriterionSeed struct {
	Name    string
	Pattern string
	Weight  float64
}

type SeedReport struct {
	CategoriesCreated int `json:"categories_created"`
	CriteriaCreated   int `json:"criteria_created"`
	CriteriaSkipped   int `json:"criteria_skipped"`
}
