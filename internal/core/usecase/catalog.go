package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
	"github.com/kirillkom/doc-classifier/internal/core/ports"
)

type CatalogUseCase struct {
	categories ports.CategoryRepository
	criteria   ports.CriteriaRepository
}

func NewCatalogUseCase(categories ports.CategoryRepository, criteria ports.CriteriaRepository) *CatalogUseCase {
	return &CatalogUseCase{categories: categories, criteria: criteria}
}

func (uc *CatalogUseCase) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	in, err := normalizeCategoryInput(in)
	if err != nil {
		return nil, err
	}
	category := &domain.Category{
		Name:        in.Name,
		Color:       in.Color,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.categories.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (uc *CatalogUseCase) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := uc.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (uc *CatalogUseCase) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := uc.categories.GetCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

func (uc *CatalogUseCase) UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, error) {
	in, err := normalizeCategoryInput(in)
	if err != nil {
		return nil, err
	}
	category, err := uc.categories.GetCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	category.Name = in.Name
	category.Color = in.Color
	category.Description = in.Description
	if err := uc.categories.UpdateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category together with its criteria. Stored classification
// results keep referencing the category id.
func (uc *CatalogUseCase) DeleteCategory(ctx context.Context, id int64) error {
	if err := uc.categories.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (uc *CatalogUseCase) CreateCriterion(ctx context.Context, in domain.CriterionInput) (*domain.Criterion, error) {
	in, err := normalizeCriterionInput(in)
	if err != nil {
		return nil, err
	}
	if _, err := uc.categories.GetCategory(ctx, in.CategoryID); err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	criterion := &domain.Criterion{
		CategoryID: in.CategoryID,
		Name:       in.Name,
		Pattern:    in.Pattern,
		Weight:     in.Weight,
		CreatedAt:  time.Now().UTC(),
	}
	if err := uc.criteria.CreateCriterion(ctx, criterion); err != nil {
		return nil, fmt.Errorf("create criterion: %w", err)
	}
	return criterion, nil
}

func (uc *CatalogUseCase) ListCriteria(ctx context.Context, filter domain.CriteriaFilter) ([]domain.Criterion, error) {
	criteria, err := uc.criteria.ListCriteria(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list criteria: %w", err)
	}
	return criteria, nil
}

func (uc *CatalogUseCase) UpdateCriterion(ctx context.Context, id int64, in domain.CriterionInput) (*domain.Criterion, error) {
	in, err := normalizeCriterionInput(in)
	if err != nil {
		return nil, err
	}
	criterion, err := uc.criteria.GetCriterion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get criterion: %w", err)
	}
	if in.CategoryID != criterion.CategoryID {
		if _, err := uc.categories.GetCategory(ctx, in.CategoryID); err != nil {
			return nil, fmt.Errorf("get category: %w", err)
		}
	}
	criterion.CategoryID = in.CategoryID
	criterion.Name = in.Name
	criterion.Pattern = in.Pattern
	criterion.Weight = in.Weight
	if err := uc.criteria.UpdateCriterion(ctx, criterion); err != nil {
		return nil, fmt.Errorf("update criterion: %w", err)
	}
	return criterion, nil
}

func (uc *CatalogUseCase) DeleteCriterion(ctx context.Context, id int64) error {
	if err := uc.criteria.DeleteCriterion(ctx, id); err != nil {
		return fmt.Errorf("delete criterion: %w", err)
	}
	return nil
}

// Seed creates missing categories (matched by name) and missing criteria (matched by name
// within their category). Existing rows are left untouched, so seeding is repeatable.
func (uc *CatalogUseCase) Seed(ctx context.Context, seeds []domain.CategorySeed) (domain.SeedReport, error) {
	var report domain.SeedReport
	for _, seed := range seeds {
		category, created, err := uc.ensureCategory(ctx, seed.Category)
		if err != nil {
			return report, err
		}
		if created {
			report.CategoriesCreated++
		}

		existing, err := uc.criteria.ListCriteria(ctx, domain.CriteriaFilter{CategoryID: category.ID})
		if err != nil {
			return report, fmt.Errorf("list criteria of %q: %w", category.Name, err)
		}
		names := make(map[string]bool, len(existing))
		for _, c := range existing {
			names[strings.ToLower(c.Name)] = true
		}

		for _, cs := range seed.Criteria {
			if names[strings.ToLower(strings.TrimSpace(cs.Name))] {
				report.CriteriaSkipped++
				continue
			}
			if _, err := uc.CreateCriterion(ctx, domain.CriterionInput{
				CategoryID: category.ID,
				Name:       cs.Name,
				Pattern:    cs.Pattern,
				Weight:     cs.Weight,
			}); err != nil {
				return report, fmt.Errorf("seed criterion %q of %q: %w", cs.Name, category.Name, err)
			}
			names[strings.ToLower(strings.TrimSpace(cs.Name))] = true
			report.CriteriaCreated++
		}
	}
	return report, nil
}

func (uc *CatalogUseCase) ensureCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, bool, error) {
	category, err := uc.categories.GetCategoryByName(ctx, strings.TrimSpace(in.Name))
	if err == nil {
		return category, false, nil
	}
	if !domain.IsKind(err, domain.ErrCategoryNotFound) {
		return nil, false, fmt.Errorf("find category %q: %w", in.Name, err)
	}
	category, err = uc.CreateCategory(ctx, in)
	if err != nil {
		return nil, false, fmt.Errorf("seed category %q: %w", in.Name, err)
	}
	return category, true, nil
}

func normalizeCategoryInput(in domain.CategoryInput) (domain.CategoryInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Color = strings.ToLower(strings.TrimSpace(in.Color))
	in.Description = strings.TrimSpace(in.Description)

	if in.Name == "" {
		return in, domain.WrapError(domain.ErrInvalidInput, "validate category", errors.New("name is required"))
	}
	if in.Color == "" {
		in.Color = domain.DefaultCategoryColor
	}
	if !domain.ValidColor(in.Color) {
		return in, domain.WrapError(domain.ErrInvalidInput, "validate category", fmt.Errorf("color %q is not a #rrggbb hex value", in.Color))
	}
	return in, nil
}

func normalizeCriterionInput(in domain.CriterionInput) (domain.CriterionInput, error) {
	in.Name = strings.TrimSpace(in.Name)

	// Patterns are stored as submitted; surrounding spaces can be part of the rule.
	switch {
	case in.CategoryID <= 0:
		return in, domain.WrapError(domain.ErrInvalidInput, "validate criterion", errors.New("category_id is required"))
	case in.Name == "":
		return in, domain.WrapError(domain.ErrInvalidInput, "validate criterion", errors.New("name is required"))
	case strings.TrimSpace(in.Pattern) == "":
		return in, domain.WrapError(domain.ErrInvalidInput, "validate criterion", errors.New("pattern is required"))
	case !domain.ValidWeight(in.Weight):
		return in, domain.WrapError(domain.ErrInvalidInput, "validate criterion", fmt.Errorf("weight %v is outside [0, 1]", in.Weight))
	}
	return in, nil
}
