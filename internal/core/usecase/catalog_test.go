package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
)

// catalogStoreFake is an in-memory category + criteria store.
type catalogStoreFake struct {
	nextID     int64
	categories map[int64]domain.Category
	criteria   map[int64]domain.Criterion
}

func newCatalogStoreFake() *catalogStoreFake {
	return &catalogStoreFake{
		categories: make(map[int64]domain.Category),
		criteria:   make(map[int64]domain.Criterion),
	}
}

func (f *catalogStoreFake) CreateCategory(_ context.Context, c *domain.Category) error {
	for _, existing := range f.categories {
		if strings.EqualFold(existing.Name, c.Name) {
			return domain.WrapError(domain.ErrConflict, "create category", fmt.Errorf("name=%s", c.Name))
		}
	}
	f.nextID++
	c.ID = f.nextID
	f.categories[c.ID] = *c
	return nil
}

func (f *catalogStoreFake) ListCategories(context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *catalogStoreFake) GetCategory(_ context.Context, id int64) (*domain.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrCategoryNotFound, "get category", fmt.Errorf("id=%d", id))
	}
	return &c, nil
}

func (f *catalogStoreFake) GetCategoryByName(_ context.Context, name string) (*domain.Category, error) {
	for _, c := range f.categories {
		if strings.EqualFold(c.Name, name) {
			found := c
			return &found, nil
		}
	}
	return nil, domain.WrapError(domain.ErrCategoryNotFound, "get category by name", fmt.Errorf("name=%s", name))
}

func (f *catalogStoreFake) UpdateCategory(_ context.Context, c *domain.Category) error {
	if _, ok := f.categories[c.ID]; !ok {
		return domain.WrapError(domain.ErrCategoryNotFound, "update category", fmt.Errorf("id=%d", c.ID))
	}
	f.categories[c.ID] = *c
	return nil
}

func (f *catalogStoreFake) DeleteCategory(_ context.Context, id int64) error {
	if _, ok := f.categories[id]; !ok {
		return domain.WrapError(domain.ErrCategoryNotFound, "delete category", fmt.Errorf("id=%d", id))
	}
	delete(f.categories, id)
	for cid, c := range f.criteria {
		if c.CategoryID == id {
			delete(f.criteria, cid)
		}
	}
	return nil
}

func (f *catalogStoreFake) CreateCriterion(_ context.Context, c *domain.Criterion) error {
	f.nextID++
	c.ID = f.nextID
	f.criteria[c.ID] = *c
	return nil
}

func (f *catalogStoreFake) ListCriteria(_ context.Context, filter domain.CriteriaFilter) ([]domain.Criterion, error) {
	out := make([]domain.Criterion, 0)
	for _, c := range f.criteria {
		if filter.CategoryID != 0 && c.CategoryID != filter.CategoryID {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *catalogStoreFake) GetCriterion(_ context.Context, id int64) (*domain.Criterion, error) {
	c, ok := f.criteria[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrCriterionNotFound, "get criterion", fmt.Errorf("id=%d", id))
	}
	return &c, nil
}

func (f *catalogStoreFake) UpdateCriterion(_ context.Context, c *domain.Criterion) error {
	f.criteria[c.ID] = *c
	return nil
}

func (f *catalogStoreFake) DeleteCriterion(_ context.Context, id int64) error {
	if _, ok := f.criteria[id]; !ok {
		return domain.WrapError(domain.ErrCriterionNotFound, "delete criterion", fmt.Errorf("id=%d", id))
	}
	delete(f.criteria, id)
	return nil
}

func (f *catalogStoreFake) ListWithCategory(context.Context) ([]domain.CriterionWithCategory, error) {
	criteria, _ := f.ListCriteria(context.Background(), domain.CriteriaFilter{})
	out := make([]domain.CriterionWithCategory, 0, len(criteria))
	for _, c := range criteria {
		out = append(out, domain.CriterionWithCategory{Criterion: c, Category: f.categories[c.CategoryID]})
	}
	return out, nil
}

func TestCreateCategoryDefaultsColorAndTrims(t *testing.T) {
	store := newCatalogStoreFake()
	uc := NewCatalogUseCase(store, store)

	category, err := uc.CreateCategory(context.Background(), domain.CategoryInput{Name: "  Business ", Description: " memos "})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if category.ID == 0 || category.Name != "Business" || category.Description != "memos" {
		t.Fatalf("unexpected category: %+v", category)
	}
	if category.Color != domain.DefaultCategoryColor {
		t.Fatalf("expected default color, got %s", category.Color)
	}
}

func TestCreateCategoryValidation(t *testing.T) {
	uc := NewCatalogUseCase(newCatalogStoreFake(), newCatalogStoreFake())

	cases := []domain.CategoryInput{
		{Name: ""},
		{Name: "Legal", Color: "red"},
		{Name: "Legal", Color: "#12345"},
	}
	for _, in := range cases {
		if _, err := uc.CreateCategory(context.Background(), in); !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestCreateCriterionValidation(t *testing.T) {
	store := newCatalogStoreFake()
	uc := NewCatalogUseCase(store, store)
	category, err := uc.CreateCategory(context.Background(), domain.CategoryInput{Name: "Legal"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}

	invalid := []domain.CriterionInput{
		{CategoryID: category.ID, Name: "", Pattern: "x", Weight: 0.5},
		{CategoryID: category.ID, Name: "n", Pattern: " ", Weight: 0.5},
		{CategoryID: category.ID, Name: "n", Pattern: "x", Weight: 1.01},
		{CategoryID: category.ID, Name: "n", Pattern: "x", Weight: -0.1},
		{CategoryID: 0, Name: "n", Pattern: "x", Weight: 0.5},
	}
	for _, in := range invalid {
		if _, err := uc.CreateCriterion(context.Background(), in); !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", in, err)
		}
	}

	_, err = uc.CreateCriterion(context.Background(), domain.CriterionInput{CategoryID: 99, Name: "n", Pattern: "x", Weight: 0.5})
	if !domain.IsKind(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}

	for _, weight := range []float64{0, 1} {
		if _, err := uc.CreateCriterion(context.Background(), domain.CriterionInput{CategoryID: category.ID, Name: "edge", Pattern: "x", Weight: weight}); err != nil {
			t.Fatalf("weight %v should be accepted, got %v", weight, err)
		}
	}
}

func TestCreateCriterionKeepsPatternVerbatim(t *testing.T) {
	store := newCatalogStoreFake()
	uc := NewCatalogUseCase(store, store)
	category, err := uc.CreateCategory(context.Background(), domain.CategoryInput{Name: "Finance"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}

	created, err := uc.CreateCriterion(context.Background(), domain.CriterionInput{
		CategoryID: category.ID, Name: " tax word ", Pattern: " tax ", Weight: 0.5,
	})
	if err != nil {
		t.Fatalf("CreateCriterion() error = %v", err)
	}
	if created.Pattern != " tax " || created.Name != "tax word" {
		t.Fatalf("expected pattern kept and name trimmed, got pattern=%q name=%q", created.Pattern, created.Name)
	}

	stored, err := store.GetCriterion(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetCriterion() error = %v", err)
	}
	if stored.Pattern != " tax " {
		t.Fatalf("stored pattern = %q, want %q", stored.Pattern, " tax ")
	}

	updated, err := uc.UpdateCriterion(context.Background(), created.ID, domain.CriterionInput{
		CategoryID: category.ID, Name: "tax word", Pattern: `\btax\b `, Weight: 0.5,
	})
	if err != nil {
		t.Fatalf("UpdateCriterion() error = %v", err)
	}
	if updated.Pattern != `\btax\b ` {
		t.Fatalf("updated pattern = %q", updated.Pattern)
	}
}

func TestUpdateCriterionMovesToExistingCategoryOnly(t *testing.T) {
	store := newCatalogStoreFake()
	uc := NewCatalogUseCase(store, store)
	ctx := context.Background()

	legal, _ := uc.CreateCategory(ctx, domain.CategoryInput{Name: "Legal"})
	finance, _ := uc.CreateCategory(ctx, domain.CategoryInput{Name: "Finance"})
	criterion, err := uc.CreateCriterion(ctx, domain.CriterionInput{CategoryID: legal.ID, Name: "Invoice", Pattern: "invoice", Weight: 0.4})
	if err != nil {
		t.Fatalf("CreateCriterion() error = %v", err)
	}

	updated, err := uc.UpdateCriterion(ctx, criterion.ID, domain.CriterionInput{CategoryID: finance.ID, Name: "Invoice", Pattern: "invoice|bill", Weight: 0.6})
	if err != nil {
		t.Fatalf("UpdateCriterion() error = %v", err)
	}
	if updated.CategoryID != finance.ID || updated.Pattern != "invoice|bill" || updated.Weight != 0.6 {
		t.Fatalf("unexpected update: %+v", updated)
	}

	_, err = uc.UpdateCriterion(ctx, criterion.ID, domain.CriterionInput{CategoryID: 404, Name: "Invoice", Pattern: "invoice", Weight: 0.6})
	if !domain.IsKind(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestDeleteCategoryRemovesItsCriteria(t *testing.T) {
	store := newCatalogStoreFake()
	uc := NewCatalogUseCase(store, store)
	ctx := context.Background()

	legal, _ := uc.CreateCategory(ctx, domain.CategoryInput{Name: "Legal"})
	if _, err := uc.CreateCriterion(ctx, domain.CriterionInput{CategoryID: legal.ID, Name: "Contract", Pattern: "contract", Weight: 0.9}); err != nil {
		t.Fatalf("CreateCriterion() error = %v", err)
	}
	if err := uc.DeleteCategory(ctx, legal.ID); err != nil {
		t.Fatalf("DeleteCategory() error = %v", err)
	}
	criteria, _ := uc.ListCriteria(ctx, domain.CriteriaFilter{})
	if len(criteria) != 0 {
		t.Fatalf("expected criteria to be removed with their category, got %+v", criteria)
	}
	if err := uc.DeleteCategory(ctx, legal.ID); !domain.IsKind(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound on second delete, got %v", err)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	store := newCatalogStoreFake()
	uc := NewCatalogUseCase(store, store)
	seeds := []domain.CategorySeed{
		{
			Category: domain.CategoryInput{Name: "Business", Color: "#1F77B4"},
			Criteria: []domain.CriterionSeed{
				{Name: "Business terms", Pattern: "business|company", Weight: 0.8},
				{Name: "Financial terms", Pattern: "revenue|profit", Weight: 0.7},
			},
		},
		{
			Category: domain.CategoryInput{Name: "Legal"},
			Criteria: []domain.CriterionSeed{{Name: "Contract", Pattern: "contract", Weight: 0.9}},
		},
	}

	report, err := uc.Seed(context.Background(), seeds)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if report.CategoriesCreated != 2 || report.CriteriaCreated != 3 || report.CriteriaSkipped != 0 {
		t.Fatalf("unexpected first seed report: %+v", report)
	}

	report, err = uc.Seed(context.Background(), seeds)
	if err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}
	if report.CategoriesCreated != 0 || report.CriteriaCreated != 0 || report.CriteriaSkipped != 3 {
		t.Fatalf("unexpected second seed report: %+v", report)
	}

	business, err := store.GetCategoryByName(context.Background(), "business")
	if err != nil {
		t.Fatalf("GetCategoryByName() error = %v", err)
	}
	if business.Color != "#1f77b4" {
		t.Fatalf("expected lower-cased color, got %s", business.Color)
	}
}

func TestSeedThenClassify(t *testing.T) {
	store := newCatalogStoreFake()
	catalog := NewCatalogUseCase(store, store)
	ctx := context.Background()

	_, err := catalog.Seed(ctx, []domain.CategorySeed{{
		Category: domain.CategoryInput{Name: "Business"},
		Criteria: []domain.CriterionSeed{
			{Name: "Business terms", Pattern: "business|company", Weight: 0.8},
			{Name: "Financial terms", Pattern: "revenue|profit", Weight: 0.7},
		},
	}})
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	docs := &classifyDocsFake{docs: map[string]*domain.Document{
		"doc-1": {ID: "doc-1", Content: "business revenue"},
	}}
	results := &resultsFake{}
	uc := NewClassifyDocumentUseCase(docs, store, results, ClassifyOptions{})

	outcome, err := uc.Classify(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if outcome.Category.Name != "Business" || outcome.Result.ConfidenceLevel != domain.ConfidenceMedium {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
}
