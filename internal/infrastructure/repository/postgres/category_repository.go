package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const selectCategory = `
SELECT id, name, color, COALESCE(description, ''), created_at
FROM categories
`

func (r *CategoryRepository) CreateCategory(ctx context.Context, category *domain.Category) error {
	row := r.db.QueryRowContext(ctx, `
INSERT INTO categories (name, color, description, created_at)
VALUES ($1,$2,$3,$4)
RETURNING id
`, category.Name, category.Color, nullIfEmpty(category.Description), category.CreatedAt)
	if err := row.Scan(&category.ID); err != nil {
		return mapWriteError("insert category", err)
	}
	return nil
}

func (r *CategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, selectCategory+"ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

func (r *CategoryRepository) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	row := r.db.QueryRowContext(ctx, selectCategory+"WHERE id = $1", id)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrCategoryNotFound, "get category", fmt.Errorf("id=%d", id))
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &category, nil
}

func (r *CategoryRepository) GetCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	row := r.db.QueryRowContext(ctx, selectCategory+"WHERE lower(name) = lower($1)", name)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrCategoryNotFound, "get category by name", fmt.Errorf("name=%s", name))
		}
		return nil, fmt.Errorf("get category by name: %w", err)
	}
	return &category, nil
}

func (r *CategoryRepository) UpdateCategory(ctx context.Context, category *domain.Category) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE categories
SET name = $2, color = $3, description = $4
WHERE id = $1
`, category.ID, category.Name, category.Color, nullIfEmpty(category.Description))
	if err != nil {
		return mapWriteError("update category", err)
	}
	return expectAffected(result, domain.ErrCategoryNotFound, "update category", category.ID)
}

// DeleteCategory removes the category; its criteria go with it through ON DELETE CASCADE.
func (r *CategoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return expectAffected(result, domain.ErrCategoryNotFound, "delete category", id)
}

func scanCategory(row rowScanner) (domain.Category, error) {
	var c domain.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Color, &c.Description, &c.CreatedAt); err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

func expectAffected(result sql.Result, kind error, operation string, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if rows == 0 {
		return domain.WrapError(kind, operation, fmt.Errorf("id=%d", id))
	}
	return nil
}
