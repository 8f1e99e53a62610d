package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
)

type CriterionRepository struct {
	db *sql.DB
}

func NewCriterionRepository(db *sql.DB) *CriterionRepository {
	return &CriterionRepository{db: db}
}

const selectCriterion = `
SELECT id, category_id, name, pattern, weight, created_at
FROM criteria
`

func (r *CriterionRepository) CreateCriterion(ctx context.Context, criterion *domain.Criterion) error {
	row := r.db.QueryRowContext(ctx, `
INSERT INTO criteria (category_id, name, pattern, weight, created_at)
VALUES ($1,$2,$3,$4,$5)
RETURNING id
`, criterion.CategoryID, criterion.Name, criterion.Pattern, criterion.Weight, criterion.CreatedAt)
	if err := row.Scan(&criterion.ID); err != nil {
		return mapWriteError("insert criterion", err)
	}
	return nil
}

func (r *CriterionRepository) ListCriteria(ctx context.Context, filter domain.CriteriaFilter) ([]domain.Criterion, error) {
	query := selectCriterion
	args := make([]any, 0, 1)
	if filter.CategoryID > 0 {
		query += "WHERE category_id = $1\n"
		args = append(args, filter.CategoryID)
	}
	query += "ORDER BY category_id, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list criteria: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Criterion, 0)
	for rows.Next() {
		criterion, err := scanCriterion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan criterion: %w", err)
		}
		out = append(out, criterion)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate criteria: %w", err)
	}
	return out, nil
}

func (r *CriterionRepository) GetCriterion(ctx context.Context, id int64) (*domain.Criterion, error) {
	row := r.db.QueryRowContext(ctx, selectCriterion+"WHERE id = $1", id)
	criterion, err := scanCriterion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrCriterionNotFound, "get criterion", fmt.Errorf("id=%d", id))
		}
		return nil, fmt.Errorf("get criterion: %w", err)
	}
	return &criterion, nil
}

func (r *CriterionRepository) UpdateCriterion(ctx context.Context, criterion *domain.Criterion) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE criteria
SET category_id = $2, name = $3, pattern = $4, weight = $5
WHERE id = $1
`, criterion.ID, criterion.CategoryID, criterion.Name, criterion.Pattern, criterion.Weight)
	if err != nil {
		return mapWriteError("update criterion", err)
	}
	return expectAffected(result, domain.ErrCriterionNotFound, "update criterion", criterion.ID)
}

func (r *CriterionRepository) DeleteCriterion(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM criteria WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete criterion: %w", err)
	}
	return expectAffected(result, domain.ErrCriterionNotFound, "delete criterion", id)
}

// ListWithCategory builds the criteria index. The ORDER BY fixes the scoring order,
// which in turn decides ties between equally scored categories.
func (r *CriterionRepository) ListWithCategory(ctx context.Context) ([]domain.CriterionWithCategory, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT cr.id, cr.category_id, cr.name, cr.pattern, cr.weight, cr.created_at,
	c.id, c.name, c.color, COALESCE(c.description, ''), c.created_at
FROM criteria cr
JOIN categories c ON c.id = cr.category_id
ORDER BY c.id, cr.id
`)
	if err != nil {
		return nil, fmt.Errorf("list criteria index: %w", err)
	}
	defer rows.Close()

	out := make([]domain.CriterionWithCategory, 0)
	for rows.Next() {
		var item domain.CriterionWithCategory
		if err := rows.Scan(
			&item.Criterion.ID, &item.Criterion.CategoryID, &item.Criterion.Name,
			&item.Criterion.Pattern, &item.Criterion.Weight, &item.Criterion.CreatedAt,
			&item.Category.ID, &item.Category.Name, &item.Category.Color,
			&item.Category.Description, &item.Category.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan criteria index: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate criteria index: %w", err)
	}
	return out, nil
}

func scanCriterion(row rowScanner) (domain.Criterion, error) {
	var c domain.Criterion
	if err := row.Scan(&c.ID, &c.CategoryID, &c.Name, &c.Pattern, &c.Weight, &c.CreatedAt); err != nil {
		return domain.Criterion{}, err
	}
	return c, nil
}
