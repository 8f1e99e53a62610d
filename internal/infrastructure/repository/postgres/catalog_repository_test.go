package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
)

func TestCreateCategoryReturnsGeneratedID(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewCategoryRepository(db)

	mock.ExpectQuery("INSERT INTO categories").
		WithArgs("Business", "#1f77b4", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	category := &domain.Category{Name: "Business", Color: "#1f77b4", CreatedAt: time.Now().UTC()}
	if err := repo.CreateCategory(context.Background(), category); err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if category.ID != 7 {
		t.Fatalf("expected id 7, got %d", category.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateCategoryDuplicateNameIsConflict(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewCategoryRepository(db)

	mock.ExpectQuery("INSERT INTO categories").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.CreateCategory(context.Background(), &domain.Category{Name: "Business", Color: "#1f77b4"})
	if !domain.IsKind(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestGetCategoryNotFound(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewCategoryRepository(db)

	mock.ExpectQuery("FROM categories").WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetCategory(context.Background(), 99)
	if !domain.IsKind(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestDeleteCategoryNoRowsAffected(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewCategoryRepository(db)

	mock.ExpectExec("DELETE FROM categories").WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteCategory(context.Background(), 5)
	if !domain.IsKind(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateCriterionUnknownCategory(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewCriterionRepository(db)

	mock.ExpectQuery("INSERT INTO criteria").
		WithArgs(int64(42), "revenue", "revenue", 0.5, sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.CreateCriterion(context.Background(), &domain.Criterion{
		CategoryID: 42, Name: "revenue", Pattern: "revenue", Weight: 0.5,
	})
	if !domain.IsKind(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestListCriteriaFiltersByCategory(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewCriterionRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery("WHERE category_id = ").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "category_id", "name", "pattern", "weight", "created_at"}).
			AddRow(int64(10), int64(3), "invoice", "invoice", 0.5, now))

	items, err := repo.ListCriteria(context.Background(), domain.CriteriaFilter{CategoryID: 3})
	if err != nil {
		t.Fatalf("ListCriteria() error = %v", err)
	}
	if len(items) != 1 || items[0].ID != 10 || items[0].CategoryID != 3 {
		t.Fatalf("unexpected criteria: %+v", items)
	}
}

func TestListWithCategoryKeepsQueryOrder(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewCriterionRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"cr.id", "cr.category_id", "cr.name", "cr.pattern", "cr.weight", "cr.created_at",
		"c.id", "c.name", "c.color", "c.description", "c.created_at",
	}).
		AddRow(int64(1), int64(1), "revenue", "revenue", 0.5, now, int64(1), "Business", "#1f77b4", "", now).
		AddRow(int64(2), int64(1), "invoice", "invoice", 0.5, now, int64(1), "Business", "#1f77b4", "", now).
		AddRow(int64(3), int64(2), "contract", "contract", 0.5, now, int64(2), "Legal", "#d62728", "contracts", now)
	mock.ExpectQuery("ORDER BY c.id, cr.id").WillReturnRows(rows)

	index, err := repo.ListWithCategory(context.Background())
	if err != nil {
		t.Fatalf("ListWithCategory() error = %v", err)
	}
	if len(index) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(index))
	}
	if index[0].Criterion.Name != "revenue" || index[2].Category.Name != "Legal" || index[2].Category.Description != "contracts" {
		t.Fatalf("unexpected index: %+v", index)
	}
}

func TestUpdateCriterionNotFound(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewCriterionRepository(db)

	mock.ExpectExec("UPDATE criteria").
		WithArgs(int64(8), int64(1), "n", "p", 0.3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateCriterion(context.Background(), &domain.Criterion{ID: 8, CategoryID: 1, Name: "n", Pattern: "p", Weight: 0.3})
	if !domain.IsKind(err, domain.ErrCriterionNotFound) {
		t.Fatalf("expected ErrCriterionNotFound, got %v", err)
	}
}
