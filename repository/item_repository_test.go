// file: repository/item_repository_test.go

package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func newMockItemRepo(t *testing.T) (*ItemRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewItemRepository(db), mock
}

func TestItemRepository_SearchItems(t *testing.T) {
	repo, mock := newMockItemRepo(t)

	rows := sqlmock.NewRows([]string{
		"id", "name", "price", "quantity", "description", "image_url", "created_at", "updated_at",
	}).AddRow(1, "Desk Lamp", 19.99, 3, "", "https://cdn.example.com/lamp.png", time.Now(), time.Now())

	mock.ExpectQuery(regexp.QuoteMeta(`name ILIKE '%' || $1 || '%'`)).
		WithArgs("lamp", 5).
		WillReturnRows(rows)

	items, err := repo.SearchItems("lamp", 5)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "Desk Lamp", items[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_GetAllItems_Empty(t *testing.T) {
	repo, mock := newMockItemRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM items ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "price", "quantity", "description", "image_url", "created_at", "updated_at",
		}))

	items, err := repo.GetAllItems()
	assert.NoError(t, err)
	assert.Empty(t, items)
}
