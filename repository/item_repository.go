// file: repository/item_repository.go

package repository

import (
	"database/sql"
	"go-shop-api/logger"
	"go-shop-api/model"

	"github.com/sirupsen/logrus"
)

// IItemRepository defines the contract for catalog database operations.
type IItemRepository interface {
	CreateItem(item *model.Item) error
	GetAllItems() ([]*model.Item, error)
	GetItemByID(id int) (*model.Item, error)
	SearchItems(query string, limit int) ([]*model.Item, error)
}

// ItemRepository implements IItemRepository.
type ItemRepository struct {
	DB *sql.DB
}

func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{DB: db}
}

// CreateItem adds a new catalog item to the database.
func (r *ItemRepository) CreateItem(item *model.Item) error {
	log := logger.Log.WithFields(logrus.Fields{
		"name":  item.Name,
		"price": item.Price,
	})
	log.Info("Executing query to create a new item")

	query := `INSERT INTO items (name, price, quantity, description, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err := r.DB.QueryRow(query, item.Name, item.Price, item.Quantity, item.Description, item.ImageURL).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create item query")
		return err
	}
	return nil
}

// GetAllItems retrieves the whole catalog.
func (r *ItemRepository) GetAllItems() ([]*model.Item, error) {
	logger.Log.Info("Executing query to get all items")

	query := `SELECT id, name, price, quantity, description, image_url, created_at, updated_at FROM items ORDER BY id`
	rows, err := r.DB.Query(query)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute query for all items")
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

func (r *ItemRepository) GetItemByID(id int) (*model.Item, error) {
	item := &model.Item{}
	query := `SELECT id, name, price, quantity, description, image_url, created_at, updated_at FROM items WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&item.ID, &item.Name, &item.Price, &item.Quantity,
		&item.Description, &item.ImageURL, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// SearchItems performs a case-insensitive substring match on item names.
func (r *ItemRepository) SearchItems(query string, limit int) ([]*model.Item, error) {
	log := logger.Log.WithField("query", query)
	log.Info("Executing query to search items")

	stmt := `SELECT id, name, price, quantity, description, image_url, created_at, updated_at
		FROM items WHERE name ILIKE '%' || $1 || '%' ORDER BY id LIMIT $2`
	rows, err := r.DB.Query(stmt, query, limit)
	if err != nil {
		log.WithError(err).Error("Failed to execute search items query")
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]*model.Item, error) {
	var items []*model.Item
	for rows.Next() {
		item := &model.Item{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Quantity,
			&item.Description, &item.ImageURL, &item.CreatedAt, &item.UpdatedAt); err != nil {
			logger.Log.WithError(err).Error("Failed to scan item row")
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
