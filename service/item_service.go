// file: service/item_service.go

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"go-shop-api/logger"
	"go-shop-api/model"
	"go-shop-api/repository"
	"time"
)

var ErrItemNotFound = errors.New("item not found")

const (
	itemListCacheKey = "items:all"
	itemListCacheTTL = 10 * time.Minute
	searchLimit      = 5
)

// ItemService serves the catalog with a cache-aside strategy on the
// full listing.
type ItemService struct {
	repo  repository.IItemRepository
	cache ICacheClient
}

func NewItemService(repo repository.IItemRepository, cache ICacheClient) *ItemService {
	return &ItemService{
		repo:  repo,
		cache: cache,
	}
}

// CreateItem stores a new catalog item and invalidates the listing
// cache.
func (s *ItemService) CreateItem(req *model.CreateItemRequest) (*model.Item, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	item := &model.Item{
		Name:        req.Name,
		Price:       req.Price,
		Quantity:    quantity,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}

	if err := s.repo.CreateItem(item); err != nil {
		return nil, err
	}

	s.cache.Del(context.Background(), itemListCacheKey)
	return item, nil
}

// ListItems returns the full catalog, serving from cache when fresh.
func (s *ItemService) ListItems() ([]*model.Item, error) {
	ctx := context.Background()

	cached, err := s.cache.Get(ctx, itemListCacheKey).Result()
	if err == nil {
		var items []*model.Item
		if err := json.Unmarshal([]byte(cached), &items); err == nil {
			return items, nil
		}
	}

	items, err := s.repo.GetAllItems()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(items); err == nil {
		if err := s.cache.Set(ctx, itemListCacheKey, data, itemListCacheTTL).Err(); err != nil {
			logger.Log.WithError(err).Warn("Failed to cache item listing")
		}
	}

	return items, nil
}

// SearchItems matches item names case-insensitively, capped at five
// results.
func (s *ItemService) SearchItems(query string) ([]*model.Item, error) {
	return s.repo.SearchItems(query, searchLimit)
}

func (s *ItemService) GetItem(id int) (*model.Item, error) {
	item, err := s.repo.GetItemByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}
