// file: service/item_service_test.go

package service

import (
	"go-shop-api/model"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockItemRepo struct{ mock.Mock }

func (m *mockItemRepo) CreateItem(item *model.Item) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *mockItemRepo) GetAllItems() ([]*model.Item, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Item), args.Error(1)
}

func (m *mockItemRepo) GetItemByID(id int) (*model.Item, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

func (m *mockItemRepo) SearchItems(query string, limit int) ([]*model.Item, error) {
	args := m.Called(query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Item), args.Error(1)
}

func newTestCache(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestItemService_ListItems_CacheAside(t *testing.T) {
	mockRepo := new(mockItemRepo)
	catalog := []*model.Item{
		{ID: 1, Name: "Lamp", Price: 19.99, Quantity: 3, ImageURL: "https://cdn.example.com/lamp.png"},
		{ID: 2, Name: "Desk", Price: 120, Quantity: 1, ImageURL: "https://cdn.example.com/desk.png"},
	}

	// The repository must be hit exactly once; the second listing is
	// served from cache.
	mockRepo.On("GetAllItems").Return(catalog, nil).Once()

	itemService := NewItemService(mockRepo, newTestCache(t))

	first, err := itemService.ListItems()
	assert.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := itemService.ListItems()
	assert.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Equal(t, "Lamp", second[0].Name)

	mockRepo.AssertExpectations(t)
}

func TestItemService_CreateItem_InvalidatesCache(t *testing.T) {
	mockRepo := new(mockItemRepo)
	itemService := NewItemService(mockRepo, newTestCache(t))

	mockRepo.On("GetAllItems").Return([]*model.Item{}, nil).Once()
	_, err := itemService.ListItems()
	assert.NoError(t, err)

	mockRepo.On("CreateItem", mock.MatchedBy(func(i *model.Item) bool {
		// A zero quantity defaults to one.
		return i.Quantity == 1
	})).Return(nil).Once()

	_, err = itemService.CreateItem(&model.CreateItemRequest{
		Name:     "Chair",
		Price:    45,
		ImageURL: "https://cdn.example.com/chair.png",
	})
	assert.NoError(t, err)

	// The cache was invalidated, so the next listing hits the
	// repository again.
	mockRepo.On("GetAllItems").Return([]*model.Item{{ID: 3, Name: "Chair"}}, nil).Once()
	items, err := itemService.ListItems()
	assert.NoError(t, err)
	assert.Len(t, items, 1)

	mockRepo.AssertExpectations(t)
}

func TestItemService_SearchItems_CapsResults(t *testing.T) {
	mockRepo := new(mockItemRepo)
	itemService := NewItemService(mockRepo, newTestCache(t))

	mockRepo.On("SearchItems", "lamp", 5).Return([]*model.Item{{ID: 1, Name: "Lamp"}}, nil).Once()

	items, err := itemService.SearchItems("lamp")
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	mockRepo.AssertExpectations(t)
}
