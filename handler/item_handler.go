package handler

import (
	"errors"
	"go-shop-api/common"
	"go-shop-api/logger"
	"go-shop-api/model"
	"go-shop-api/service"
	"net/http"
	"strconv"
)

type ItemHandler struct {
	service *service.ItemService
}

func NewItemHandler(service *service.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// CreateItem godoc
// @Summary      Add a catalog item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.CreateItemRequest true "Item payload"
// @Success      201  {object}  map[string]interface{}
// @Router       /api/v1/items [post]
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateItemRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	logger.Log.WithField("name", req.Name).Info("Create item request received")

	item, err := h.service.CreateItem(&req)
	if err != nil {
		return common.NewUpstreamError("Could not create item", err)
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"item":    item,
		"message": "Item created successfully!",
	})
	return nil
}

// ListItems godoc
// @Summary      List the catalog
// @Tags         items
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/items [get]
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) *common.AppError {
	items, err := h.service.ListItems()
	if err != nil {
		return common.NewUpstreamError("Could not retrieve items", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"items":   items,
	})
	return nil
}

// SearchItems godoc
// @Summary      Search items by name
// @Tags         items
// @Produce      json
// @Param        query  query  string  true  "Name substring"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/items/search [get]
func (h *ItemHandler) SearchItems(w http.ResponseWriter, r *http.Request) *common.AppError {
	query := r.URL.Query().Get("query")
	if query == "" {
		return common.NewValidationError("Query is required")
	}

	items, err := h.service.SearchItems(query)
	if err != nil {
		return common.NewUpstreamError("Could not search items", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"items":   items,
	})
	return nil
}

// GetItem godoc
// @Summary      Fetch a single item
// @Tags         items
// @Produce      json
// @Param        id   path   int  true  "Item ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/items/{id} [get]
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewValidationError("Invalid item ID")
	}

	item, err := h.service.GetItem(id)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			return common.NewNotFoundError("Item not found")
		}
		return common.NewUpstreamError("Could not retrieve item", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"item":    item,
	})
	return nil
}
