package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edledger/edledger/internal/api/dto"
	ierr "github.com/edledger/edledger/internal/errors"
	"github.com/edledger/edledger/internal/logger"
	"github.com/edledger/edledger/internal/service"
	"github.com/edledger/edledger/internal/types"
)

type CatalogHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewCatalogHandler(service service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, log: log}
}

func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req dto.CreateCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateItem(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to create catalog item", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *CatalogHandler) GetItem(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Item ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetItem(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Item ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.UpdateCatalogItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateItem(c.Request.Context(), id, &req)
	if err != nil {
		h.log.Error("Failed to update catalog item", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Item ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.service.DeleteItem(c.Request.Context(), id); err != nil {
		h.log.Error("Failed to delete catalog item", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item deleted successfully"})
}

func (h *CatalogHandler) ListItems(c *gin.Context) {
	var filter types.CatalogItemFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}

	resp, err := h.service.ListItems(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

type reorderItemsRequest struct {
	ItemIDs []string `json:"item_ids"`
}

func (h *CatalogHandler) ReorderItems(c *gin.Context) {
	var req reorderItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.service.ReorderItems(c.Request.Context(), req.ItemIDs); err != nil {
		h.log.Error("Failed to reorder catalog items", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "items reordered successfully"})
}
