package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"askdata/internal/app"
	"askdata/internal/transport/http/response"
)

type MarketplaceHandler struct {
	marketplaceService *app.MarketplaceService
}

type CreateListingRequest struct {
	DatasetID   uint   `json:"datasetId"`
	Title       string `json:"title" binding:"required,max=256"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"max=128"`
	Price       string `json:"price" binding:"required,max=64"`
}

func NewMarketplaceHandler(marketplaceService *app.MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{marketplaceService: marketplaceService}
}

func (h *MarketplaceHandler) List(c *gin.Context) {
	items, err := h.marketplaceService.List()
	if err != nil {
		writeError(c, err, "list marketplace failed")
		return
	}
	response.JSON(c, http.StatusOK, items)
}

func (h *MarketplaceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.marketplaceService.Get(id)
	if err != nil {
		writeError(c, err, "get marketplace item failed")
		return
	}
	response.JSON(c, http.StatusOK, item)
}

func (h *MarketplaceHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	item, err := h.marketplaceService.Create(app.CreateListingInput{
		UserID:      userID,
		DatasetID:   req.DatasetID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
	})
	if err != nil {
		writeError(c, err, "create marketplace item failed")
		return
	}
	response.JSON(c, http.StatusCreated, item)
}
