package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"askdata/internal/app"
	"askdata/internal/transport/http/response"
)

type DatasetHandler struct {
	datasetService *app.DatasetService
}

type CreateDatasetRequest struct {
	Name        string `json:"name" binding:"required,max=256"`
	FileType    string `json:"fileType" binding:"required,max=32"`
	FileContent string `json:"fileContent"`
}

func NewDatasetHandler(datasetService *app.DatasetService) *DatasetHandler {
	return &DatasetHandler{datasetService: datasetService}
}

func (h *DatasetHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	datasets, err := h.datasetService.List(userID)
	if err != nil {
		writeError(c, err, "list datasets failed")
		return
	}
	response.JSON(c, http.StatusOK, datasets)
}

func (h *DatasetHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	dataset, err := h.datasetService.Get(id)
	if err != nil {
		writeError(c, err, "get dataset failed")
		return
	}
	response.JSON(c, http.StatusOK, dataset)
}

func (h *DatasetHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req CreateDatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	dataset, err := h.datasetService.Upload(c.Request.Context(), app.UploadInput{
		UserID:      userID,
		Name:        req.Name,
		FileType:    req.FileType,
		FileContent: req.FileContent,
	})
	if err != nil {
		writeError(c, err, "create dataset failed")
		return
	}
	response.JSON(c, http.StatusCreated, dataset)
}
