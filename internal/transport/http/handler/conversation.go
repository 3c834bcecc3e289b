package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"askdata/internal/app"
	"askdata/internal/transport/http/response"
)

type ConversationHandler struct {
	ledger *app.Ledger
}

type CreateConversationRequest struct {
	DatasetID uint   `json:"datasetId" binding:"required,gt=0"`
	Title     string `json:"title" binding:"max=256"`
}

func NewConversationHandler(ledger *app.Ledger) *ConversationHandler {
	return &ConversationHandler{ledger: ledger}
}

func (h *ConversationHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var datasetID uint
	if raw := c.Query("datasetId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid datasetId")
			return
		}
		datasetID = uint(parsed)
	}

	conversations, err := h.ledger.ListConversations(userID, datasetID)
	if err != nil {
		writeError(c, err, "list conversations failed")
		return
	}
	response.JSON(c, http.StatusOK, conversations)
}

func (h *ConversationHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.ledger.GetConversation(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "get conversation failed")
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

func (h *ConversationHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	conversation, err := h.ledger.CreateConversation(app.CreateConversationInput{
		UserID:    userID,
		DatasetID: req.DatasetID,
		Title:     req.Title,
	})
	if err != nil {
		writeError(c, err, "create conversation failed")
		return
	}
	response.JSON(c, http.StatusCreated, conversation)
}
