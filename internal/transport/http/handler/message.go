package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"askdata/internal/app"
	"askdata/internal/transport/http/response"
)

type MessageHandler struct {
	chatService *app.ChatService
}

type CreateMessageRequest struct {
	ConversationID uint   `json:"conversationId" binding:"required,gt=0"`
	IsUser         *bool  `json:"isUser"`
	Content        string `json:"content" binding:"required"`
}

func NewMessageHandler(chatService *app.ChatService) *MessageHandler {
	return &MessageHandler{chatService: chatService}
}

// Create stores the posted message and the assistant reply. Provider
// failures surface as an apology message, never as an error status.
func (h *MessageHandler) Create(c *gin.Context) {
	var req CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	isUser := true
	if req.IsUser != nil {
		isUser = *req.IsUser
	}

	result, err := h.chatService.PostMessage(c.Request.Context(), app.PostMessageInput{
		ConversationID: req.ConversationID,
		IsUser:         isUser,
		Content:        req.Content,
	})
	if err != nil {
		writeError(c, err, "create message failed")
		return
	}
	response.JSON(c, http.StatusCreated, result)
}
