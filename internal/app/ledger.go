package app

import (
	"context"
	"errors"
	"log"
	"strings"

	"askdata/internal/model"
	"askdata/internal/repository"
)

// MessageCache is the optional read-through cache in front of message lists.
// Load misses while the conversation is dirty; StoreIfClean skips the write
// in that case.
type MessageCache interface {
	Load(ctx context.Context, conversationID uint) ([]model.Message, bool, error)
	StoreIfClean(ctx context.Context, conversationID uint, messages []model.Message) (bool, error)
	Invalidate(ctx context.Context, conversationID uint) error
}

// Ledger owns conversations and their append-only message logs.
type Ledger struct {
	conversations repository.ConversationStore
	messages      repository.MessageStore
	datasets      repository.DatasetStore
	cache         MessageCache
}

type CreateConversationInput struct {
	UserID    uint
	DatasetID uint
	Title     string
}

// ConversationDetail is a conversation with its messages inlined.
type ConversationDetail struct {
	model.Conversation
	Messages []model.Message `json:"messages"`
}

func NewLedger(conversations repository.ConversationStore, messages repository.MessageStore, datasets repository.DatasetStore, cache MessageCache) *Ledger {
	return &Ledger{
		conversations: conversations,
		messages:      messages,
		datasets:      datasets,
		cache:         cache,
	}
}

func (l *Ledger) CreateConversation(input CreateConversationInput) (*model.Conversation, error) {
	if input.UserID == 0 || input.DatasetID == 0 {
		return nil, ErrInvalidInput
	}
	dataset, err := l.datasets.GetByID(input.DatasetID)
	if err != nil {
		return nil, err
	}
	if dataset == nil {
		return nil, ErrDatasetNotFound
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "New Conversation"
	}
	conversation := &model.Conversation{
		UserID:    input.UserID,
		DatasetID: input.DatasetID,
		Title:     title,
	}
	if err := l.conversations.Create(conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

func (l *Ledger) GetConversation(ctx context.Context, id uint) (*ConversationDetail, error) {
	conversation, err := l.conversations.GetByID(id)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrConversationNotFound
	}
	messages, err := l.ListMessages(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ConversationDetail{Conversation: *conversation, Messages: messages}, nil
}

// ListConversations filters by dataset when datasetID is set and by user
// otherwise.
func (l *Ledger) ListConversations(userID, datasetID uint) ([]model.Conversation, error) {
	if datasetID != 0 {
		return l.conversations.ListByDatasetID(datasetID)
	}
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return l.conversations.ListByUserID(userID)
}

// AppendMessage adds one message at the end of the conversation log.
func (l *Ledger) AppendMessage(ctx context.Context, conversationID uint, isUser bool, content string) (*model.Message, error) {
	if conversationID == 0 {
		return nil, ErrInvalidInput
	}
	if l.cache != nil {
		if err := l.cache.Invalidate(ctx, conversationID); err != nil {
			log.Printf("ledger: invalidate conversation %d cache failed: %v", conversationID, err)
		}
	}

	message := &model.Message{
		ConversationID: conversationID,
		IsUser:         isUser,
		Content:        content,
	}
	if err := l.messages.Append(message); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return message, nil
}

// ListMessages returns the log in append order.
func (l *Ledger) ListMessages(ctx context.Context, conversationID uint) ([]model.Message, error) {
	if l.cache != nil {
		if cached, hit, err := l.cache.Load(ctx, conversationID); err == nil && hit {
			return cached, nil
		}
	}

	messages, err := l.messages.ListByConversationID(conversationID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []model.Message{}
	}
	if l.cache != nil {
		_, _ = l.cache.StoreIfClean(ctx, conversationID, messages)
	}
	return messages, nil
}
