package repository

import (
	"errors"

	"askdata/internal/model"
)

// ErrNotFound is returned by write operations that reference a missing record.
// Lookups return (nil, nil) instead.
var ErrNotFound = errors.New("record not found")

// ErrUsernameTaken is returned when creating a user whose username exists.
var ErrUsernameTaken = errors.New("username already taken")

type UserStore interface {
	Create(user *model.User) error
	GetByID(id uint) (*model.User, error)
	GetByUsername(username string) (*model.User, error)
}

type DatasetStore interface {
	Create(dataset *model.Dataset) error
	GetByID(id uint) (*model.Dataset, error)
	ListByUserID(userID uint) ([]model.Dataset, error)
	UpdateStatus(id uint, status model.DatasetStatus, summary string) (*model.Dataset, error)
}

type DataContentStore interface {
	Create(content *model.DataContent) error
	GetByDatasetID(datasetID uint) (*model.DataContent, error)
}

type ConversationStore interface {
	Create(conversation *model.Conversation) error
	GetByID(id uint) (*model.Conversation, error)
	ListByUserID(userID uint) ([]model.Conversation, error)
	ListByDatasetID(datasetID uint) ([]model.Conversation, error)
}

// MessageStore is append-only. Append assigns the ID and timestamp and fails
// with ErrNotFound when the conversation does not exist.
type MessageStore interface {
	Append(message *model.Message) error
	ListByConversationID(conversationID uint) ([]model.Message, error)
	CountAssistantByConversationIDs(conversationIDs []uint) (int64, error)
}

type MarketplaceStore interface {
	Create(item *model.MarketplaceItem) error
	GetByID(id uint) (*model.MarketplaceItem, error)
	List() ([]model.MarketplaceItem, error)
}

// Stores groups every table behind its interface so services can be wired
// against either the in-memory arena or a gorm database.
type Stores struct {
	Users         UserStore
	Datasets      DatasetStore
	DataContents  DataContentStore
	Conversations ConversationStore
	Messages      MessageStore
	Marketplace   MarketplaceStore
}
