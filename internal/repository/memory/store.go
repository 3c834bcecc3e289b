// Package memory is the default arena-style backend: every table is a slice
// plus an id index, and a single mutex guards identifier allocation and all
// mutation.
package memory

import (
	"fmt"
	"sync"
	"time"

	"askdata/internal/model"
	"askdata/internal/repository"
)

type Store struct {
	mu sync.RWMutex

	users         []model.User
	datasets      []model.Dataset
	contents      []model.DataContent
	conversations []model.Conversation
	messages      []model.Message
	items         []model.MarketplaceItem

	datasetIndex      map[uint]int
	conversationIndex map[uint]int
	// messages per conversation, as positions into messages in append order
	messagesByConversation map[uint][]int

	nextUserID         uint
	nextDatasetID      uint
	nextContentID      uint
	nextConversationID uint
	nextMessageID      uint
	nextItemID         uint

	lastMessageAt time.Time
}

func NewStore() *Store {
	return &Store{
		datasetIndex:           make(map[uint]int),
		conversationIndex:      make(map[uint]int),
		messagesByConversation: make(map[uint][]int),
		nextUserID:             1,
		nextDatasetID:          1,
		nextContentID:          1,
		nextConversationID:     1,
		nextMessageID:          1,
		nextItemID:             1,
	}
}

// Stores exposes the arena through the repository interfaces.
func (s *Store) Stores() repository.Stores {
	return repository.Stores{
		Users:         userStore{s},
		Datasets:      datasetStore{s},
		DataContents:  contentStore{s},
		Conversations: conversationStore{s},
		Messages:      messageStore{s},
		Marketplace:   marketplaceStore{s},
	}
}

type userStore struct{ s *Store }

func (u userStore) Create(user *model.User) error {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].Username == user.Username {
			return fmt.Errorf("create user %q failed: %w", user.Username, repository.ErrUsernameTaken)
		}
	}
	user.ID = s.nextUserID
	s.nextUserID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.users = append(s.users, *user)
	return nil
}

func (u userStore) GetByID(id uint) (*model.User, error) {
	s := u.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.users {
		if s.users[i].ID == id {
			user := s.users[i]
			return &user, nil
		}
	}
	return nil, nil
}

func (u userStore) GetByUsername(username string) (*model.User, error) {
	s := u.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.users {
		if s.users[i].Username == username {
			user := s.users[i]
			return &user, nil
		}
	}
	return nil, nil
}

type datasetStore struct{ s *Store }

func (d datasetStore) Create(dataset *model.Dataset) error {
	s := d.s
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	dataset.ID = s.nextDatasetID
	s.nextDatasetID++
	if dataset.CreatedAt.IsZero() {
		dataset.CreatedAt = now
	}
	if dataset.UpdatedAt.IsZero() {
		dataset.UpdatedAt = dataset.CreatedAt
	}
	s.datasetIndex[dataset.ID] = len(s.datasets)
	s.datasets = append(s.datasets, cloneDataset(*dataset))
	return nil
}

func (d datasetStore) GetByID(id uint) (*model.Dataset, error) {
	s := d.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.datasetIndex[id]
	if !ok {
		return nil, nil
	}
	dataset := cloneDataset(s.datasets[pos])
	return &dataset, nil
}

func (d datasetStore) ListByUserID(userID uint) ([]model.Dataset, error) {
	s := d.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]model.Dataset, 0)
	for i := range s.datasets {
		if s.datasets[i].UserID == userID {
			list = append(list, cloneDataset(s.datasets[i]))
		}
	}
	return list, nil
}

func (d datasetStore) UpdateStatus(id uint, status model.DatasetStatus, summary string) (*model.Dataset, error) {
	s := d.s
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.datasetIndex[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	s.datasets[pos].Status = status
	s.datasets[pos].Summary = summary
	s.datasets[pos].UpdatedAt = time.Now()
	dataset := cloneDataset(s.datasets[pos])
	return &dataset, nil
}

type contentStore struct{ s *Store }

func (c contentStore) Create(content *model.DataContent) error {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	content.ID = s.nextContentID
	s.nextContentID++
	s.contents = append(s.contents, *content)
	return nil
}

func (c contentStore) GetByDatasetID(datasetID uint) (*model.DataContent, error) {
	s := c.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.contents {
		if s.contents[i].DatasetID == datasetID {
			content := s.contents[i]
			return &content, nil
		}
	}
	return nil, nil
}

type conversationStore struct{ s *Store }

func (c conversationStore) Create(conversation *model.Conversation) error {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	conversation.ID = s.nextConversationID
	s.nextConversationID++
	conversation.CreatedAt = now
	conversation.UpdatedAt = now
	s.conversationIndex[conversation.ID] = len(s.conversations)
	s.conversations = append(s.conversations, *conversation)
	return nil
}

func (c conversationStore) GetByID(id uint) (*model.Conversation, error) {
	s := c.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.conversationIndex[id]
	if !ok {
		return nil, nil
	}
	conversation := s.conversations[pos]
	return &conversation, nil
}

func (c conversationStore) ListByUserID(userID uint) ([]model.Conversation, error) {
	return c.filter(func(conv *model.Conversation) bool { return conv.UserID == userID }), nil
}

func (c conversationStore) ListByDatasetID(datasetID uint) ([]model.Conversation, error) {
	return c.filter(func(conv *model.Conversation) bool { return conv.DatasetID == datasetID }), nil
}

func (c conversationStore) filter(keep func(*model.Conversation) bool) []model.Conversation {
	s := c.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]model.Conversation, 0)
	for i := range s.conversations {
		if keep(&s.conversations[i]) {
			list = append(list, s.conversations[i])
		}
	}
	return list
}

type messageStore struct{ s *Store }

func (m messageStore) Append(message *model.Message) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()

	convPos, ok := s.conversationIndex[message.ConversationID]
	if !ok {
		return repository.ErrNotFound
	}

	// timestamps never go backwards within the process, even across wall clock jumps
	now := time.Now()
	if now.Before(s.lastMessageAt) {
		now = s.lastMessageAt
	}
	s.lastMessageAt = now

	message.ID = s.nextMessageID
	s.nextMessageID++
	message.Timestamp = now

	s.messagesByConversation[message.ConversationID] = append(s.messagesByConversation[message.ConversationID], len(s.messages))
	s.messages = append(s.messages, *message)
	s.conversations[convPos].UpdatedAt = now
	return nil
}

func (m messageStore) ListByConversationID(conversationID uint) ([]model.Message, error) {
	s := m.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	positions := s.messagesByConversation[conversationID]
	list := make([]model.Message, 0, len(positions))
	for _, pos := range positions {
		list = append(list, s.messages[pos])
	}
	return list, nil
}

func (m messageStore) CountAssistantByConversationIDs(conversationIDs []uint) (int64, error) {
	s := m.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, id := range conversationIDs {
		for _, pos := range s.messagesByConversation[id] {
			if !s.messages[pos].IsUser {
				count++
			}
		}
	}
	return count, nil
}

type marketplaceStore struct{ s *Store }

func (m marketplaceStore) Create(item *model.MarketplaceItem) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = s.nextItemID
	s.nextItemID++
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	s.items = append(s.items, *item)
	return nil
}

func (m marketplaceStore) GetByID(id uint) (*model.MarketplaceItem, error) {
	s := m.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.items {
		if s.items[i].ID == id {
			item := s.items[i]
			return &item, nil
		}
	}
	return nil, nil
}

func (m marketplaceStore) List() ([]model.MarketplaceItem, error) {
	s := m.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]model.MarketplaceItem, len(s.items))
	copy(list, s.items)
	return list, nil
}

func cloneDataset(d model.Dataset) model.Dataset {
	if d.Columns != nil {
		columns := make([]string, len(d.Columns))
		copy(columns, d.Columns)
		d.Columns = columns
	}
	return d
}
