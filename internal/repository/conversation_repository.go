package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"askdata/internal/model"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Create(conversation *model.Conversation) error {
	if err := r.db.Create(conversation).Error; err != nil {
		return fmt.Errorf("create conversation failed: %w", err)
	}
	return nil
}

func (r *ConversationRepository) GetByID(id uint) (*model.Conversation, error) {
	var conversation model.Conversation
	if err := r.db.First(&conversation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conversation failed: %w", err)
	}
	return &conversation, nil
}

func (r *ConversationRepository) ListByUserID(userID uint) ([]model.Conversation, error) {
	list := make([]model.Conversation, 0)
	if err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list conversations failed: %w", err)
	}
	return list, nil
}

func (r *ConversationRepository) ListByDatasetID(datasetID uint) ([]model.Conversation, error) {
	list := make([]model.Conversation, 0)
	if err := r.db.Where("dataset_id = ?", datasetID).Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list conversations by dataset failed: %w", err)
	}
	return list, nil
}
