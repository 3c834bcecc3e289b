package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"askdata/internal/model"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Append(message *model.Message) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var conversation model.Conversation
		if err := tx.Select("id").First(&conversation, message.ConversationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		message.ID = 0
		message.Timestamp = time.Now()
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&model.Conversation{}).Where("id = ?", message.ConversationID).
			Update("updated_at", message.Timestamp).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("append message failed: %w", err)
	}
	return nil
}

func (r *MessageRepository) ListByConversationID(conversationID uint) ([]model.Message, error) {
	messages := make([]model.Message, 0)
	if err := r.db.Where("conversation_id = ?", conversationID).Order("id ASC").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list messages failed: %w", err)
	}
	return messages, nil
}

func (r *MessageRepository) CountAssistantByConversationIDs(conversationIDs []uint) (int64, error) {
	if len(conversationIDs) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.Model(&model.Message{}).
		Where("conversation_id IN ? AND is_user = ?", conversationIDs, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count assistant messages failed: %w", err)
	}
	return count, nil
}
