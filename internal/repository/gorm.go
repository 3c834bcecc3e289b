package repository

import (
	"fmt"

	"gorm.io/gorm"

	"askdata/internal/model"
)

// AutoMigrate creates or updates every table used by the service.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Dataset{},
		&model.DataContent{},
		&model.Conversation{},
		&model.Message{},
		&model.MarketplaceItem{},
	); err != nil {
		return fmt.Errorf("auto migrate tables failed: %w", err)
	}
	return nil
}

// NewGormStores wires every table to the given database.
func NewGormStores(db *gorm.DB) Stores {
	return Stores{
		Users:         NewUserRepository(db),
		Datasets:      NewDatasetRepository(db),
		DataContents:  NewDataContentRepository(db),
		Conversations: NewConversationRepository(db),
		Messages:      NewMessageRepository(db),
		Marketplace:   NewMarketplaceRepository(db),
	}
}
