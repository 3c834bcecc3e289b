package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"askdata/internal/model"
)

type MarketplaceRepository struct {
	db *gorm.DB
}

func NewMarketplaceRepository(db *gorm.DB) *MarketplaceRepository {
	return &MarketplaceRepository{db: db}
}

func (r *MarketplaceRepository) Create(item *model.MarketplaceItem) error {
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("create marketplace item failed: %w", err)
	}
	return nil
}

func (r *MarketplaceRepository) GetByID(id uint) (*model.MarketplaceItem, error) {
	var item model.MarketplaceItem
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get marketplace item failed: %w", err)
	}
	return &item, nil
}

func (r *MarketplaceRepository) List() ([]model.MarketplaceItem, error) {
	items := make([]model.MarketplaceItem, 0)
	if err := r.db.Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list marketplace items failed: %w", err)
	}
	return items, nil
}
