package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"askdata/internal/model"
)

type DatasetRepository struct {
	db *gorm.DB
}

func NewDatasetRepository(db *gorm.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

func (r *DatasetRepository) Create(dataset *model.Dataset) error {
	if err := r.db.Create(dataset).Error; err != nil {
		return fmt.Errorf("create dataset failed: %w", err)
	}
	return nil
}

func (r *DatasetRepository) GetByID(id uint) (*model.Dataset, error) {
	var dataset model.Dataset
	if err := r.db.First(&dataset, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dataset failed: %w", err)
	}
	return &dataset, nil
}

func (r *DatasetRepository) ListByUserID(userID uint) ([]model.Dataset, error) {
	list := make([]model.Dataset, 0)
	if err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list datasets failed: %w", err)
	}
	return list, nil
}

func (r *DatasetRepository) UpdateStatus(id uint, status model.DatasetStatus, summary string) (*model.Dataset, error) {
	result := r.db.Model(&model.Dataset{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"summary":    summary,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return nil, fmt.Errorf("update dataset status failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(id)
}
