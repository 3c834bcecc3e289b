package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"askdata/internal/model"
)

type DataContentRepository struct {
	db *gorm.DB
}

func NewDataContentRepository(db *gorm.DB) *DataContentRepository {
	return &DataContentRepository{db: db}
}

func (r *DataContentRepository) Create(content *model.DataContent) error {
	if err := r.db.Create(content).Error; err != nil {
		return fmt.Errorf("create data content failed: %w", err)
	}
	return nil
}

func (r *DataContentRepository) GetByDatasetID(datasetID uint) (*model.DataContent, error) {
	var content model.DataContent
	if err := r.db.Where("dataset_id = ?", datasetID).First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get data content failed: %w", err)
	}
	return &content, nil
}
