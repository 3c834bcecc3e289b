package app

import (
	"strings"

	"askdata/internal/model"
	"askdata/internal/repository"
)

type MarketplaceService struct {
	items    repository.MarketplaceStore
	datasets repository.DatasetStore
}

type CreateListingInput struct {
	UserID      uint
	DatasetID   uint
	Title       string
	Description string
	Category    string
	Price       string
}

func NewMarketplaceService(items repository.MarketplaceStore, datasets repository.DatasetStore) *MarketplaceService {
	return &MarketplaceService{items: items, datasets: datasets}
}

func (s *MarketplaceService) List() ([]model.MarketplaceItem, error) {
	return s.items.List()
}

func (s *MarketplaceService) Get(id uint) (*model.MarketplaceItem, error) {
	item, err := s.items.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrMarketplaceItemNotFound
	}
	return item, nil
}

// Create lists a dataset for sale. A referenced dataset must exist.
func (s *MarketplaceService) Create(input CreateListingInput) (*model.MarketplaceItem, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	price := strings.TrimSpace(input.Price)
	if input.UserID == 0 || title == "" || description == "" || price == "" {
		return nil, ErrInvalidInput
	}
	if input.DatasetID != 0 {
		dataset, err := s.datasets.GetByID(input.DatasetID)
		if err != nil {
			return nil, err
		}
		if dataset == nil {
			return nil, ErrDatasetNotFound
		}
	}

	item := &model.MarketplaceItem{
		Title:       title,
		Description: description,
		Category:    strings.TrimSpace(input.Category),
		Price:       price,
		DatasetID:   input.DatasetID,
		UserID:      input.UserID,
	}
	if err := s.items.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}
