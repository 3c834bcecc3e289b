package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"askdata/internal/analysis"
	"askdata/internal/ingest"
	"askdata/internal/model"
	"askdata/internal/repository"
)

type DatasetService struct {
	datasets   repository.DatasetStore
	contents   repository.DataContentStore
	dispatcher analysis.Dispatcher
}

type UploadInput struct {
	UserID      uint
	Name        string
	FileType    string
	FileContent string
}

func NewDatasetService(datasets repository.DatasetStore, contents repository.DataContentStore, dispatcher analysis.Dispatcher) *DatasetService {
	return &DatasetService{
		datasets:   datasets,
		contents:   contents,
		dispatcher: dispatcher,
	}
}

func (s *DatasetService) List(userID uint) ([]model.Dataset, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.datasets.ListByUserID(userID)
}

func (s *DatasetService) Get(id uint) (*model.Dataset, error) {
	dataset, err := s.datasets.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dataset == nil {
		return nil, ErrDatasetNotFound
	}
	return dataset, nil
}

// Upload parses the file, stores the dataset as processing and hands it to
// the analysis dispatcher. The returned dataset is the processing snapshot.
func (s *DatasetService) Upload(ctx context.Context, input UploadInput) (*model.Dataset, error) {
	name := strings.TrimSpace(input.Name)
	fileType := ingest.NormalizeFileType(input.FileType)
	if input.UserID == 0 || name == "" || fileType == "" || strings.TrimSpace(input.FileContent) == "" {
		return nil, ErrInvalidInput
	}

	table, err := ingest.Parse(input.FileContent, fileType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	columns := table.Columns
	if columns == nil {
		columns = []string{}
	}
	dataset := &model.Dataset{
		Name:     name,
		UserID:   input.UserID,
		FileType: fileType,
		Status:   model.DatasetStatusProcessing,
		RowCount: len(table.Rows),
		Columns:  columns,
	}
	if err := s.datasets.Create(dataset); err != nil {
		return nil, err
	}
	if err := s.contents.Create(&model.DataContent{DatasetID: dataset.ID, Content: table.Rows}); err != nil {
		return nil, err
	}

	snapshot := *dataset
	snapshot.Columns = make([]string, len(dataset.Columns))
	copy(snapshot.Columns, dataset.Columns)

	if err := s.dispatcher.Dispatch(ctx, dataset.ID); err != nil {
		log.Printf("dataset %d analysis dispatch failed: %v", dataset.ID, err)
		if _, markErr := s.datasets.UpdateStatus(dataset.ID, model.DatasetStatusError, ""); markErr != nil {
			log.Printf("dataset %d mark error failed: %v", dataset.ID, markErr)
		}
	}
	return &snapshot, nil
}
