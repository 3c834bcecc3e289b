package analysis

import (
	"context"
	"fmt"
	"log"
	"sync"

	"askdata/internal/model"
	"askdata/internal/repository"
)

// Service moves a dataset from processing to processed or error and lets
// callers wait for that transition.
type Service struct {
	datasets repository.DatasetStore
	contents repository.DataContentStore
	analyzer Analyzer

	mu      sync.Mutex
	waiters map[uint]chan struct{}
}

func NewService(datasets repository.DatasetStore, contents repository.DataContentStore, analyzer Analyzer) *Service {
	if analyzer == nil {
		analyzer = LocalAnalyzer{}
	}
	return &Service{
		datasets: datasets,
		contents: contents,
		analyzer: analyzer,
		waiters:  make(map[uint]chan struct{}),
	}
}

func (s *Service) Process(ctx context.Context, datasetID uint) error {
	dataset, err := s.datasets.GetByID(datasetID)
	if err != nil {
		return err
	}
	if dataset == nil {
		return repository.ErrNotFound
	}

	var rows []model.Row
	content, err := s.contents.GetByDatasetID(datasetID)
	if err != nil {
		return err
	}
	if content != nil {
		rows = content.Content
	}

	report, analyzeErr := s.analyzer.Analyze(ctx, dataset, rows)
	if analyzeErr != nil {
		log.Printf("analysis: dataset %d failed: %v", datasetID, analyzeErr)
		if _, err := s.datasets.UpdateStatus(datasetID, model.DatasetStatusError, ""); err != nil {
			return fmt.Errorf("mark dataset error failed: %w", err)
		}
		s.notify(datasetID)
		return analyzeErr
	}

	if _, err := s.datasets.UpdateStatus(datasetID, model.DatasetStatusProcessed, report.Summary); err != nil {
		return fmt.Errorf("mark dataset processed failed: %w", err)
	}
	s.notify(datasetID)
	return nil
}

// Wait blocks until the dataset reaches processed or error, or ctx ends.
func (s *Service) Wait(ctx context.Context, datasetID uint) (*model.Dataset, error) {
	for {
		ch := s.subscribe(datasetID)
		dataset, err := s.datasets.GetByID(datasetID)
		if err != nil {
			return nil, err
		}
		if dataset == nil {
			return nil, repository.ErrNotFound
		}
		if dataset.Status.Done() {
			return dataset, nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (s *Service) subscribe(datasetID uint) <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.waiters[datasetID]
	if !ok {
		ch = make(chan struct{})
		s.waiters[datasetID] = ch
	}
	return ch
}

func (s *Service) notify(datasetID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.waiters[datasetID]; ok {
		close(ch)
		delete(s.waiters, datasetID)
	}
}
