package analysis

import (
	"context"
	"log"
	"time"
)

// Job is the queued unit of analysis work.
type Job struct {
	DatasetID uint `json:"datasetId"`
}

type Dispatcher interface {
	Dispatch(ctx context.Context, datasetID uint) error
}

type Processor interface {
	Process(ctx context.Context, datasetID uint) error
}

// InlineDispatcher runs analysis on a detached goroutine.
type InlineDispatcher struct {
	processor Processor
	timeout   time.Duration
}

func NewInlineDispatcher(processor Processor, timeout time.Duration) *InlineDispatcher {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &InlineDispatcher{processor: processor, timeout: timeout}
}

func (d *InlineDispatcher) Dispatch(_ context.Context, datasetID uint) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.processor.Process(ctx, datasetID); err != nil {
			log.Printf("analysis: inline job for dataset %d failed: %v", datasetID, err)
		}
	}()
	return nil
}

type JobPublisher interface {
	Publish(ctx context.Context, job Job) error
}

// QueueDispatcher publishes jobs to the broker and runs them inline when the
// broker rejects the publish, so no dataset is left in processing.
type QueueDispatcher struct {
	publisher JobPublisher
	fallback  Dispatcher
}

func NewQueueDispatcher(publisher JobPublisher, fallback Dispatcher) *QueueDispatcher {
	return &QueueDispatcher{publisher: publisher, fallback: fallback}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, datasetID uint) error {
	err := d.publisher.Publish(ctx, Job{DatasetID: datasetID})
	if err == nil {
		return nil
	}
	log.Printf("analysis: enqueue dataset %d failed, running inline: %v", datasetID, err)
	if d.fallback == nil {
		return err
	}
	return d.fallback.Dispatch(ctx, datasetID)
}
