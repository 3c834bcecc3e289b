package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"askdata/internal/analysis"
	"askdata/internal/platform/rabbitmq"
	"askdata/internal/repository"
)

// AnalysisWorker consumes dataset analysis jobs from the broker.
type AnalysisWorker struct {
	conn      *amqp.Connection
	processor analysis.Processor
	queueName string
	timeout   time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewAnalysisWorker(conn *amqp.Connection, processor analysis.Processor, queueName string, timeout time.Duration) *AnalysisWorker {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &AnalysisWorker{
		conn:      conn,
		processor: processor,
		queueName: queueName,
		timeout:   timeout,
	}
}

func (w *AnalysisWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				if err := w.handle(workerCtx, d.Body); err != nil {
					log.Printf("worker analysis job failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

// handle runs one job. Analyzer failures are already recorded on the dataset
// as the error status, so only undecodable or orphaned jobs are rejected.
func (w *AnalysisWorker) handle(ctx context.Context, body []byte) error {
	job, err := rabbitmq.DecodeJob(body)
	if err != nil {
		return err
	}

	jobCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	err = w.processor.Process(jobCtx, job.DatasetID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("dataset %d: %w", job.DatasetID, err)
	default:
		log.Printf("worker dataset %d marked as error: %v", job.DatasetID, err)
		return nil
	}
}

func (w *AnalysisWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
