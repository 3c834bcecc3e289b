package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"askdata/internal/analysis"
)

type AnalysisPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewAnalysisPublisher(conn *amqp.Connection, queueName string) *AnalysisPublisher {
	return &AnalysisPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *AnalysisPublisher) Publish(ctx context.Context, job analysis.Job) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := DeclareQueue(ch, p.queueName); err != nil {
		return err
	}

	payload, err := EncodeJob(job)
	if err != nil {
		return err
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish analysis job failed: %w", err)
	}
	return nil
}

func EncodeJob(job analysis.Job) ([]byte, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis job failed: %w", err)
	}
	return payload, nil
}

func DecodeJob(body []byte) (analysis.Job, error) {
	var job analysis.Job
	if err := json.Unmarshal(body, &job); err != nil {
		return analysis.Job{}, fmt.Errorf("decode analysis job failed: %w", err)
	}
	if job.DatasetID == 0 {
		return analysis.Job{}, fmt.Errorf("decode analysis job failed: missing datasetId")
	}
	return job, nil
}
