package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const TypeQuoteDeliver = "quote:deliver"

// DeliveryPayload is the message enqueued when an approved quote is sent to
// its customer.
type DeliveryPayload struct {
	QuoteID    string  `json:"quoteId"`
	EnquiryID  string  `json:"enquiryId"`
	CustomerID string  `json:"customerId"`
	ItemName   string  `json:"itemName"`
	TotalPrice float64 `json:"totalPrice"`
}

// NewDeliveryTask builds the asynq task for a quote delivery.
func NewDeliveryTask(payload DeliveryPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeQuoteDeliver, b)
	opts := []asynq.Option{asynq.MaxRetry(5), asynq.Timeout(30 * time.Second)}

	return task, opts, nil
}

// DeliveryQueue enqueues quote deliveries. The quote lifecycle service
// depends on this interface so tests can swap in a recorder.
type DeliveryQueue interface {
	EnqueueDelivery(ctx context.Context, payload DeliveryPayload) error
}

// AsynqDeliveryQueue enqueues deliveries on a Redis-backed asynq queue.
type AsynqDeliveryQueue struct {
	Client *asynq.Client
}

func NewAsynqDeliveryQueue(client *asynq.Client) *AsynqDeliveryQueue {
	return &AsynqDeliveryQueue{Client: client}
}

func (q *AsynqDeliveryQueue) EnqueueDelivery(ctx context.Context, payload DeliveryPayload) error {
	task, opts, err := NewDeliveryTask(payload)
	if err != nil {
		return fmt.Errorf("could not build delivery task: %w", err)
	}
	if _, err := q.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("could not enqueue delivery for quote %s: %w", payload.QuoteID, err)
	}
	return nil
}
