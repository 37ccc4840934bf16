// Package jobs computes content digests off the request path, either through
// an asynq queue backed by Redis or an in-process worker pool.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// DigestTask is scheduled each time content is attached to a document.
const DigestTask = "document:digest"

type DigestPayload struct {
	DocumentID string `json:"document_id"`
	ContentKey string `json:"content_key"`
}

func NewDigestTask(documentID uuid.UUID, contentKey string) (*asynq.Task, error) {
	data, err := json.Marshal(DigestPayload{DocumentID: documentID.String(), ContentKey: contentKey})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return asynq.NewTask(DigestTask, data), nil
}

// Dispatcher enqueues digest tasks on Redis for cmd/worker to run.
type Dispatcher struct {
	client *asynq.Client
}

func NewDispatcher(opt asynq.RedisClientOpt) *Dispatcher {
	return &Dispatcher{client: asynq.NewClient(opt)}
}

func (d *Dispatcher) Dispatch(ctx context.Context, documentID uuid.UUID, contentKey string) error {
	task, err := NewDigestTask(documentID, contentKey)
	if err != nil {
		return err
	}
	if _, err := d.client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue digest task: %w", err)
	}
	return nil
}

func (d *Dispatcher) Close() error {
	return d.client.Close()
}
