package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

var ErrPoolClosed = errors.New("worker pool is closed")

type digestJob struct {
	documentID uuid.UUID
	contentKey string
}

// Pool runs digests in-process when no Redis is configured. Dispatch may be
// called before Start; jobs wait in the buffer.
type Pool struct {
	workers int
	queue   chan digestJob

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewPool(workers, buffer int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Pool{workers: workers, queue: make(chan digestJob, buffer)}
}

// Start launches the workers on proc. They drain the queue until Stop is
// called.
func (p *Pool) Start(ctx context.Context, proc *Processor) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.queue {
				if err := proc.Process(ctx, job.documentID, job.contentKey); err != nil {
					slog.Error("digest failed", "document_id", job.documentID.String(), "error", err)
				}
			}
		}()
	}
}

// Dispatch queues a digest, blocking while the buffer is full.
func (p *Pool) Dispatch(ctx context.Context, documentID uuid.UUID, contentKey string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.queue <- digestJob{documentID: documentID, contentKey: contentKey}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop rejects new work and waits for queued digests to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	p.wg.Wait()
}
