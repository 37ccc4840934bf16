package jobs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/blob"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/pdfinfo"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// DigestRecorder stores the outcome of a digest. It must ignore results for
// content that has since been replaced.
type DigestRecorder interface {
	RecordDigest(ctx context.Context, id uuid.UUID, contentKey, checksum string, pageCount int) error
}

type Processor struct {
	content  blob.Storage
	recorder DigestRecorder
}

func NewProcessor(content blob.Storage, recorder DigestRecorder) *Processor {
	return &Processor{content: content, recorder: recorder}
}

// Handler registers the digest handler for an asynq server.
func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(DigestTask, p.handleDigest)
	return mux
}

func (p *Processor) handleDigest(ctx context.Context, task *asynq.Task) error {
	var payload DigestPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	id, err := uuid.Parse(payload.DocumentID)
	if err != nil {
		return fmt.Errorf("decode document id: %v: %w", err, asynq.SkipRetry)
	}
	return p.Process(ctx, id, payload.ContentKey)
}

// Process downloads the content, digests it and records the result.
func (p *Processor) Process(ctx context.Context, documentID uuid.UUID, contentKey string) error {
	data, err := p.content.Get(ctx, contentKey)
	if errors.Is(err, blob.ErrNotFound) {
		slog.Info("digest skipped, content is gone", "document_id", documentID.String())
		return nil
	}
	if err != nil {
		return fmt.Errorf("download content: %w", err)
	}

	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])

	pages := 0
	if info, err := pdfinfo.Inspect(data); err == nil {
		pages = info.Pages
	} else if !errors.Is(err, pdfinfo.ErrNotPDF) {
		slog.Warn("failed to inspect pdf", "document_id", documentID.String(), "error", err)
	}

	if err := p.recorder.RecordDigest(ctx, documentID, contentKey, checksum, pages); err != nil {
		return fmt.Errorf("record digest: %w", err)
	}
	slog.Info("document digested", "document_id", documentID.String(), "bytes", len(data), "pages", pages)
	return nil
}
