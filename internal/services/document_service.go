package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/blob"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	codeAttempts     = 3
	maxWriteAttempts = 3
)

// FileMeta describes an uploaded file. Only metadata is recorded on upload.
type FileMeta struct {
	Name     string
	MimeType string
	Size     int64
}

// DocumentPatch lists the owner-editable fields. Nil fields are left alone.
// Status is not among them: only an institute review changes it.
type DocumentPatch struct {
	OriginalFileName *string
	Category         *models.Category
	Tags             *[]string
	Metadata         map[string]interface{}
}

type DocumentStats struct {
	Total          int                           `json:"total"`
	ByCategory     map[models.Category]int       `json:"by_category"`
	ByStatus       map[models.DocumentStatus]int `json:"by_status"`
	TotalSizeBytes int64                         `json:"total_size_bytes"`
}

// DigestDispatcher schedules the background digest of attached content.
type DigestDispatcher interface {
	Dispatch(ctx context.Context, documentID uuid.UUID, contentKey string) error
}

type DocumentService struct {
	docs     store.Documents
	activity activityRecorder
	content  blob.Storage
	digests  DigestDispatcher
	linkTTL  time.Duration
	maxSize  int64
	now      func() time.Time
}

// NewDocumentService wires the document store. content and digests may be nil
// when no blob storage is configured.
func NewDocumentService(docs store.Documents, activities store.Activities, content blob.Storage, digests DigestDispatcher, linkTTL time.Duration, maxSize int64) *DocumentService {
	return &DocumentService{
		docs:     docs,
		activity: activityRecorder{activities: activities},
		content:  content,
		digests:  digests,
		linkTTL:  linkTTL,
		maxSize:  maxSize,
		now:      time.Now,
	}
}

func (s *DocumentService) Upload(ctx context.Context, ownerID uuid.UUID, meta FileMeta, category models.Category) (*models.Document, error) {
	name := strings.TrimSpace(meta.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if meta.Size <= 0 {
		return nil, invalid("size", "must be greater than zero")
	}
	if !category.Valid() {
		return nil, invalid("category", "is not a known category")
	}

	now := s.now().UTC()
	id := uuid.New()
	metadata, err := json.Marshal(map[string]interface{}{"uploadedBy": ownerID.String(), "version": 1})
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}

	doc := &models.Document{
		ID:               id,
		OwnerID:          ownerID,
		FileName:         id.String() + "_" + name,
		OriginalFileName: name,
		FileType:         meta.MimeType,
		FileSize:         meta.Size,
		Category:         category,
		Status:           models.StatusPending,
		IsEncrypted:      true,
		Tags:             datatypes.JSON("[]"),
		Metadata:         datatypes.JSON(metadata),
		Version:          1,
		UploadDate:       now,
		LastModified:     now,
	}

	for attempt := 1; ; attempt++ {
		if doc.VerificationCode, err = GenerateCode(); err != nil {
			return nil, err
		}
		err = s.docs.Create(ctx, doc)
		if err == nil {
			break
		}
		if !errors.Is(err, store.ErrDuplicate) || attempt == codeAttempts {
			return nil, fmt.Errorf("failed to create document: %w", err)
		}
	}

	if err := s.activity.record(ctx, now, id, userRef(ownerID), models.ActionUpload, map[string]interface{}{
		"fileName": name,
		"fileSize": meta.Size,
	}); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetByID returns the document without an ownership check.
func (s *DocumentService) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	doc, err := s.docs.Get(ctx, id)
	if err != nil {
		return nil, notFound("get document", err)
	}
	return doc, nil
}

// GetOwned returns the document only to its owner.
func (s *DocumentService) GetOwned(ctx context.Context, id, requesterID uuid.UUID) (*models.Document, error) {
	doc, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != requesterID {
		return nil, ErrUnauthorized
	}
	return doc, nil
}

func (s *DocumentService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Document, error) {
	docs, err := s.docs.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

func (s *DocumentService) ListByCategory(ctx context.Context, ownerID uuid.UUID, category models.Category) ([]models.Document, error) {
	if !category.Valid() {
		return nil, invalid("category", "is not a known category")
	}
	docs, err := s.docs.ListByOwnerAndCategory(ctx, ownerID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

func (s *DocumentService) Delete(ctx context.Context, id, requesterID uuid.UUID) error {
	doc, err := s.GetOwned(ctx, id, requesterID)
	if err != nil {
		return err
	}
	if err := s.docs.Delete(ctx, id); err != nil {
		return notFound("delete document", err)
	}

	// The row is already gone, so a failed log entry no longer fails the call.
	if err := s.activity.record(ctx, s.now(), id, userRef(requesterID), models.ActionDelete, map[string]interface{}{
		"fileName": doc.OriginalFileName,
	}); err != nil {
		slog.Warn("failed to record document deletion", "document_id", id.String(), "error", err)
	}

	if doc.HasContent() && s.content != nil {
		if err := s.content.Delete(ctx, doc.ContentKey); err != nil {
			slog.Warn("failed to remove document content", "document_id", id.String(), "error", err)
		}
	}
	return nil
}

// Update applies patch for the owner. A non-nil expectedVersion must match the
// stored version.
func (s *DocumentService) Update(ctx context.Context, id, requesterID uuid.UUID, patch DocumentPatch, expectedVersion *int) (*models.Document, error) {
	doc, err := s.GetOwned(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}
	if expectedVersion != nil && *expectedVersion != doc.Version {
		return nil, ErrVersionConflict
	}

	if patch.OriginalFileName != nil {
		name := strings.TrimSpace(*patch.OriginalFileName)
		if name == "" {
			return nil, invalid("original_file_name", "must not be empty")
		}
		doc.OriginalFileName = name
		doc.FileName = doc.ID.String() + "_" + name
	}
	if patch.Category != nil {
		if !patch.Category.Valid() {
			return nil, invalid("category", "is not a known category")
		}
		doc.Category = *patch.Category
	}
	if patch.Tags != nil {
		b, err := json.Marshal(*patch.Tags)
		if err != nil {
			return nil, invalid("tags", "must be a list of strings")
		}
		doc.Tags = datatypes.JSON(b)
	}
	if len(patch.Metadata) > 0 {
		meta := decodeObject(doc.Metadata)
		for k, v := range patch.Metadata {
			meta[k] = v
		}
		if doc.Metadata, err = encodeObject(meta); err != nil {
			return nil, err
		}
	}

	prev := doc.Version
	if err := bumpVersion(doc, s.now()); err != nil {
		return nil, err
	}
	if err := s.docs.Update(ctx, doc, prev); err != nil {
		return nil, writeError(err)
	}
	return doc, nil
}

func (s *DocumentService) Stats(ctx context.Context, ownerID uuid.UUID) (*DocumentStats, error) {
	docs, err := s.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	stats := &DocumentStats{
		Total:      len(docs),
		ByCategory: make(map[models.Category]int, len(models.Categories)),
		ByStatus:   make(map[models.DocumentStatus]int, len(models.DocumentStatuses)),
	}
	for _, c := range models.Categories {
		stats.ByCategory[c] = 0
	}
	for _, st := range models.DocumentStatuses {
		stats.ByStatus[st] = 0
	}
	for _, d := range docs {
		stats.ByCategory[d.Category]++
		stats.ByStatus[d.Status]++
		stats.TotalSizeBytes += d.FileSize
	}
	return stats, nil
}

// Activity lists the retained activity entries of a document for its owner.
func (s *DocumentService) Activity(ctx context.Context, id, requesterID uuid.UUID) ([]models.DocumentActivity, error) {
	if _, err := s.GetOwned(ctx, id, requesterID); err != nil {
		return nil, err
	}
	entries, err := s.activity.activities.ListByDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return entries, nil
}

// AttachContent stores the document bytes and schedules their digest. Any
// previous checksum and signature are cleared because they no longer match.
func (s *DocumentService) AttachContent(ctx context.Context, id, requesterID uuid.UUID, contentType string, size int64, r io.Reader) (*models.Document, error) {
	if s.content == nil {
		return nil, invalid("content", "content storage is not configured")
	}
	if size <= 0 {
		return nil, invalid("file", "must not be empty")
	}
	if s.maxSize > 0 && size > s.maxSize {
		return nil, invalid("file", fmt.Sprintf("must be at most %d bytes", s.maxSize))
	}
	if _, err := s.GetOwned(ctx, id, requesterID); err != nil {
		return nil, err
	}

	key := blob.Key(id)
	if err := s.content.Put(ctx, key, r, size, contentType); err != nil {
		return nil, fmt.Errorf("failed to store content: %w", err)
	}

	var previous string
	doc, err := mutateDocument(ctx, s.docs, id, s.now, func(d *models.Document) error {
		previous = d.ContentKey
		d.ContentKey = key
		d.FileSize = size
		if contentType != "" {
			d.FileType = contentType
		}
		d.Checksum = ""
		d.DigitalSignature = ""
		return nil
	})
	if err != nil {
		if delErr := s.content.Delete(ctx, key); delErr != nil {
			slog.Warn("failed to remove orphaned content", "document_id", id.String(), "error", delErr)
		}
		return nil, err
	}

	if previous != "" && previous != key {
		if err := s.content.Delete(ctx, previous); err != nil {
			slog.Warn("failed to remove replaced content", "document_id", id.String(), "error", err)
		}
	}

	if s.digests != nil {
		if err := s.digests.Dispatch(ctx, id, key); err != nil {
			return nil, fmt.Errorf("failed to schedule digest: %w", err)
		}
	}
	return doc, nil
}

// RecordDigest stores the checksum and page count computed for contentKey.
// Results for content that has since been replaced are dropped.
func (s *DocumentService) RecordDigest(ctx context.Context, id uuid.UUID, contentKey, checksum string, pageCount int) error {
	_, err := mutateDocument(ctx, s.docs, id, s.now, func(d *models.Document) error {
		if d.ContentKey != contentKey {
			return errStaleContent
		}
		d.Checksum = checksum
		if pageCount > 0 {
			meta := decodeObject(d.Metadata)
			meta["pageCount"] = pageCount
			var err error
			d.Metadata, err = encodeObject(meta)
			return err
		}
		return nil
	})
	if errors.Is(err, errStaleContent) {
		slog.Info("digest result dropped for replaced content", "document_id", id.String())
		return nil
	}
	return err
}

// Content returns the attached bytes of a document.
func (s *DocumentService) Content(ctx context.Context, doc *models.Document) ([]byte, error) {
	if !doc.HasContent() || s.content == nil {
		return nil, ErrNoContent
	}
	data, err := s.content.Get(ctx, doc.ContentKey)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, ErrNoContent
		}
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	return data, nil
}

// ContentURL returns a time-limited download link, or "" when the document
// has no content.
func (s *DocumentService) ContentURL(ctx context.Context, doc *models.Document) (string, error) {
	if !doc.HasContent() || s.content == nil {
		return "", nil
	}
	u, err := s.content.URL(ctx, doc.ContentKey, s.linkTTL)
	if err != nil {
		return "", fmt.Errorf("failed to create download link: %w", err)
	}
	return u, nil
}

var errStaleContent = errors.New("content was replaced")

// mutateDocument reloads the document, applies fn and writes it back with a
// version check, retrying when another writer got there first.
func mutateDocument(ctx context.Context, docs store.Documents, id uuid.UUID, now func() time.Time, fn func(*models.Document) error) (*models.Document, error) {
	for attempt := 1; ; attempt++ {
		doc, err := docs.Get(ctx, id)
		if err != nil {
			return nil, notFound("get document", err)
		}
		if err := fn(doc); err != nil {
			return nil, err
		}
		prev := doc.Version
		if err := bumpVersion(doc, now()); err != nil {
			return nil, err
		}
		err = docs.Update(ctx, doc, prev)
		if err == nil {
			return doc, nil
		}
		if errors.Is(err, store.ErrConflict) && attempt < maxWriteAttempts {
			continue
		}
		return nil, writeError(err)
	}
}

func bumpVersion(doc *models.Document, now time.Time) error {
	doc.Version++
	doc.LastModified = now.UTC()
	meta := decodeObject(doc.Metadata)
	meta["version"] = doc.Version
	var err error
	doc.Metadata, err = encodeObject(meta)
	return err
}

func writeError(err error) error {
	switch {
	case errors.Is(err, store.ErrConflict):
		return ErrVersionConflict
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("failed to update document: %w", err)
	}
}

func decodeObject(raw datatypes.JSON) map[string]interface{} {
	out := map[string]interface{}{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	if out == nil {
		out = map[string]interface{}{}
	}
	return out
}

func encodeObject(m map[string]interface{}) (datatypes.JSON, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, invalid("metadata", "must be JSON encodable")
	}
	return datatypes.JSON(b), nil
}
