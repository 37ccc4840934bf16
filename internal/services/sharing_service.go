package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store"
	"github.com/google/uuid"
)

const (
	DefaultExpiryDays = 7
	MaxExpiryDays     = 365
)

// SharedAccess is what a share-code holder gets back.
type SharedAccess struct {
	Share       *models.SharedDocument
	Document    *models.Document
	DownloadURL string
}

type contentLinker interface {
	ContentURL(ctx context.Context, doc *models.Document) (string, error)
}

type SharingService struct {
	docs     store.Documents
	shares   store.Shares
	activity activityRecorder
	links    contentLinker
	now      func() time.Time
}

func NewSharingService(docs store.Documents, shares store.Shares, activities store.Activities, links contentLinker) *SharingService {
	return &SharingService{
		docs:     docs,
		shares:   shares,
		activity: activityRecorder{activities: activities},
		links:    links,
		now:      time.Now,
	}
}

func expiryDays(days int) (int, error) {
	if days == 0 {
		return DefaultExpiryDays, nil
	}
	if days < 1 || days > MaxExpiryDays {
		return 0, invalid("expiry_days", fmt.Sprintf("must be between 1 and %d", MaxExpiryDays))
	}
	return days, nil
}

func (s *SharingService) ownedDocument(ctx context.Context, documentID, ownerID uuid.UUID) (*models.Document, error) {
	doc, err := s.docs.Get(ctx, documentID)
	if err != nil {
		return nil, notFound("get document", err)
	}
	if doc.OwnerID != ownerID {
		return nil, ErrUnauthorized
	}
	return doc, nil
}

// Share grants grantee access to the document for days (0 means the default).
func (s *SharingService) Share(ctx context.Context, documentID, ownerID uuid.UUID, grantee string, days int) (*models.SharedDocument, error) {
	grantee = strings.TrimSpace(grantee)
	if grantee == "" {
		return nil, invalid("shared_with", "is required")
	}
	days, err := expiryDays(days)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedDocument(ctx, documentID, ownerID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	share := &models.SharedDocument{
		ID:         uuid.New(),
		DocumentID: documentID,
		SharedWith: grantee,
		ExpiresAt:  now.AddDate(0, 0, days),
		CreatedAt:  now,
		IsActive:   true,
	}
	for attempt := 1; ; attempt++ {
		if share.ShareCode, err = generateShareCode(); err != nil {
			return nil, err
		}
		err = s.shares.Create(ctx, share)
		if err == nil {
			break
		}
		if !errors.Is(err, store.ErrDuplicate) || attempt == codeAttempts {
			return nil, fmt.Errorf("failed to create share: %w", err)
		}
	}

	if err := s.activity.record(ctx, now, documentID, userRef(ownerID), models.ActionShare, map[string]interface{}{
		"shareId":    share.ID.String(),
		"sharedWith": grantee,
		"expiresAt":  share.ExpiresAt,
	}); err != nil {
		return nil, err
	}
	return share, nil
}

// ResolveByCode returns the grant only while it is active and unexpired.
func (s *SharingService) ResolveByCode(ctx context.Context, code string) (*models.SharedDocument, error) {
	if code == "" {
		return nil, ErrNotFound
	}
	share, err := s.shares.GetByCode(ctx, code)
	if err != nil {
		return nil, notFound("resolve share", err)
	}
	if !share.Usable(s.now()) {
		return nil, ErrNotFound
	}
	return share, nil
}

// Revoke deactivates a grant. Revoking twice is not an error.
func (s *SharingService) Revoke(ctx context.Context, shareID, requesterID uuid.UUID) error {
	share, err := s.shares.Get(ctx, shareID)
	if err != nil {
		return notFound("get share", err)
	}
	if _, err := s.ownedDocument(ctx, share.DocumentID, requesterID); err != nil {
		return err
	}
	if err := s.shares.Deactivate(ctx, shareID); err != nil {
		return notFound("revoke share", err)
	}
	return nil
}

func (s *SharingService) RecordAccess(ctx context.Context, shareID uuid.UUID) (int, error) {
	n, err := s.shares.IncrementAccess(ctx, shareID)
	if err != nil {
		return 0, notFound("record share access", err)
	}
	return n, nil
}

func (s *SharingService) ListByDocument(ctx context.Context, documentID, ownerID uuid.UUID) ([]models.SharedDocument, error) {
	if _, err := s.ownedDocument(ctx, documentID, ownerID); err != nil {
		return nil, err
	}
	shares, err := s.shares.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	return shares, nil
}

// Access redeems a share code: it counts the access, logs a download and
// returns the document with a download link when content is attached.
func (s *SharingService) Access(ctx context.Context, code string) (*SharedAccess, error) {
	share, err := s.ResolveByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	doc, err := s.docs.Get(ctx, share.DocumentID)
	if err != nil {
		return nil, notFound("get shared document", err)
	}

	if share.AccessCount, err = s.RecordAccess(ctx, share.ID); err != nil {
		return nil, err
	}
	if err := s.activity.record(ctx, s.now(), doc.ID, nil, models.ActionDownload, map[string]interface{}{
		"shareId":    share.ID.String(),
		"sharedWith": share.SharedWith,
	}); err != nil {
		return nil, err
	}

	access := &SharedAccess{Share: share, Document: doc}
	if s.links != nil {
		if access.DownloadURL, err = s.links.ContentURL(ctx, doc); err != nil {
			return nil, err
		}
	}
	return access, nil
}
