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

type ConsentService struct {
	docs     store.Documents
	consents store.Consents
	now      func() time.Time
}

func NewConsentService(docs store.Documents, consents store.Consents) *ConsentService {
	return &ConsentService{docs: docs, consents: consents, now: time.Now}
}

// Request files a pending consent request for the document. requesterName
// falls back to requesterID.
func (s *ConsentService) Request(ctx context.Context, documentID uuid.UUID, requesterID, requesterName string, days int) (*models.ConsentRequest, error) {
	requesterID = strings.TrimSpace(requesterID)
	if requesterID == "" {
		return nil, invalid("requested_by", "is required")
	}
	days, err := expiryDays(days)
	if err != nil {
		return nil, err
	}
	if _, err := s.docs.Get(ctx, documentID); err != nil {
		return nil, notFound("get document", err)
	}

	name := strings.TrimSpace(requesterName)
	if name == "" {
		name = requesterID
	}
	now := s.now().UTC()
	req := &models.ConsentRequest{
		ID:              uuid.New(),
		DocumentID:      documentID,
		RequestedBy:     requesterID,
		RequestedByName: name,
		RequestedAt:     now,
		Status:          models.ConsentPending,
		ExpiresAt:       now.AddDate(0, 0, days),
	}
	if err := s.consents.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create consent request: %w", err)
	}
	return req, nil
}

// ListPendingForUser returns unexpired pending requests on documents ownerID
// owns.
func (s *ConsentService) ListPendingForUser(ctx context.Context, ownerID uuid.UUID) ([]models.ConsentRequest, error) {
	out, err := s.consents.ListPendingForOwner(ctx, ownerID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list pending consent requests: %w", err)
	}
	return out, nil
}

func (s *ConsentService) Respond(ctx context.Context, requestID, ownerID uuid.UUID, decision models.ConsentStatus) (*models.ConsentRequest, error) {
	req, err := s.consents.Get(ctx, requestID)
	if err != nil {
		return nil, notFound("get consent request", err)
	}
	doc, err := s.docs.Get(ctx, req.DocumentID)
	if err != nil {
		return nil, notFound("get document", err)
	}
	if doc.OwnerID != ownerID {
		return nil, ErrUnauthorized
	}
	if decision != models.ConsentApproved && decision != models.ConsentRejected {
		return nil, invalid("status", "must be approved or rejected")
	}
	if req.Status != models.ConsentPending {
		return nil, ErrAlreadyResponded
	}
	now := s.now().UTC()
	if !now.Before(req.ExpiresAt) {
		return nil, ErrConsentExpired
	}

	if err := s.consents.Resolve(ctx, requestID, decision, now); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			return nil, ErrAlreadyResponded
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrNotFound
		default:
			return nil, fmt.Errorf("failed to respond to consent request: %w", err)
		}
	}
	req.Status = decision
	req.ResponseAt = &now
	return req, nil
}

func (s *ConsentService) ListByDocument(ctx context.Context, documentID, ownerID uuid.UUID) ([]models.ConsentRequest, error) {
	doc, err := s.docs.Get(ctx, documentID)
	if err != nil {
		return nil, notFound("get document", err)
	}
	if doc.OwnerID != ownerID {
		return nil, ErrUnauthorized
	}
	out, err := s.consents.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list consent requests: %w", err)
	}
	return out, nil
}

// ListByRequester returns the requests a third party has filed.
func (s *ConsentService) ListByRequester(ctx context.Context, requesterID string) ([]models.ConsentRequest, error) {
	out, err := s.consents.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list consent requests: %w", err)
	}
	return out, nil
}
