package memstore

import (
	"context"
	"slices"
	"time"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type shares struct{ m *memory }

func (r *shares) Create(_ context.Context, s *models.SharedDocument) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.shares[s.ID]; ok {
		return store.ErrDuplicate
	}
	for _, existing := range r.m.shares {
		if existing.ShareCode == s.ShareCode {
			return store.ErrDuplicate
		}
	}
	cp := *s
	r.m.shares[s.ID] = &cp
	r.m.shareOrder = append(r.m.shareOrder, s.ID)
	return nil
}

func (r *shares) Get(_ context.Context, id uuid.UUID) (*models.SharedDocument, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	s, ok := r.m.shares[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *shares) GetByCode(_ context.Context, code string) (*models.SharedDocument, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, s := range r.m.shares {
		if s.ShareCode == code {
			cp := *s
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *shares) ListByDocument(_ context.Context, documentID uuid.UUID) ([]models.SharedDocument, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := []models.SharedDocument{}
	for _, id := range r.m.shareOrder {
		if s := r.m.shares[id]; s.DocumentID == documentID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *shares) Deactivate(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	s, ok := r.m.shares[id]
	if !ok {
		return store.ErrNotFound
	}
	s.IsActive = false
	return nil
}

func (r *shares) IncrementAccess(_ context.Context, id uuid.UUID) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	s, ok := r.m.shares[id]
	if !ok {
		return 0, store.ErrNotFound
	}
	s.AccessCount++
	return s.AccessCount, nil
}

type consents struct{ m *memory }

func copyConsent(c *models.ConsentRequest) models.ConsentRequest {
	cp := *c
	if c.ResponseAt != nil {
		at := *c.ResponseAt
		cp.ResponseAt = &at
	}
	return cp
}

func (r *consents) Create(_ context.Context, c *models.ConsentRequest) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.consents[c.ID]; ok {
		return store.ErrDuplicate
	}
	cp := copyConsent(c)
	r.m.consents[c.ID] = &cp
	r.m.consentOrder = append(r.m.consentOrder, c.ID)
	return nil
}

func (r *consents) Get(_ context.Context, id uuid.UUID) (*models.ConsentRequest, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	c, ok := r.m.consents[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := copyConsent(c)
	return &cp, nil
}

func (r *consents) filter(keep func(*models.ConsentRequest) bool) []models.ConsentRequest {
	out := []models.ConsentRequest{}
	for _, id := range r.m.consentOrder {
		if c := r.m.consents[id]; keep(c) {
			out = append(out, copyConsent(c))
		}
	}
	return out
}

func (r *consents) ListByDocument(_ context.Context, documentID uuid.UUID) ([]models.ConsentRequest, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	return r.filter(func(c *models.ConsentRequest) bool { return c.DocumentID == documentID }), nil
}

func (r *consents) ListPendingForOwner(_ context.Context, ownerID uuid.UUID, now time.Time) ([]models.ConsentRequest, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	return r.filter(func(c *models.ConsentRequest) bool {
		d, ok := r.m.documents[c.DocumentID]
		return ok && d.OwnerID == ownerID && c.Status == models.ConsentPending && now.Before(c.ExpiresAt)
	}), nil
}

func (r *consents) ListByRequester(_ context.Context, requester string) ([]models.ConsentRequest, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	return r.filter(func(c *models.ConsentRequest) bool { return c.RequestedBy == requester }), nil
}

func (r *consents) Resolve(_ context.Context, id uuid.UUID, status models.ConsentStatus, at time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	c, ok := r.m.consents[id]
	if !ok {
		return store.ErrNotFound
	}
	if c.Status != models.ConsentPending {
		return store.ErrConflict
	}
	c.Status = status
	c.ResponseAt = &at
	return nil
}

type activities struct{ m *memory }

func (r *activities) Append(_ context.Context, a *models.DocumentActivity, keep int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	r.m.activitySeq++
	cp := *a
	cp.Seq = r.m.activitySeq
	cp.Details = datatypes.JSON(slices.Clone(a.Details))
	r.m.activities = append(r.m.activities, cp)
	if over := len(r.m.activities) - keep; keep > 0 && over > 0 {
		r.m.activities = slices.Clone(r.m.activities[over:])
	}
	return nil
}

func (r *activities) ListByDocument(_ context.Context, documentID uuid.UUID) ([]models.DocumentActivity, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := []models.DocumentActivity{}
	for _, a := range r.m.activities {
		if a.DocumentID == documentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *activities) Count(_ context.Context) (int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return int64(len(r.m.activities)), nil
}
