package memstore

import (
	"context"
	"slices"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type documents struct{ m *memory }

func copyDocument(d *models.Document) *models.Document {
	cp := *d
	cp.Tags = datatypes.JSON(slices.Clone(d.Tags))
	cp.Metadata = datatypes.JSON(slices.Clone(d.Metadata))
	if d.VerifiedBy != nil {
		by := *d.VerifiedBy
		cp.VerifiedBy = &by
	}
	if d.VerifiedAt != nil {
		at := *d.VerifiedAt
		cp.VerifiedAt = &at
	}
	return &cp
}

func (r *documents) Create(_ context.Context, d *models.Document) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.documents[d.ID]; ok {
		return store.ErrDuplicate
	}
	for _, existing := range r.m.documents {
		if existing.VerificationCode == d.VerificationCode {
			return store.ErrDuplicate
		}
	}
	r.m.documents[d.ID] = copyDocument(d)
	r.m.documentOrder = append(r.m.documentOrder, d.ID)
	return nil
}

func (r *documents) Get(_ context.Context, id uuid.UUID) (*models.Document, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	d, ok := r.m.documents[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyDocument(d), nil
}

func (r *documents) GetByVerificationCode(_ context.Context, code string) (*models.Document, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, d := range r.m.documents {
		if d.VerificationCode == code {
			return copyDocument(d), nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *documents) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]models.Document, error) {
	return r.filter(func(d *models.Document) bool { return d.OwnerID == ownerID }), nil
}

func (r *documents) ListByOwnerAndCategory(_ context.Context, ownerID uuid.UUID, category models.Category) ([]models.Document, error) {
	return r.filter(func(d *models.Document) bool {
		return d.OwnerID == ownerID && d.Category == category
	}), nil
}

func (r *documents) filter(keep func(*models.Document) bool) []models.Document {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := []models.Document{}
	for _, id := range r.m.documentOrder {
		if d := r.m.documents[id]; keep(d) {
			out = append(out, *copyDocument(d))
		}
	}
	return out
}

func (r *documents) Update(_ context.Context, d *models.Document, expectedVersion int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	current, ok := r.m.documents[d.ID]
	if !ok {
		return store.ErrNotFound
	}
	if current.Version != expectedVersion {
		return store.ErrConflict
	}
	r.m.documents[d.ID] = copyDocument(d)
	return nil
}

func (r *documents) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.documents[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.m.documents, id)
	r.m.documentOrder = removeID(r.m.documentOrder, id)
	return nil
}
