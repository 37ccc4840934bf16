package memstore

import (
	"context"
	"strings"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store"
	"github.com/google/uuid"
)

type users struct{ m *memory }

func (r *users) Create(_ context.Context, u *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.users[u.ID]; ok {
		return store.ErrDuplicate
	}
	for _, existing := range r.m.users {
		if existing.IsActive && strings.EqualFold(existing.Email, u.Email) {
			return store.ErrDuplicate
		}
	}
	cp := *u
	r.m.users[u.ID] = &cp
	r.m.userOrder = append(r.m.userOrder, u.ID)
	return nil
}

func (r *users) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	u, ok := r.m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, id := range r.m.userOrder {
		u := r.m.users[id]
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *users) FindActive(_ context.Context, email string, role models.Role) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	for _, id := range r.m.userOrder {
		u := r.m.users[id]
		if u.IsActive && u.Role == role && strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *users) List(_ context.Context) ([]models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	out := make([]models.User, 0, len(r.m.userOrder))
	for _, id := range r.m.userOrder {
		out = append(out, *r.m.users[id])
	}
	return out, nil
}

type refreshTokens struct{ m *memory }

func (r *refreshTokens) Create(_ context.Context, t *models.RefreshToken) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.refreshTokens[t.TokenHash]; ok {
		return store.ErrDuplicate
	}
	cp := *t
	r.m.refreshTokens[t.TokenHash] = &cp
	return nil
}

func (r *refreshTokens) GetActiveByHash(_ context.Context, hash string) (*models.RefreshToken, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	t, ok := r.m.refreshTokens[hash]
	if !ok || t.Revoked {
		return nil, store.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *refreshTokens) Revoke(_ context.Context, hash string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if t, ok := r.m.refreshTokens[hash]; ok {
		t.Revoked = true
	}
	return nil
}
