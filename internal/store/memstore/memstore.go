// Package memstore keeps all collections in process memory behind a single
// RWMutex. Records are copied on the way in and out so callers never share
// state with the store.
package memstore

import (
	"sync"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store"
	"github.com/google/uuid"
)

type memory struct {
	mu sync.RWMutex

	users         map[uuid.UUID]*models.User
	refreshTokens map[string]*models.RefreshToken
	documents     map[uuid.UUID]*models.Document
	shares        map[uuid.UUID]*models.SharedDocument
	consents      map[uuid.UUID]*models.ConsentRequest
	activities    []models.DocumentActivity
	activitySeq   int64

	// insertion order, so listings are stable like a table scan
	userOrder     []uuid.UUID
	documentOrder []uuid.UUID
	shareOrder    []uuid.UUID
	consentOrder  []uuid.UUID
}

// New returns a Store whose collections share one in-memory database.
func New() *store.Store {
	m := &memory{
		users:         make(map[uuid.UUID]*models.User),
		refreshTokens: make(map[string]*models.RefreshToken),
		documents:     make(map[uuid.UUID]*models.Document),
		shares:        make(map[uuid.UUID]*models.SharedDocument),
		consents:      make(map[uuid.UUID]*models.ConsentRequest),
	}
	return &store.Store{
		Users:         &users{m},
		RefreshTokens: &refreshTokens{m},
		Documents:     &documents{m},
		Shares:        &shares{m},
		Consents:      &consents{m},
		Activities:    &activities{m},
	}
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
