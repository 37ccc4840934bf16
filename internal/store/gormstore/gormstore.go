// Package gormstore implements the store interfaces on postgres through gorm.
package gormstore

import (
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// New wires every collection to db.
func New(db *gorm.DB) *store.Store {
	return &store.Store{
		Users:         &Users{db: db},
		RefreshTokens: &RefreshTokens{db: db},
		Documents:     &Documents{db: db},
		Shares:        &Shares{db: db},
		Consents:      &Consents{db: db},
		Activities:    &Activities{db: db},
	}
}

// translate maps driver errors onto the store sentinels and wraps the rest
// with op.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return store.ErrDuplicate
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return store.ErrDuplicate
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
