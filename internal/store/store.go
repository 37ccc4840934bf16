// Package store defines the persistence boundary used by the locker services.
// Implementations live in the gormstore (postgres) and memstore (in-process)
// subpackages.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	ErrConflict  = errors.New("record was modified concurrently")
)

type Users interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	FindActive(ctx context.Context, email string, role models.Role) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type RefreshTokens interface {
	Create(ctx context.Context, t *models.RefreshToken) error
	GetActiveByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, hash string) error
}

type Documents interface {
	Create(ctx context.Context, d *models.Document) error
	Get(ctx context.Context, id uuid.UUID) (*models.Document, error)
	GetByVerificationCode(ctx context.Context, code string) (*models.Document, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Document, error)
	ListByOwnerAndCategory(ctx context.Context, ownerID uuid.UUID, category models.Category) ([]models.Document, error)
	// Update writes d only if the stored version still equals expectedVersion.
	Update(ctx context.Context, d *models.Document, expectedVersion int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Shares interface {
	Create(ctx context.Context, s *models.SharedDocument) error
	Get(ctx context.Context, id uuid.UUID) (*models.SharedDocument, error)
	GetByCode(ctx context.Context, code string) (*models.SharedDocument, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]models.SharedDocument, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	IncrementAccess(ctx context.Context, id uuid.UUID) (int, error)
}

type Consents interface {
	Create(ctx context.Context, c *models.ConsentRequest) error
	Get(ctx context.Context, id uuid.UUID) (*models.ConsentRequest, error)
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]models.ConsentRequest, error)
	ListPendingForOwner(ctx context.Context, ownerID uuid.UUID, now time.Time) ([]models.ConsentRequest, error)
	ListByRequester(ctx context.Context, requester string) ([]models.ConsentRequest, error)
	// Resolve moves a pending request to status. ErrConflict means it was no
	// longer pending.
	Resolve(ctx context.Context, id uuid.UUID, status models.ConsentStatus, at time.Time) error
}

type Activities interface {
	// Append stores a and keeps only the newest keep entries.
	Append(ctx context.Context, a *models.DocumentActivity, keep int) error
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]models.DocumentActivity, error)
	Count(ctx context.Context) (int64, error)
}

// Store bundles the collections so callers can inject a single value.
type Store struct {
	Users         Users
	RefreshTokens RefreshTokens
	Documents     Documents
	Shares        Shares
	Consents      Consents
	Activities    Activities
}
