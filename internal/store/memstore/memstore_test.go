package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers_DuplicateEmailAmongActive(t *testing.T) {
	ctx := context.Background()
	s := New()

	first := &models.User{ID: uuid.New(), Email: "rahul@student.edu", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, s.Users.Create(ctx, first))

	dup := &models.User{ID: uuid.New(), Email: "RAHUL@student.edu", Role: models.RoleInstitute, IsActive: true}
	assert.ErrorIs(t, s.Users.Create(ctx, dup), store.ErrDuplicate)

	got, err := s.Users.FindActive(ctx, "rahul@student.edu", models.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = s.Users.FindActive(ctx, "rahul@student.edu", models.RoleInstitute)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDocuments_UpdateChecksVersion(t *testing.T) {
	ctx := context.Background()
	s := New()

	doc := &models.Document{ID: uuid.New(), OwnerID: uuid.New(), VerificationCode: "A", Version: 1}
	require.NoError(t, s.Documents.Create(ctx, doc))

	doc.Version = 2
	doc.OriginalFileName = "renamed.pdf"
	require.NoError(t, s.Documents.Update(ctx, doc, 1))

	stale := *doc
	stale.Version = 2
	assert.ErrorIs(t, s.Documents.Update(ctx, &stale, 1), store.ErrConflict)

	got, err := s.Documents.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	assert.Equal(t, "renamed.pdf", got.OriginalFileName)
}

func TestDocuments_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New()

	doc := &models.Document{ID: uuid.New(), VerificationCode: "A", Status: models.StatusPending}
	require.NoError(t, s.Documents.Create(ctx, doc))
	doc.Status = models.StatusVerified

	got, err := s.Documents.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestDocuments_GetByVerificationCode(t *testing.T) {
	ctx := context.Background()
	s := New()

	doc := &models.Document{ID: uuid.New(), VerificationCode: "KX4QZ7MB2N5PLA3R"}
	require.NoError(t, s.Documents.Create(ctx, doc))
	require.NoError(t, s.Documents.Create(ctx, &models.Document{ID: uuid.New(), VerificationCode: "OTHER"}))

	got, err := s.Documents.GetByVerificationCode(ctx, "KX4QZ7MB2N5PLA3R")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)

	_, err = s.Documents.GetByVerificationCode(ctx, "kx4qz7mb2n5pla3r")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestConsents_ResolveOnlyOnce(t *testing.T) {
	ctx := context.Background()
	s := New()

	req := &models.ConsentRequest{ID: uuid.New(), DocumentID: uuid.New(), Status: models.ConsentPending}
	require.NoError(t, s.Consents.Create(ctx, req))

	now := time.Now()
	require.NoError(t, s.Consents.Resolve(ctx, req.ID, models.ConsentApproved, now))
	assert.ErrorIs(t, s.Consents.Resolve(ctx, req.ID, models.ConsentRejected, now), store.ErrConflict)
	assert.ErrorIs(t, s.Consents.Resolve(ctx, uuid.New(), models.ConsentRejected, now), store.ErrNotFound)
}

func TestConsents_ListPendingForOwnerJoinsDocuments(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Now()
	owner := uuid.New()

	mine := &models.Document{ID: uuid.New(), OwnerID: owner, VerificationCode: "A"}
	theirs := &models.Document{ID: uuid.New(), OwnerID: uuid.New(), VerificationCode: "B"}
	require.NoError(t, s.Documents.Create(ctx, mine))
	require.NoError(t, s.Documents.Create(ctx, theirs))

	pending := &models.ConsentRequest{ID: uuid.New(), DocumentID: mine.ID, Status: models.ConsentPending, ExpiresAt: now.Add(time.Hour)}
	expired := &models.ConsentRequest{ID: uuid.New(), DocumentID: mine.ID, Status: models.ConsentPending, ExpiresAt: now.Add(-time.Hour)}
	other := &models.ConsentRequest{ID: uuid.New(), DocumentID: theirs.ID, Status: models.ConsentPending, ExpiresAt: now.Add(time.Hour)}
	for _, c := range []*models.ConsentRequest{pending, expired, other} {
		require.NoError(t, s.Consents.Create(ctx, c))
	}

	got, err := s.Consents.ListPendingForOwner(ctx, owner, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pending.ID, got[0].ID)
}

func TestShares_IncrementAndDeactivate(t *testing.T) {
	ctx := context.Background()
	s := New()

	share := &models.SharedDocument{ID: uuid.New(), ShareCode: "code", IsActive: true}
	require.NoError(t, s.Shares.Create(ctx, share))

	for i := 1; i <= 3; i++ {
		n, err := s.Shares.IncrementAccess(ctx, share.ID)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	require.NoError(t, s.Shares.Deactivate(ctx, share.ID))
	require.NoError(t, s.Shares.Deactivate(ctx, share.ID))

	got, err := s.Shares.GetByCode(ctx, "code")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, 3, got.AccessCount)
}

func TestActivities_RingKeepsNewest(t *testing.T) {
	ctx := context.Background()
	s := New()
	doc := uuid.New()

	for i := 0; i < 130; i++ {
		a := &models.DocumentActivity{ID: uuid.New(), DocumentID: doc, Action: models.ActionView}
		require.NoError(t, s.Activities.Append(ctx, a, models.ActivityRingSize))
	}

	n, err := s.Activities.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(models.ActivityRingSize), n)

	list, err := s.Activities.ListByDocument(ctx, doc)
	require.NoError(t, err)
	require.Len(t, list, models.ActivityRingSize)
	assert.Equal(t, int64(31), list[0].Seq)
	assert.Equal(t, int64(130), list[len(list)-1].Seq)
}
