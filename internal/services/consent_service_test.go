package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsent_RequestDefaults(t *testing.T) {
	f := newFixture(t)
	doc, _ := sharedDoc(t, f)

	req, err := f.consents.Request(context.Background(), doc.ID, "verifier-1", "", 0)
	require.NoError(t, err)
	assert.Equal(t, models.ConsentPending, req.Status)
	assert.Equal(t, "verifier-1", req.RequestedByName)
	assert.Equal(t, f.clock.Now().AddDate(0, 0, 7), req.ExpiresAt)
	assert.Nil(t, req.ResponseAt)

	_, err = f.consents.Request(context.Background(), uuid.New(), "verifier-1", "", 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConsent_ApproveOnce(t *testing.T) {
	f := newFixture(t)
	doc, owner := sharedDoc(t, f)
	ctx := context.Background()

	req, err := f.consents.Request(ctx, doc.ID, "hr@company.com", "ABC Company HR", 7)
	require.NoError(t, err)

	_, err = f.consents.Respond(ctx, req.ID, owner, models.ConsentApproved)
	require.NoError(t, err)

	list, err := f.consents.ListByDocument(ctx, doc.ID, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.ConsentApproved, list[0].Status)
	require.NotNil(t, list[0].ResponseAt)

	_, err = f.consents.Respond(ctx, req.ID, owner, models.ConsentRejected)
	assert.ErrorIs(t, err, ErrAlreadyResponded)
}

func TestConsent_RespondErrors(t *testing.T) {
	f := newFixture(t)
	doc, owner := sharedDoc(t, f)
	ctx := context.Background()

	req, err := f.consents.Request(ctx, doc.ID, "hr@company.com", "", 1)
	require.NoError(t, err)

	_, err = f.consents.Respond(ctx, uuid.New(), owner, models.ConsentApproved)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.consents.Respond(ctx, req.ID, uuid.New(), models.ConsentApproved)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.consents.Respond(ctx, req.ID, owner, models.ConsentPending)
	assert.ErrorIs(t, err, ErrValidation)

	f.clock.Advance(25 * time.Hour)
	_, err = f.consents.Respond(ctx, req.ID, owner, models.ConsentApproved)
	assert.ErrorIs(t, err, ErrConsentExpired)
}

func TestConsent_Listings(t *testing.T) {
	f := newFixture(t)
	doc, owner := sharedDoc(t, f)
	ctx := context.Background()

	short, err := f.consents.Request(ctx, doc.ID, "bank", "", 1)
	require.NoError(t, err)
	long, err := f.consents.Request(ctx, doc.ID, "hr@company.com", "", 30)
	require.NoError(t, err)

	pending, err := f.consents.ListPendingForUser(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	f.clock.Advance(48 * time.Hour)
	pending, err = f.consents.ListPendingForUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, long.ID, pending[0].ID)

	none, err := f.consents.ListPendingForUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)

	mine, err := f.consents.ListByRequester(ctx, "bank")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, short.ID, mine[0].ID)

	_, err = f.consents.ListByDocument(ctx, doc.ID, uuid.New())
	assert.ErrorIs(t, err, ErrUnauthorized)
}
