package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marksheet() FileMeta {
	return FileMeta{Name: "marks.pdf", MimeType: "application/pdf", Size: 240 * 1024}
}

func TestUpload_SetsServerFields(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	doc, err := f.docs.Upload(context.Background(), owner, marksheet(), models.CategoryMarksheet)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, doc.Status)
	assert.True(t, doc.IsEncrypted)
	assert.Len(t, doc.VerificationCode, 16)
	assert.Equal(t, doc.ID.String()+"_marks.pdf", doc.FileName)
	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, f.clock.Now(), doc.UploadDate)
	assert.JSONEq(t, `[]`, string(doc.Tags))
	assert.JSONEq(t, `{"uploadedBy":"`+owner.String()+`","version":1}`, string(doc.Metadata))

	entries, err := f.store.Activities.ListByDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionUpload, entries[0].Action)
}

func TestUpload_RoundTripsThroughGetByID(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	created, err := f.docs.Upload(context.Background(), owner, marksheet(), models.CategoryMarksheet)
	require.NoError(t, err)

	got, err := f.docs.GetByID(context.Background(), created.ID)
	require.NoError(t, err)

	want := models.Document{
		OwnerID:          owner,
		OriginalFileName: "marks.pdf",
		FileType:         "application/pdf",
		FileSize:         240 * 1024,
		Category:         models.CategoryMarksheet,
		Status:           models.StatusPending,
		IsEncrypted:      true,
		Version:          1,
	}
	ignore := cmpopts.IgnoreFields(models.Document{},
		"ID", "FileName", "VerificationCode", "Tags", "Metadata", "UploadDate", "LastModified")
	if diff := cmp.Diff(want, *got, ignore); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestUpload_Validation(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	_, err := f.docs.Upload(context.Background(), owner, FileMeta{Name: "", Size: 1}, models.CategoryOther)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.docs.Upload(context.Background(), owner, FileMeta{Name: "a", Size: 0}, models.CategoryOther)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.docs.Upload(context.Background(), owner, FileMeta{Name: "a", Size: 1}, "passport")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()

	_, err := f.docs.Upload(context.Background(), owner, marksheet(), models.CategoryMarksheet)
	require.NoError(t, err)
	_, err = f.docs.Upload(context.Background(), uuid.New(), marksheet(), models.CategoryMarksheet)
	require.NoError(t, err)

	stats, err := f.docs.Stats(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.ByCategory[models.CategoryMarksheet])
	assert.Equal(t, 0, stats.ByCategory[models.CategoryIdentity])
	assert.Equal(t, 1, stats.ByStatus[models.StatusPending])
	assert.Equal(t, int64(245760), stats.TotalSizeBytes)
}

func TestListByCategory(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	ctx := context.Background()

	_, err := f.docs.Upload(ctx, owner, marksheet(), models.CategoryMarksheet)
	require.NoError(t, err)
	_, err = f.docs.Upload(ctx, owner, FileMeta{Name: "id.png", Size: 10}, models.CategoryIdentity)
	require.NoError(t, err)

	docs, err := f.docs.ListByCategory(ctx, owner, models.CategoryIdentity)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "id.png", docs[0].OriginalFileName)

	all, err := f.docs.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDelete_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	ctx := context.Background()

	doc, err := f.docs.Upload(ctx, owner, marksheet(), models.CategoryMarksheet)
	require.NoError(t, err)

	assert.ErrorIs(t, f.docs.Delete(ctx, doc.ID, uuid.New()), ErrUnauthorized)
	require.NoError(t, f.docs.Delete(ctx, doc.ID, owner))
	assert.ErrorIs(t, f.docs.Delete(ctx, doc.ID, owner), ErrNotFound)

	_, err = f.docs.GetByID(ctx, doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// deleteLogFails rejects activity entries for deletions.
type deleteLogFails struct {
	store.Activities
}

var errActivityDown = errors.New("activity table unavailable")

func (a deleteLogFails) Append(ctx context.Context, act *models.DocumentActivity, keep int) error {
	if act.Action == models.ActionDelete {
		return errActivityDown
	}
	return a.Activities.Append(ctx, act, keep)
}

func TestDelete_SucceedsWhenActivityLogFails(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	ctx := context.Background()
	docs := NewDocumentService(f.store.Documents, deleteLogFails{f.store.Activities}, nil, nil, time.Minute, 1<<20)

	doc, err := docs.Upload(ctx, owner, marksheet(), models.CategoryMarksheet)
	require.NoError(t, err)

	require.NoError(t, docs.Delete(ctx, doc.ID, owner))
	_, err = docs.GetByID(ctx, doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	ctx := context.Background()

	doc, err := f.docs.Upload(ctx, owner, marksheet(), models.CategoryMarksheet)
	require.NoError(t, err)
	f.clock.Advance(time.Hour)

	name := "semester-1.pdf"
	category := models.CategoryCertificate
	tags := []string{"2024", "semester"}
	v := 1
	updated, err := f.docs.Update(ctx, doc.ID, owner, DocumentPatch{
		OriginalFileName: &name,
		Category:         &category,
		Tags:             &tags,
		Metadata:         map[string]interface{}{"issuer": "CBSE"},
	}, &v)
	require.NoError(t, err)

	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, doc.ID.String()+"_semester-1.pdf", updated.FileName)
	assert.Equal(t, models.CategoryCertificate, updated.Category)
	assert.Equal(t, models.StatusPending, updated.Status)
	assert.Equal(t, f.clock.Now(), updated.LastModified)
	assert.JSONEq(t, `["2024","semester"]`, string(updated.Tags))

	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(updated.Metadata, &meta))
	assert.Equal(t, "CBSE", meta["issuer"])
	assert.Equal(t, owner.String(), meta["uploadedBy"])
	assert.EqualValues(t, 2, meta["version"])
}

func TestUpdate_Errors(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	ctx := context.Background()

	doc, err := f.docs.Upload(ctx, owner, marksheet(), models.CategoryMarksheet)
	require.NoError(t, err)

	bad := models.Category("passport")
	_, err = f.docs.Update(ctx, doc.ID, owner, DocumentPatch{Category: &bad}, nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.docs.Update(ctx, doc.ID, uuid.New(), DocumentPatch{}, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.docs.Update(ctx, uuid.New(), owner, DocumentPatch{}, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.docs.Update(ctx, doc.ID, owner, DocumentPatch{}, nil)
	require.NoError(t, err)

	stale := 1
	_, err = f.docs.Update(ctx, doc.ID, owner, DocumentPatch{}, &stale)
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestActivity_OwnerOnlyAndRingBounded(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	ctx := context.Background()

	doc, err := f.docs.Upload(ctx, owner, marksheet(), models.CategoryMarksheet)
	require.NoError(t, err)

	_, err = f.docs.Activity(ctx, doc.ID, uuid.New())
	assert.ErrorIs(t, err, ErrUnauthorized)

	for i := 0; i < 120; i++ {
		_, err := f.verify.Verify(ctx, doc.ID, "WRONG")
		require.NoError(t, err)
	}

	n, err := f.store.Activities.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, models.ActivityRingSize, n)

	entries, err := f.docs.Activity(ctx, doc.ID, owner)
	require.NoError(t, err)
	assert.Len(t, entries, models.ActivityRingSize)
	for _, e := range entries {
		assert.Equal(t, models.ActionVerify, e.Action, "the upload entry was evicted first")
	}
}

func TestAttachContent_DispatchesDigest(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	ctx := context.Background()

	doc, err := f.docs.Upload(ctx, owner, marksheet(), models.CategoryMarksheet)
	require.NoError(t, err)

	body := "%PDF-1.4 fake"
	updated, err := f.docs.AttachContent(ctx, doc.ID, owner, "application/pdf", int64(len(body)), strings.NewReader(body))
	require.NoError(t, err)
	assert.True(t, updated.HasContent())
	assert.Equal(t, int64(len(body)), updated.FileSize)
	assert.Equal(t, 2, updated.Version)

	require.Len(t, f.digests.calls, 1)
	assert.Equal(t, digestCall{doc.ID, updated.ContentKey}, f.digests.calls[0])

	data, err := f.docs.Content(ctx, updated)
	require.NoError(t, err)
	assert.Equal(t, body, string(data))

	link, err := f.docs.ContentURL(ctx, updated)
	require.NoError(t, err)
	assert.Contains(t, link, "http://locker.test/api/blobs/"+updated.ContentKey)

	require.NoError(t, f.docs.RecordDigest(ctx, doc.ID, updated.ContentKey, "abc123", 3))
	got, err := f.docs.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "abc123", got.Checksum)
	assert.Contains(t, string(got.Metadata), `"pageCount":3`)

	require.NoError(t, f.docs.RecordDigest(ctx, doc.ID, "documents/old", "zzz", 1))
	got, err = f.docs.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "abc123", got.Checksum, "results for replaced content are dropped")
}

func TestAttachContent_Limits(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	ctx := context.Background()

	doc, err := f.docs.Upload(ctx, owner, marksheet(), models.CategoryMarksheet)
	require.NoError(t, err)

	_, err = f.docs.AttachContent(ctx, doc.ID, owner, "application/pdf", 2<<20, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.docs.AttachContent(ctx, doc.ID, uuid.New(), "application/pdf", 1, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.docs.Content(ctx, doc)
	assert.ErrorIs(t, err, ErrNoContent)
}
