package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/blob"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/signing"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store/memstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type digestCall struct {
	DocumentID uuid.UUID
	ContentKey string
}

type recordingDispatcher struct {
	calls []digestCall
}

func (d *recordingDispatcher) Dispatch(_ context.Context, id uuid.UUID, key string) error {
	d.calls = append(d.calls, digestCall{id, key})
	return nil
}

type fixture struct {
	store    *store.Store
	clock    *fakeClock
	digests  *recordingDispatcher
	docs     *DocumentService
	sharing  *SharingService
	consents *ConsentService
	verify   *VerificationService
}

var testSigner = func() *signing.RSASigner {
	s, err := signing.GenerateRSASigner(1024)
	if err != nil {
		panic(err)
	}
	return s
}()

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memstore.New()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)}

	content, err := blob.NewLocal(t.TempDir(), "http://locker.test", signing.NewURLSigner([]byte("s")))
	require.NoError(t, err)

	f := &fixture{store: st, clock: clock, digests: &recordingDispatcher{}}
	f.docs = NewDocumentService(st.Documents, st.Activities, content, f.digests, time.Minute, 1<<20)
	f.docs.now = clock.Now
	f.sharing = NewSharingService(st.Documents, st.Shares, st.Activities, f.docs)
	f.sharing.now = clock.Now
	f.consents = NewConsentService(st.Documents, st.Consents)
	f.consents.now = clock.Now
	f.verify = NewVerificationService(st.Documents, st.Activities, testSigner, f.docs, "http://locker.test/")
	f.verify.now = clock.Now
	return f
}
