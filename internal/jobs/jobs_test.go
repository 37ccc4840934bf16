package jobs

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"testing"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/blob"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/signing"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	id       uuid.UUID
	key      string
	checksum string
	pages    int
}

type fakeRecorder struct {
	mu   sync.Mutex
	got  []recorded
	fail error
}

func (r *fakeRecorder) RecordDigest(_ context.Context, id uuid.UUID, key, checksum string, pages int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.got = append(r.got, recorded{id, key, checksum, pages})
	return nil
}

func (r *fakeRecorder) calls() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.got...)
}

func newContent(t *testing.T) *blob.Local {
	t.Helper()
	l, err := blob.NewLocal(t.TempDir(), "http://locker.test", signing.NewURLSigner([]byte("s")))
	require.NoError(t, err)
	return l
}

func put(t *testing.T, l *blob.Local, key string, data []byte) {
	t.Helper()
	require.NoError(t, l.Put(context.Background(), key, bytes.NewReader(data), int64(len(data)), "text/plain"))
}

func sha(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func TestProcess_RecordsChecksum(t *testing.T) {
	content := newContent(t)
	rec := &fakeRecorder{}
	id := uuid.New()
	key := blob.Key(id)
	put(t, content, key, []byte("hello"))

	require.NoError(t, NewProcessor(content, rec).Process(context.Background(), id, key))

	got := rec.calls()
	require.Len(t, got, 1)
	assert.Equal(t, recorded{id, key, sha([]byte("hello")), 0}, got[0])
}

func TestProcess_MissingContentIsSkipped(t *testing.T) {
	rec := &fakeRecorder{}
	err := NewProcessor(newContent(t), rec).Process(context.Background(), uuid.New(), "documents/x/y")
	require.NoError(t, err)
	assert.Empty(t, rec.calls())
}

func TestProcess_RecorderError(t *testing.T) {
	content := newContent(t)
	boom := errors.New("boom")
	id := uuid.New()
	key := blob.Key(id)
	put(t, content, key, []byte("hello"))

	err := NewProcessor(content, &fakeRecorder{fail: boom}).Process(context.Background(), id, key)
	assert.ErrorIs(t, err, boom)
}

func TestHandleDigest(t *testing.T) {
	content := newContent(t)
	rec := &fakeRecorder{}
	p := NewProcessor(content, rec)
	id := uuid.New()
	key := blob.Key(id)
	put(t, content, key, []byte("payload"))

	task, err := NewDigestTask(id, key)
	require.NoError(t, err)
	assert.Equal(t, DigestTask, task.Type())
	require.NoError(t, p.handleDigest(context.Background(), task))
	require.Len(t, rec.calls(), 1)

	err = p.handleDigest(context.Background(), asynq.NewTask(DigestTask, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = p.handleDigest(context.Background(), asynq.NewTask(DigestTask, []byte(`{"document_id":"nope"}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestPool_DrainsOnStop(t *testing.T) {
	content := newContent(t)
	rec := &fakeRecorder{}
	pool := NewPool(3, 16)

	early := uuid.New()
	earlyKey := blob.Key(early)
	put(t, content, earlyKey, []byte("queued before start"))
	require.NoError(t, pool.Dispatch(context.Background(), early, earlyKey))
	pool.Start(context.Background(), NewProcessor(content, rec))

	for i := 0; i < 10; i++ {
		id := uuid.New()
		key := blob.Key(id)
		put(t, content, key, []byte{byte(i)})
		require.NoError(t, pool.Dispatch(context.Background(), id, key))
	}
	pool.Stop()
	pool.Stop()

	assert.Len(t, rec.calls(), 11)
	assert.ErrorIs(t, pool.Dispatch(context.Background(), uuid.New(), "k"), ErrPoolClosed)
}

func TestPool_DispatchHonoursContext(t *testing.T) {
	pool := NewPool(1, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, pool.Dispatch(ctx, uuid.New(), "k"), context.Canceled)
}
