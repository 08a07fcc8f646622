package syncer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quill/internal/notes"
	"quill/internal/service"
	"quill/internal/storage"
)

type stubUploader struct {
	result service.SyncResult
	err    error
	calls  int
	got    []service.SyncNote
}

func (s *stubUploader) SyncNotes(ctx context.Context, n []service.SyncNote) (service.SyncResult, error) {
	s.calls++
	s.got = n
	return s.result, s.err
}

type fixture struct {
	kv    *storage.MemoryStore
	notes *notes.Store
	flag  *storage.Flag
}

func newFixture(t *testing.T, pending bool, titles ...string) fixture {
	t.Helper()

	kv := storage.NewMemoryStore()
	created := time.Date(2025, 1, 14, 6, 20, 51, 123000000, time.UTC)
	store := notes.NewStore(kv, zap.NewNop(), notes.WithClock(func() time.Time { return created }))
	for _, title := range titles {
		_, err := store.Create(title, "body of "+title)
		require.NoError(t, err)
	}

	flag := storage.NewFlag(kv, storage.KeySyncPending)
	if pending {
		require.NoError(t, flag.Set())
	}
	return fixture{kv: kv, notes: store, flag: flag}
}

func (f fixture) flagSet(t *testing.T) bool {
	t.Helper()
	set, err := f.flag.IsSet()
	require.NoError(t, err)
	return set
}

func TestRun_SuccessTransfersOwnership(t *testing.T) {
	f := newFixture(t, true, "one", "two")
	remote := &stubUploader{result: service.SyncResult{Status: "success"}}

	agent := New(f.notes, f.flag, remote, zap.NewNop())
	out, err := agent.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Outcome{State: Succeeded, Uploaded: 2}, out)
	assert.Equal(t, Succeeded, agent.State())
	assert.Zero(t, f.notes.Len())
	assert.False(t, f.flagSet(t))

	require.Len(t, remote.got, 2)
	assert.Equal(t, service.SyncNote{
		Title:     "one",
		Content:   "body of one",
		CreatedAt: "2025-01-14T06:20:51.123Z",
	}, remote.got[0])
}

func TestRun_NonSuccessStatusKeepsEverything(t *testing.T) {
	f := newFixture(t, true, "one")
	before := f.notes.List()
	remote := &stubUploader{result: service.SyncResult{Status: "error"}}

	out, err := New(f.notes, f.flag, remote, zap.NewNop()).Run(context.Background())

	assert.ErrorIs(t, err, ErrSyncFailed)
	assert.Equal(t, Failed, out.State)
	assert.Equal(t, before, f.notes.List())
	assert.True(t, f.flagSet(t))
}

func TestRun_TransportErrorKeepsEverything(t *testing.T) {
	f := newFixture(t, true, "one")
	before := f.notes.List()
	cause := errors.New("connection refused")
	remote := &stubUploader{err: cause}

	out, err := New(f.notes, f.flag, remote, zap.NewNop()).Run(context.Background())

	assert.ErrorIs(t, err, ErrSyncFailed)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, Failed, out.State)
	assert.Equal(t, before, f.notes.List())
	assert.True(t, f.flagSet(t))
}

func TestRun_EmptyStoreClearsFlagWithoutNetwork(t *testing.T) {
	f := newFixture(t, true)
	remote := &stubUploader{result: service.SyncResult{Status: "success"}}

	out, err := New(f.notes, f.flag, remote, zap.NewNop()).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Idle, out.State)
	assert.Zero(t, remote.calls)
	assert.False(t, f.flagSet(t))
}

func TestRun_NoFlagDoesNothing(t *testing.T) {
	f := newFixture(t, false, "one")
	remote := &stubUploader{result: service.SyncResult{Status: "success"}}

	out, err := New(f.notes, f.flag, remote, zap.NewNop()).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Idle, out.State)
	assert.Zero(t, remote.calls)
	assert.Equal(t, 1, f.notes.Len())
}

func TestRun_SingleAttemptPerAgent(t *testing.T) {
	f := newFixture(t, true, "one")
	remote := &stubUploader{err: errors.New("offline")}
	agent := New(f.notes, f.flag, remote, zap.NewNop())

	_, err := agent.Run(context.Background())
	require.Error(t, err)

	remote.err = nil
	remote.result = service.SyncResult{Status: "success"}
	out, err := agent.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Failed, out.State)
	assert.Equal(t, 1, remote.calls)
	assert.ErrorIs(t, agent.Err(), ErrSyncFailed)

	// A fresh agent (the next invocation) retries the whole upload.
	out, err = New(f.notes, f.flag, remote, zap.NewNop()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Succeeded, out.State)
	assert.Equal(t, 2, remote.calls)
}

func TestRun_IdleRunDoesNotConsumeAttempt(t *testing.T) {
	f := newFixture(t, false, "one")
	remote := &stubUploader{result: service.SyncResult{Status: "success"}}
	agent := New(f.notes, f.flag, remote, zap.NewNop())

	out, _ := agent.Run(context.Background())
	assert.Equal(t, Idle, out.State)

	require.NoError(t, f.flag.Set())
	out, err := agent.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Succeeded, out.State)
}

func TestRun_MalformedLocalDataCountsAsEmpty(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, f.kv.Set(storage.KeyLocalNotes, "{broken"))
	remote := &stubUploader{}

	out, err := New(f.notes, f.flag, remote, zap.NewNop()).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Idle, out.State)
	assert.Zero(t, remote.calls)
	assert.False(t, f.flagSet(t))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "in-flight", InFlight.String())
	assert.Equal(t, "succeeded", Succeeded.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "State(9)", State(9).String())
}
