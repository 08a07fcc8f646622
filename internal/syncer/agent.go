// Package syncer hands guest notes over to the remote service after login.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"quill/internal/notes"
	"quill/internal/service"
	"quill/internal/storage"
)

// ErrSyncFailed wraps every reason an upload was not acknowledged.
var ErrSyncFailed = errors.New("sync failed")

// State is a Sync Agent state.
type State int

const (
	Idle State = iota
	Pending
	InFlight
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case InFlight:
		return "in-flight"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Uploader is the part of the remote service the agent needs.
type Uploader interface {
	SyncNotes(ctx context.Context, notes []service.SyncNote) (service.SyncResult, error)
}

// Outcome describes what a Run did.
type Outcome struct {
	State    State
	Uploaded int
}

// Agent uploads the local notes once when the sync flag is set.
//
// On success the local collection and the flag are removed and the remote
// service owns the notes. On failure both are left as they were, so a later
// Agent retries the whole upload.
type Agent struct {
	notes  *notes.Store
	flag   *storage.Flag
	remote Uploader
	log    *zap.Logger

	mu        sync.Mutex
	outcome   Outcome
	err       error
	attempted bool
}

// New returns an idle Agent.
func New(store *notes.Store, flag *storage.Flag, remote Uploader, log *zap.Logger) *Agent {
	return &Agent{
		notes:  store,
		flag:   flag,
		remote: remote,
		log:    log,
	}
}

// State returns the current state.
func (a *Agent) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.outcome.State
}

// Err returns the error of a failed upload, or nil.
func (a *Agent) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Run performs at most one upload for the lifetime of the Agent. Later calls
// after an upload attempt return the first outcome without touching the
// network. The returned error is non-nil only when the state is Failed.
func (a *Agent) Run(ctx context.Context) (Outcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.attempted {
		return a.outcome, nil
	}

	pending, err := a.flag.IsSet()
	if err != nil {
		a.log.Warn("failed to read sync flag", zap.Error(err))
		return a.set(Idle, 0), nil
	}
	if !pending {
		return a.set(Idle, 0), nil
	}
	a.set(Pending, 0)

	local := a.notes.List()
	if len(local) == 0 {
		if err := a.flag.Clear(); err != nil {
			a.log.Warn("failed to clear sync flag", zap.Error(err))
		}
		a.log.Debug("nothing to sync")
		return a.set(Idle, 0), nil
	}

	a.attempted = true
	a.set(InFlight, 0)

	result, err := a.remote.SyncNotes(ctx, toUpload(local))
	if err != nil {
		return a.fail(fmt.Errorf("%w: %w", ErrSyncFailed, err))
	}
	if !result.OK() {
		return a.fail(fmt.Errorf("%w: server answered status %q", ErrSyncFailed, result.Status))
	}

	if err := a.notes.Clear(); err != nil {
		// The server has the notes; the next run re-uploads and the server
		// deduplicates.
		a.log.Warn("synced notes could not be removed locally", zap.Error(err))
	}
	if err := a.flag.Clear(); err != nil {
		a.log.Warn("failed to clear sync flag", zap.Error(err))
	}

	a.log.Info("local notes synced to cloud", zap.Int("count", len(local)))
	return a.set(Succeeded, len(local)), nil
}

func (a *Agent) fail(err error) (Outcome, error) {
	a.log.Warn("note sync failed, will retry on next login", zap.Error(err))
	a.err = err
	return a.set(Failed, 0), err
}

func (a *Agent) set(state State, uploaded int) Outcome {
	a.outcome = Outcome{State: state, Uploaded: uploaded}
	return a.outcome
}

func toUpload(local []notes.Note) []service.SyncNote {
	out := make([]service.SyncNote, 0, len(local))
	for _, n := range local {
		out = append(out, service.SyncNote{
			Title:     n.Title,
			Content:   n.Content,
			CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return out
}
