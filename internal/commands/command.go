// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"go.uber.org/zap"

	"quill/internal/config"
	"quill/internal/draft"
	"quill/internal/notes"
	"quill/internal/service"
	"quill/internal/storage"
	"quill/internal/syncer"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command talks to the remote service.
	// Local note commands, help, version, login and logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int
}

// Session is what one invocation works with.
type Session struct {
	// Cfg is always provided (config dir, paths, settings).
	Cfg *config.Config

	// Svc is nil if the command's NeedsAuth returns false.
	Svc service.Service

	// Store is the local key/value store. Always provided.
	Store storage.Store

	// Log is never nil.
	Log *zap.Logger

	// Sync is the invocation's sync agent. Nil unless Svc is set.
	Sync *syncer.Agent
}

// NewSession returns a Session over store with no remote service.
func NewSession(cfg *config.Config, store storage.Store, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{Cfg: cfg, Store: store, Log: log}
}

// Connect attaches the remote service and a sync agent over the local notes.
func (s *Session) Connect(svc service.Service) {
	s.Svc = svc
	s.Sync = syncer.New(s.Notes(), s.SyncFlag(), svc, s.Log)
}

// Notes returns the local note store.
func (s *Session) Notes() *notes.Store {
	return notes.NewStore(s.Store, s.Log, notes.WithOnChange(func(all []notes.Note) {
		s.Log.Debug("local notes changed", zap.Int("count", len(all)))
	}))
}

// Drafts returns the draft store.
func (s *Session) Drafts() *draft.Store {
	return draft.NewStore(s.Store, s.Log)
}

// SyncFlag returns the pending-sync marker.
func (s *Session) SyncFlag() *storage.Flag {
	return storage.NewFlag(s.Store, storage.KeySyncPending)
}
