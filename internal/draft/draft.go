// Package draft keeps a single autosaved snapshot of the note being written.
package draft

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"quill/internal/schedule"
	"quill/internal/storage"
)

// DefaultInterval is how often Autosave snapshots the editor.
const DefaultInterval = 5 * time.Second

// Draft is an unsaved editor snapshot.
type Draft struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Store holds at most one Draft.
type Store struct {
	slot *storage.Slot[Draft]
	log  *zap.Logger
	now  func() time.Time
}

// NewStore returns a draft Store over kv.
func NewStore(kv storage.Store, log *zap.Logger) *Store {
	return &Store{
		slot: storage.NewSlot[Draft](kv, storage.KeyDraft),
		log:  log,
		now:  time.Now,
	}
}

// Save overwrites the draft.
func (s *Store) Save(title, content string) error {
	return s.slot.Save(Draft{
		Title:     title,
		Content:   content,
		Timestamp: s.now().UTC(),
	})
}

// Load returns the saved draft. A draft that cannot be read is logged and
// treated as absent.
func (s *Store) Load() (Draft, bool) {
	d, ok, err := s.slot.Load()
	if err != nil {
		s.log.Warn("failed to load saved draft", zap.Error(err))
		return Draft{}, false
	}
	return d, ok
}

// Clear removes the draft. Call it only once the note has really been saved.
func (s *Store) Clear() error {
	return s.slot.Clear()
}

// Restore returns the fields to show in the editor. The draft is only used
// when both current fields are blank, so text the user already typed is never
// replaced.
func Restore(d Draft, title, content string) (string, string, bool) {
	if strings.TrimSpace(title) != "" || strings.TrimSpace(content) != "" {
		return title, content, false
	}
	return d.Title, d.Content, true
}

// Editor exposes the fields being edited.
type Editor interface {
	Fields() (title, content string, err error)
}

// Autosave saves the editor's fields every interval until ctx is cancelled or
// the returned handle is stopped. Every tick writes, changed or not.
func Autosave(ctx context.Context, s *Store, ed Editor, interval time.Duration) *schedule.Handle {
	return schedule.Every(ctx, interval, func(ctx context.Context) {
		title, content, err := ed.Fields()
		if err != nil {
			s.log.Warn("autosave skipped", zap.Error(err))
			return
		}
		if err := s.Save(title, content); err != nil {
			s.log.Warn("autosave failed", zap.Error(err))
			return
		}
		s.log.Debug("draft autosaved")
	})
}
