package notes

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"quill/internal/storage"
)

// Store owns the local note collection.
//
// Every mutation reads the full collection, changes it and writes it back.
// There is no locking across processes sharing the same storage.
type Store struct {
	slot     *storage.Slot[[]Note]
	log      *zap.Logger
	now      func() time.Time
	newID    func(time.Time) string
	onChange func([]Note)
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides id generation.
func WithIDGenerator(gen func(time.Time) string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithOnChange registers a callback run after every persisted mutation with
// the new collection.
func WithOnChange(fn func([]Note)) Option {
	return func(s *Store) { s.onChange = fn }
}

// NewStore returns a Store over kv.
func NewStore(kv storage.Store, log *zap.Logger, opts ...Option) *Store {
	s := &Store{
		slot:  storage.NewSlot[[]Note](kv, storage.KeyLocalNotes),
		log:   log,
		now:   time.Now,
		newID: newID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the notes in insertion order.
// Missing or unreadable data yields an empty list; the cause is logged.
func (s *Store) List() []Note {
	notes, _, err := s.slot.Load()
	if err != nil {
		s.log.Warn("failed to load local notes", zap.Error(err))
		return nil
	}
	return notes
}

// Len returns the number of notes.
func (s *Store) Len() int {
	return len(s.List())
}

// Get returns the note with id.
func (s *Store) Get(id string) (Note, bool) {
	for _, n := range s.List() {
		if n.ID == id {
			return n, true
		}
	}
	return Note{}, false
}

// Search returns notes whose title or content contains query,
// ignoring case. An empty query matches everything.
func (s *Store) Search(query string) []Note {
	notes := s.List()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return notes
	}

	var matches []Note
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n.Title), query) ||
			strings.Contains(strings.ToLower(n.Content), query) {
			matches = append(matches, n)
		}
	}
	return matches
}

// Create appends a new note and persists the collection.
func (s *Store) Create(title, content string) (Note, error) {
	notes := s.List()

	now := s.now().UTC()
	note := Note{
		ID:        s.newID(now),
		Title:     strings.TrimSpace(title),
		Content:   strings.TrimSpace(content),
		CreatedAt: now,
	}

	if err := s.persist(append(notes, note)); err != nil {
		return Note{}, err
	}
	s.log.Debug("created local note", zap.String("id", note.ID))
	return note, nil
}

// Update replaces the title and content of the note with id, keeping its
// position and creation time. Unknown ids are ignored.
func (s *Store) Update(id, title, content string) error {
	notes := s.List()

	for i := range notes {
		if notes[i].ID != id {
			continue
		}
		notes[i].Title = strings.TrimSpace(title)
		notes[i].Content = strings.TrimSpace(content)
		return s.persist(notes)
	}

	s.log.Debug("update of unknown local note ignored", zap.String("id", id))
	return nil
}

// Delete removes the note with id. Unknown ids are ignored.
func (s *Store) Delete(id string) error {
	notes := s.List()

	kept := notes[:0]
	for _, n := range notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	return s.persist(kept)
}

// Clear drops the whole collection.
func (s *Store) Clear() error {
	if err := s.slot.Clear(); err != nil {
		return err
	}
	s.changed(nil)
	return nil
}

func (s *Store) persist(notes []Note) error {
	if notes == nil {
		notes = []Note{}
	}
	if err := s.slot.Save(notes); err != nil {
		return err
	}
	s.changed(notes)
	return nil
}

func (s *Store) changed(notes []Note) {
	if s.onChange != nil {
		s.onChange(notes)
	}
}
