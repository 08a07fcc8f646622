// Package notes is the guest-mode note collection kept in local storage until
// a sync hands it to the remote service.
package notes

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyNote is returned by Validate when both fields are blank.
var ErrEmptyNote = errors.New("note cannot be empty")

// Note is a locally held note.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate rejects notes whose title and content are both blank.
// The Store does not call it; creating callers must.
func Validate(title, content string) error {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(content) == "" {
		return ErrEmptyNote
	}
	return nil
}

// newID combines the creation time with a random suffix. Unique enough for
// one profile; not a global identifier.
func newID(now time.Time) string {
	return fmt.Sprintf("note_%d_%s", now.UnixMilli(), uuid.NewString()[:8])
}
