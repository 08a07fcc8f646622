package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"quill/internal/draft"
	"quill/internal/notes"
	"quill/internal/service"
	"quill/internal/testutil"
)

func TestFormatNote_Golden(t *testing.T) {
	var buf bytes.Buffer
	FormatNote(&buf, 1, notes.Note{Title: "Groceries", Content: "milk\neggs\n\nbread"})
	FormatNote(&buf, 2, notes.Note{Title: "  ", Content: "untitled body"})
	FormatNote(&buf, 12, notes.Note{Title: "line\nbreak"})
	testutil.GoldenString(t, "note_list", buf.String())
}

func TestFormatNoteDetail_Golden(t *testing.T) {
	var buf bytes.Buffer
	FormatNoteDetail(&buf, notes.Note{
		ID:        "note_1736835651000_1a2b3c4d",
		Title:     "Groceries",
		Content:   "milk\neggs",
		CreatedAt: time.Date(2025, 1, 14, 6, 20, 51, 0, time.Local),
	})
	testutil.GoldenString(t, "note_detail", buf.String())
}

func TestFormatCategory_Golden(t *testing.T) {
	var buf bytes.Buffer
	FormatCategory(&buf, 1, service.Category{ID: "1", Name: "Work"})
	FormatCategory(&buf, 2, service.Category{ID: "2", Name: " "})
	testutil.GoldenString(t, "categories", buf.String())
}

func TestFormatDraft(t *testing.T) {
	var buf bytes.Buffer
	FormatDraft(&buf, draft.Draft{
		Title:     "Plan",
		Content:   "step one",
		Timestamp: time.Date(2025, 1, 14, 6, 20, 0, 0, time.Local),
	})
	assert.Equal(t, Separator+"\ndraft saved 2025-01-14 06:20\n"+Separator+"\ntitle: Plan\nstep one\n", buf.String())
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "", Preview(""))
	assert.Equal(t, "a b c", Preview(" a\n b\tc "))

	exact := strings.Repeat("é", PreviewLimit)
	assert.Equal(t, exact, Preview(exact))

	long := strings.Repeat("é", PreviewLimit+5)
	assert.Equal(t, exact+"...", Preview(long))
}

func TestExport(t *testing.T) {
	n := notes.Note{Title: "Trip/Plan", Content: "pack"}
	assert.Equal(t, "Trip/Plan\n\npack", ExportText(n))
	assert.Equal(t, "Trip_Plan.txt", ExportFilename(n))

	blank := notes.Note{Content: "body"}
	assert.Equal(t, "Untitled\n\nbody", ExportText(blank))
	assert.Equal(t, "Untitled.txt", ExportFilename(blank))
}

func TestReminderNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewReminderNotifier(&buf)
	n.Notify(service.Reminder{NoteID: "1", Title: "Dentist"})
	n.Notify(service.Reminder{NoteID: "2"})
	assert.Equal(t, "Reminder: Dentist\nReminder: Untitled\n", buf.String())
}
