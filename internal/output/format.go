// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"quill/internal/draft"
	"quill/internal/notes"
	"quill/internal/service"
)

const (
	// Separator is the separator line around section headers.
	Separator = "------------"

	// Untitled replaces blank note titles.
	Untitled = "Untitled"

	// PreviewLimit is the maximum number of runes of content shown in lists.
	PreviewLimit = 200

	// TimeLayout is used for timestamps in detail views.
	TimeLayout = "2006-01-02 15:04"
)

// FormatNote formats a note line with a preview of its content.
// Format: "{N:>4}  {TITLE}\n" then "      {PREVIEW}\n" when there is content.
func FormatNote(w io.Writer, num int, n notes.Note) {
	fmt.Fprintf(w, "%4d  %s\n", num, displayTitle(n.Title))
	if p := Preview(n.Content); p != "" {
		fmt.Fprintf(w, "      %s\n", p)
	}
}

// FormatNoteDetail formats a single note in full.
func FormatNoteDetail(w io.Writer, n notes.Note) {
	FormatHeader(w, displayTitle(n.Title))
	if n.Content != "" {
		fmt.Fprintln(w, n.Content)
	}
	fmt.Fprintf(w, "\nid: %s\ncreated: %s\n", n.ID, n.CreatedAt.Local().Format(TimeLayout))
}

// FormatHeader formats a section header.
func FormatHeader(w io.Writer, title string) {
	fmt.Fprintln(w, Separator)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, Separator)
}

// FormatCategory formats a category line.
// Format: "{N:>4}  {NAME}\n"
func FormatCategory(w io.Writer, num int, c service.Category) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(w, "%4d  %s\n", num, name)
}

// FormatDraft formats the saved draft.
func FormatDraft(w io.Writer, d draft.Draft) {
	FormatHeader(w, "draft saved "+d.Timestamp.Local().Format(TimeLayout))
	fmt.Fprintf(w, "title: %s\n", d.Title)
	if d.Content != "" {
		fmt.Fprintln(w, d.Content)
	}
}

// Preview flattens content to one line and truncates it to PreviewLimit
// runes, marking the cut with "...".
func Preview(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(content) <= PreviewLimit {
		return content
	}
	return string([]rune(content)[:PreviewLimit]) + "..."
}

// ExportText renders a note as the body of an exported text file.
func ExportText(n notes.Note) string {
	return exportTitle(n.Title) + "\n\n" + n.Content
}

// ExportFilename returns the file name used to export a note.
func ExportFilename(n notes.Note) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, exportTitle(n.Title))
	return name + ".txt"
}

func exportTitle(title string) string {
	if title == "" {
		return Untitled
	}
	return title
}

// displayTitle normalizes a note title for display.
// - Empty or whitespace-only titles become "Untitled"
// - Newlines are replaced with spaces
func displayTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return Untitled
	}
	return title
}

// ReminderNotifier prints reminders as they fire.
type ReminderNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewReminderNotifier returns a notifier writing to w.
func NewReminderNotifier(w io.Writer) *ReminderNotifier {
	return &ReminderNotifier{w: w}
}

// Notify prints "Reminder: <title>".
func (n *ReminderNotifier) Notify(r service.Reminder) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "Reminder: %s\n", displayTitle(r.Title))
}
