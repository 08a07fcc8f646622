package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"quill/internal/exitcode"
	"quill/internal/notes"
	"quill/internal/output"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `quill` (no args) and `quill list [--query <q>]`.
type ListCmd struct {
	query string
}

// SetQuery sets the search query (for testing).
func (c *ListCmd) SetQuery(q string) {
	c.query = q
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List local notes" }
func (c *ListCmd) Usage() string     { return "quill list [--query <q>]" }
func (c *ListCmd) NeedsAuth() bool   { return false }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.query, "query", "", "")
	fs.StringVar(&c.query, "q", "", "")
}

func (c *ListCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	query := strings.TrimSpace(c.query)
	if len(args) > 0 {
		if query != "" {
			fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
			return exitcode.UserError
		}
		query = strings.TrimSpace(strings.Join(args, " "))
	}

	store := sess.Notes()
	all := store.List()
	shown := all
	if query != "" {
		shown = store.Search(query)
	}

	if len(shown) == 0 {
		if !sess.Cfg.Quiet {
			if query != "" {
				fmt.Fprintln(out, "no matching notes")
			} else {
				fmt.Fprintln(out, "no notes yet")
			}
		}
		return exitcode.Success
	}

	renderNotes(out, all, shown)
	return exitcode.Success
}

// renderNotes prints shown, numbered by position in all so the numbers are
// valid refs.
func renderNotes(out io.Writer, all, shown []notes.Note) {
	for _, n := range shown {
		output.FormatNote(out, position(all, n.ID), n)
	}
}
