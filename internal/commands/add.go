package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"quill/internal/exitcode"
	"quill/internal/notes"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	title   string
	content string
}

// SetTitle sets the title flag (for testing).
func (c *AddCmd) SetTitle(title string) {
	c.title = title
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"new"} }
func (c *AddCmd) Synopsis() string  { return "Create a local note" }
func (c *AddCmd) Usage() string     { return "quill add [--title <t>] [--content <c>] [content...]" }
func (c *AddCmd) NeedsAuth() bool   { return false }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.title, "t", "", "")
	fs.StringVar(&c.content, "content", "", "")
	fs.StringVar(&c.content, "c", "", "")
}

func (c *AddCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	content := c.content
	if len(args) > 0 {
		if content != "" {
			fmt.Fprintln(errOut, "error: content given both as --content and as arguments")
			return exitcode.UserError
		}
		content = strings.Join(args, " ")
	}

	return saveNewNote(sess, c.title, content, out, errOut)
}

// saveNewNote validates and stores a note, then drops the draft it came from.
func saveNewNote(sess *Session, title, content string, out, errOut io.Writer) int {
	if err := notes.Validate(title, content); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if _, err := sess.Notes().Create(title, content); err != nil {
		fmt.Fprintf(errOut, "error: failed to save note: %v\n", err)
		return exitcode.UserError
	}

	// Only a confirmed save may discard the draft
	if err := sess.Drafts().Clear(); err != nil {
		sess.Log.Warn("failed to clear draft", zap.Error(err))
	}

	if !sess.Cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
