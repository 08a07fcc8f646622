package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"quill/internal/exitcode"
	"quill/internal/notes"
)

func init() {
	Register(&EditCmd{})
}

// optString is a string flag that remembers whether it was given.
type optString struct {
	value string
	set   bool
}

func (o *optString) String() string { return o.value }

func (o *optString) Set(v string) error {
	o.value = v
	o.set = true
	return nil
}

// EditCmd implements the edit command.
type EditCmd struct {
	title   optString
	content optString
}

// SetFields sets the title and content flags (for testing).
func (c *EditCmd) SetFields(title, content *string) {
	if title != nil {
		c.title.Set(*title)
	}
	if content != nil {
		c.content.Set(*content)
	}
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a local note" }
func (c *EditCmd) Usage() string     { return "quill edit [--title <t>] [--content <c>] <ref>" }
func (c *EditCmd) NeedsAuth() bool   { return false }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title, c.content = optString{}, optString{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.content, "content", "")
	fs.Var(&c.content, "c", "")
}

func (c *EditCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	ref, err := singleRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if !c.title.set && !c.content.set {
		fmt.Fprintln(errOut, "error: nothing to change (use --title or --content)")
		return exitcode.UserError
	}

	store := sess.Notes()
	n, err := resolveNote(store, ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	title, content := n.Title, n.Content
	if c.title.set {
		title = c.title.value
	}
	if c.content.set {
		content = c.content.value
	}
	if err := notes.Validate(title, content); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := store.Update(n.ID, title, content); err != nil {
		fmt.Fprintf(errOut, "error: failed to save note: %v\n", err)
		return exitcode.UserError
	}

	if !sess.Cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
