package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"quill/internal/exitcode"
	"quill/internal/output"
)

func init() {
	Register(&DraftCmd{})
}

// DraftCmd implements the draft command.
type DraftCmd struct {
	clear bool
}

// SetClear sets the --clear flag (for testing).
func (c *DraftCmd) SetClear(clear bool) {
	c.clear = clear
}

func (c *DraftCmd) Name() string      { return "draft" }
func (c *DraftCmd) Aliases() []string { return nil }
func (c *DraftCmd) Synopsis() string  { return "Show or discard the unsaved draft" }
func (c *DraftCmd) Usage() string     { return "quill draft [--clear]" }
func (c *DraftCmd) NeedsAuth() bool   { return false }

func (c *DraftCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.clear, "clear", false, "")
}

func (c *DraftCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	drafts := sess.Drafts()

	if c.clear {
		if err := drafts.Clear(); err != nil {
			fmt.Fprintf(errOut, "error: failed to clear draft: %v\n", err)
			return exitcode.UserError
		}
		if !sess.Cfg.Quiet {
			fmt.Fprintln(out, "ok")
		}
		return exitcode.Success
	}

	d, ok := drafts.Load()
	if !ok {
		if !sess.Cfg.Quiet {
			fmt.Fprintln(out, "no draft")
		}
		return exitcode.Success
	}

	output.FormatDraft(out, d)
	return exitcode.Success
}
