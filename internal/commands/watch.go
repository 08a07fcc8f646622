package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"quill/internal/exitcode"
	"quill/internal/storage"
)

// watchDebounce coalesces bursts of storage writes into one re-render.
const watchDebounce = 100 * time.Millisecond

func init() {
	Register(&WatchCmd{})
}

// WatchCmd implements the watch command: the note list is printed again
// whenever another process changes the local storage.
type WatchCmd struct{}

func (c *WatchCmd) Name() string      { return "watch" }
func (c *WatchCmd) Aliases() []string { return nil }
func (c *WatchCmd) Synopsis() string  { return "Print the note list on every storage change" }
func (c *WatchCmd) Usage() string     { return "quill watch" }
func (c *WatchCmd) NeedsAuth() bool   { return false }

func (c *WatchCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WatchCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	path := storage.Path(sess.Cfg.Storage, sess.Cfg.Dir)
	if path == "" {
		fmt.Fprintf(errOut, "error: watch needs the file or sqlite storage driver (have %s)\n", sess.Cfg.Storage)
		return exitcode.UserError
	}

	store := sess.Notes()
	render := func() {
		all := store.List()
		fmt.Fprintf(out, "%s notes: %d\n", time.Now().Format("15:04:05"), len(all))
		renderNotes(out, all, all)
	}

	render()
	if err := storage.Watch(ctx, path, watchDebounce, render); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
