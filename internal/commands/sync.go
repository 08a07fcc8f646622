package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"quill/internal/exitcode"
	"quill/internal/syncer"
)

func init() {
	Register(&SyncCmd{})
}

// SyncCmd implements the sync command. The dispatcher has already run the
// invocation's sync agent; this reports its outcome, or runs it after
// --force marked the local notes as pending.
type SyncCmd struct {
	force bool
}

// SetForce sets the --force flag (for testing).
func (c *SyncCmd) SetForce(force bool) {
	c.force = force
}

func (c *SyncCmd) Name() string      { return "sync" }
func (c *SyncCmd) Aliases() []string { return nil }
func (c *SyncCmd) Synopsis() string  { return "Upload guest notes to your account" }
func (c *SyncCmd) Usage() string     { return "quill sync [--force]" }
func (c *SyncCmd) NeedsAuth() bool   { return true }

func (c *SyncCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *SyncCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	if sess.Sync == nil {
		sess.Connect(sess.Svc)
	}

	if c.force && sess.Notes().Len() > 0 {
		if err := sess.SyncFlag().Set(); err != nil {
			fmt.Fprintf(errOut, "error: failed to mark notes for sync: %v\n", err)
			return exitcode.UserError
		}
	}

	outcome, err := sess.Sync.Run(ctx)
	if err == nil {
		err = sess.Sync.Err()
	}

	switch outcome.State {
	case syncer.Succeeded:
		if !sess.Cfg.Quiet {
			fmt.Fprintf(out, "synced %d notes\n", outcome.Uploaded)
		}
	case syncer.Failed:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	default:
		if !sess.Cfg.Quiet {
			fmt.Fprintln(out, "nothing to sync")
		}
	}
	return exitcode.Success
}
