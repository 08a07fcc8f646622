package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"quill/internal/exitcode"
	"quill/internal/output"
	"quill/internal/reminders"
)

func init() {
	Register(&RemindCmd{})
}

// RemindCmd implements the remind command.
type RemindCmd struct {
	once bool
}

// SetOnce sets the --once flag (for testing).
func (c *RemindCmd) SetOnce(once bool) {
	c.once = once
}

func (c *RemindCmd) Name() string      { return "remind" }
func (c *RemindCmd) Aliases() []string { return nil }
func (c *RemindCmd) Synopsis() string  { return "Print due reminders, polling until interrupted" }
func (c *RemindCmd) Usage() string     { return "quill remind [--once]" }
func (c *RemindCmd) NeedsAuth() bool   { return true }

func (c *RemindCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.once, "once", false, "")
}

func (c *RemindCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	poller := reminders.NewPoller(sess.Svc, output.NewReminderNotifier(out), sess.Store, sess.Log)

	if c.once {
		n, err := poller.Check(ctx)
		if err != nil {
			fmt.Fprintf(errOut, "error: backend error: %v\n", err)
			return exitcode.BackendError
		}
		if n == 0 && !sess.Cfg.Quiet {
			fmt.Fprintln(out, "no reminders due")
		}
		return exitcode.Success
	}

	// Runs until interrupted
	handle := poller.Run(ctx, sess.Cfg.ReminderInterval)
	<-handle.Done()
	return exitcode.Success
}
