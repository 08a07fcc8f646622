package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"quill/internal/exitcode"
	"quill/internal/output"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd implements the export command.
type ExportCmd struct {
	out string
}

// SetOut sets the --out flag (for testing).
func (c *ExportCmd) SetOut(path string) {
	c.out = path
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Save a note as a text file" }
func (c *ExportCmd) Usage() string     { return "quill export [--out <path>] <ref>" }
func (c *ExportCmd) NeedsAuth() bool   { return false }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.out, "out", "", "")
	fs.StringVar(&c.out, "o", "", "")
}

// Run writes "<title>.txt" to the current directory, into --out when it is a
// directory, to --out itself otherwise, or to stdout when --out is "-".
func (c *ExportCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	ref, err := singleRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	n, err := resolveNote(sess.Notes(), ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	text := output.ExportText(n)
	if c.out == "-" {
		fmt.Fprint(out, text)
		return exitcode.Success
	}

	path := c.out
	if path == "" {
		path = output.ExportFilename(n)
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, output.ExportFilename(n))
	}

	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		fmt.Fprintf(errOut, "error: failed to export note: %v\n", err)
		return exitcode.UserError
	}

	if !sess.Cfg.Quiet {
		fmt.Fprintln(out, path)
	}
	return exitcode.Success
}
