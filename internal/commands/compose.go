package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"

	"quill/internal/draft"
	"quill/internal/exitcode"
)

func init() {
	Register(&ComposeCmd{})
}

// EditorFunc opens path in the editor named by command and returns when the
// editor exits.
type EditorFunc func(ctx context.Context, command, path string) error

// ComposeCmd implements the compose command: write a note in $EDITOR while
// the draft is autosaved.
type ComposeCmd struct {
	title   string
	content string
	editor  EditorFunc
}

// SetEditor replaces the external editor (for testing).
func (c *ComposeCmd) SetEditor(fn EditorFunc) {
	c.editor = fn
}

func (c *ComposeCmd) Name() string      { return "compose" }
func (c *ComposeCmd) Aliases() []string { return []string{"write"} }
func (c *ComposeCmd) Synopsis() string  { return "Write a note in your editor with autosave" }
func (c *ComposeCmd) Usage() string     { return "quill compose [--title <t>] [--content <c>]" }
func (c *ComposeCmd) NeedsAuth() bool   { return false }

func (c *ComposeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.title, "title", "", "")
	fs.StringVar(&c.title, "t", "", "")
	fs.StringVar(&c.content, "content", "", "")
	fs.StringVar(&c.content, "c", "", "")
}

func (c *ComposeCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	drafts := sess.Drafts()
	title, content := c.title, c.content
	if d, ok := drafts.Load(); ok {
		var restored bool
		title, content, restored = draft.Restore(d, title, content)
		if restored && !sess.Cfg.Quiet {
			fmt.Fprintln(errOut, "restored unsaved draft")
		}
	}

	tmp, err := os.CreateTemp("", "quill-*.txt")
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to create temp file: %v\n", err)
		return exitcode.UserError
	}
	defer os.Remove(tmp.Name())
	_, err = tmp.WriteString(formatBuffer(title, content))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to write temp file: %v\n", err)
		return exitcode.UserError
	}

	ed := &fileEditor{path: tmp.Name()}
	editor := c.editor
	if editor == nil {
		editor = runEditor
	}

	g, gctx := errgroup.WithContext(ctx)
	saveCtx, stopSave := context.WithCancel(gctx)
	autosave := draft.Autosave(saveCtx, drafts, ed, sess.Cfg.AutosaveInterval)

	g.Go(func() error {
		defer stopSave()
		return editor(gctx, sess.Cfg.EditorCommand(), ed.path)
	})
	g.Go(func() error {
		<-autosave.Done()
		return nil
	})

	if err := g.Wait(); err != nil {
		fmt.Fprintf(errOut, "error: editor failed: %v\n", err)
		return exitcode.UserError
	}

	title, content, err = ed.Fields()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return saveNewNote(sess, title, content, out, errOut)
}

// fileEditor reads the fields back from the editor's file.
type fileEditor struct {
	path string
}

func (e *fileEditor) Fields() (string, string, error) {
	data, err := os.ReadFile(e.path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read editor file: %w", err)
	}
	title, content := parseBuffer(string(data))
	return title, content, nil
}

// formatBuffer lays a note out for editing: the title on the first line, a
// blank line, then the content.
func formatBuffer(title, content string) string {
	return title + "\n\n" + content
}

// parseBuffer is the inverse of formatBuffer.
func parseBuffer(buf string) (title, content string) {
	buf = strings.ReplaceAll(buf, "\r\n", "\n")
	title, content, _ = strings.Cut(buf, "\n")
	return strings.TrimSpace(title), strings.TrimSpace(content)
}

func runEditor(ctx context.Context, command, path string) error {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return errors.New("no editor configured")
	}
	cmd := exec.CommandContext(ctx, parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
