package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"quill/internal/categories"
	"quill/internal/exitcode"
	"quill/internal/output"
	"quill/internal/service"
)

func init() {
	Register(&CategoriesCmd{})
	Register(&AddCatCmd{})
	Register(&RenameCatCmd{})
	Register(&RmCatCmd{})
}

// CategoriesCmd implements the categories command.
type CategoriesCmd struct{}

func (c *CategoriesCmd) Name() string      { return "categories" }
func (c *CategoriesCmd) Aliases() []string { return []string{"cats"} }
func (c *CategoriesCmd) Synopsis() string  { return "List categories" }
func (c *CategoriesCmd) Usage() string     { return "quill categories" }
func (c *CategoriesCmd) NeedsAuth() bool   { return true }

func (c *CategoriesCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CategoriesCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	cats, err := categories.NewPanel(sess.Svc).Load(ctx)
	if err != nil {
		return categoryError(errOut, "", err)
	}
	renderCategories(sess, out, cats)
	return exitcode.Success
}

// AddCatCmd implements the addcat command.
type AddCatCmd struct{}

func (c *AddCatCmd) Name() string      { return "addcat" }
func (c *AddCatCmd) Aliases() []string { return []string{"createcat"} }
func (c *AddCatCmd) Synopsis() string  { return "Create a category" }
func (c *AddCatCmd) Usage() string     { return "quill addcat <name...>" }
func (c *AddCatCmd) NeedsAuth() bool   { return true }

func (c *AddCatCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCatCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	cats, err := categories.NewPanel(sess.Svc).Create(ctx, strings.Join(args, " "))
	if err != nil {
		return categoryError(errOut, "", err)
	}
	renderCategories(sess, out, cats)
	return exitcode.Success
}

// RenameCatCmd implements the renamecat command.
type RenameCatCmd struct {
	to string
}

// SetTo sets the new name (for testing).
func (c *RenameCatCmd) SetTo(name string) {
	c.to = name
}

func (c *RenameCatCmd) Name() string      { return "renamecat" }
func (c *RenameCatCmd) Aliases() []string { return nil }
func (c *RenameCatCmd) Synopsis() string  { return "Rename a category" }
func (c *RenameCatCmd) Usage() string     { return "quill renamecat --to <name> <ref...>" }
func (c *RenameCatCmd) NeedsAuth() bool   { return true }

func (c *RenameCatCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.to, "to", "", "")
}

func (c *RenameCatCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	if strings.TrimSpace(c.to) == "" {
		return categoryError(errOut, "", categories.ErrNameRequired)
	}

	ref := strings.Join(args, " ")
	panel := categories.NewPanel(sess.Svc)

	cat, err := panel.Resolve(ctx, ref)
	if err != nil {
		return categoryError(errOut, ref, err)
	}

	cats, err := panel.Rename(ctx, cat.ID, c.to)
	if err != nil {
		return categoryError(errOut, ref, err)
	}
	renderCategories(sess, out, cats)
	return exitcode.Success
}

// RmCatCmd implements the rmcat command.
type RmCatCmd struct{}

func (c *RmCatCmd) Name() string      { return "rmcat" }
func (c *RmCatCmd) Aliases() []string { return []string{"delcat"} }
func (c *RmCatCmd) Synopsis() string  { return "Delete a category" }
func (c *RmCatCmd) Usage() string     { return "quill rmcat <ref...>" }
func (c *RmCatCmd) NeedsAuth() bool   { return true }

func (c *RmCatCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCatCmd) Run(ctx context.Context, sess *Session, args []string, out, errOut io.Writer) int {
	ref := strings.Join(args, " ")
	panel := categories.NewPanel(sess.Svc)

	cat, err := panel.Resolve(ctx, ref)
	if err != nil {
		return categoryError(errOut, ref, err)
	}

	cats, err := panel.Delete(ctx, cat.ID)
	if err != nil {
		return categoryError(errOut, ref, err)
	}
	renderCategories(sess, out, cats)
	return exitcode.Success
}

func renderCategories(sess *Session, out io.Writer, cats []service.Category) {
	if len(cats) == 0 {
		if !sess.Cfg.Quiet {
			fmt.Fprintln(out, "no categories")
		}
		return
	}
	for i, cat := range cats {
		output.FormatCategory(out, i+1, cat)
	}
}

// categoryError reports err and maps it to an exit code.
func categoryError(errOut io.Writer, ref string, err error) int {
	switch {
	case errors.Is(err, categories.ErrNotFound), errors.Is(err, categories.ErrAmbiguous):
		fmt.Fprintf(errOut, "error: %v: %s\n", err, strings.TrimSpace(ref))
		return exitcode.UserError
	case errors.Is(err, categories.ErrNameRequired), errors.Is(err, categories.ErrNameTooLong):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}
