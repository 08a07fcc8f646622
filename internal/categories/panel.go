// Package categories manages the user's remote note categories.
package categories

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"quill/internal/service"
)

var (
	// ErrNameRequired is returned for blank category names.
	ErrNameRequired = errors.New("category name required")

	// ErrNameTooLong is returned for names over 100 characters.
	ErrNameTooLong = errors.New("category name too long")

	// ErrNotFound is returned when no category matches a reference.
	ErrNotFound = errors.New("category not found")

	// ErrAmbiguous is returned when several categories match a name.
	ErrAmbiguous = errors.New("ambiguous category name")
)

type nameInput struct {
	Name string `validate:"required,max=100"`
}

// Panel performs category mutations and always answers with the freshly
// fetched list. There is no optimistic local update.
type Panel struct {
	svc      service.Service
	validate *validator.Validate
}

// NewPanel returns a Panel backed by svc.
func NewPanel(svc service.Service) *Panel {
	return &Panel{svc: svc, validate: validator.New()}
}

// Load fetches all categories.
func (p *Panel) Load(ctx context.Context) ([]service.Category, error) {
	return p.svc.ListCategories(ctx)
}

// Create adds a category and returns the refreshed list.
func (p *Panel) Create(ctx context.Context, name string) ([]service.Category, error) {
	name, err := p.checkName(name)
	if err != nil {
		return nil, err
	}
	if _, err := p.svc.CreateCategory(ctx, name); err != nil {
		return nil, err
	}
	return p.Load(ctx)
}

// Rename renames the category with id and returns the refreshed list.
func (p *Panel) Rename(ctx context.Context, id, name string) ([]service.Category, error) {
	name, err := p.checkName(name)
	if err != nil {
		return nil, err
	}
	if err := p.svc.RenameCategory(ctx, id, name); err != nil {
		return nil, err
	}
	return p.Load(ctx)
}

// Delete removes the category with id and returns the refreshed list.
func (p *Panel) Delete(ctx context.Context, id string) ([]service.Category, error) {
	if err := p.svc.DeleteCategory(ctx, id); err != nil {
		return nil, err
	}
	return p.Load(ctx)
}

// Resolve finds a category by exact id, or else by name ignoring case and
// surrounding space.
func (p *Panel) Resolve(ctx context.Context, ref string) (service.Category, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return service.Category{}, ErrNameRequired
	}

	cats, err := p.Load(ctx)
	if err != nil {
		return service.Category{}, err
	}

	for _, c := range cats {
		if c.ID == ref {
			return c, nil
		}
	}

	want := strings.ToLower(ref)
	var matches []service.Category
	for _, c := range cats {
		if strings.ToLower(strings.TrimSpace(c.Name)) == want {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return service.Category{}, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return service.Category{}, ErrAmbiguous
	}
}

func (p *Panel) checkName(name string) (string, error) {
	in := nameInput{Name: strings.TrimSpace(name)}
	if err := p.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return "", err
		}
		if verrs[0].Tag() == "max" {
			return "", ErrNameTooLong
		}
		return "", ErrNameRequired
	}
	return in.Name, nil
}
