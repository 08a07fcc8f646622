// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"quill/internal/service"
)

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu         sync.RWMutex
	categories []service.Category
	nextID     int
	reminders  []service.Reminder
	uploads    [][]service.SyncNote

	// SyncStatus is the status answered by SyncNotes. Defaults to "success".
	SyncStatus string

	// ListCategoriesCalls counts ListCategories calls.
	ListCategoriesCalls int

	// Error injection for testing
	ListCategoriesErr error
	CreateCategoryErr error
	RenameCategoryErr error
	DeleteCategoryErr error
	SyncNotesErr      error
	ListRemindersErr  error
}

// NewFakeService creates an empty FakeService that acknowledges syncs.
func NewFakeService() *FakeService {
	return &FakeService{SyncStatus: service.StatusSuccess, nextID: 1}
}

// AddCategory adds a category with an explicit id.
func (f *FakeService) AddCategory(id, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories = append(f.categories, service.Category{ID: id, Name: name})
}

// AddReminder adds a reminder.
func (f *FakeService) AddReminder(r service.Reminder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders = append(f.reminders, r)
}

// Uploads returns every batch received by SyncNotes.
func (f *FakeService) Uploads() [][]service.SyncNote {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([][]service.SyncNote, len(f.uploads))
	copy(out, f.uploads)
	return out
}

// ListCategories implements service.Service.
func (f *FakeService) ListCategories(ctx context.Context) ([]service.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCategoriesCalls++
	if f.ListCategoriesErr != nil {
		return nil, f.ListCategoriesErr
	}
	result := make([]service.Category, len(f.categories))
	copy(result, f.categories)
	return result, nil
}

// CreateCategory implements service.Service.
func (f *FakeService) CreateCategory(ctx context.Context, name string) (service.Category, error) {
	if f.CreateCategoryErr != nil {
		return service.Category{}, f.CreateCategoryErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	// Skip ids already taken by AddCategory
	id := strconv.Itoa(f.nextID)
	for f.hasID(id) {
		f.nextID++
		id = strconv.Itoa(f.nextID)
	}
	f.nextID++

	c := service.Category{ID: id, Name: name}
	f.categories = append(f.categories, c)
	return c, nil
}

// RenameCategory implements service.Service.
func (f *FakeService) RenameCategory(ctx context.Context, id, name string) error {
	if f.RenameCategoryErr != nil {
		return f.RenameCategoryErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, c := range f.categories {
		if c.ID == id {
			f.categories[i].Name = name
			return nil
		}
	}
	return ErrNotFound
}

// DeleteCategory implements service.Service.
func (f *FakeService) DeleteCategory(ctx context.Context, id string) error {
	if f.DeleteCategoryErr != nil {
		return f.DeleteCategoryErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, c := range f.categories {
		if c.ID == id {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// SyncNotes implements service.Service.
func (f *FakeService) SyncNotes(ctx context.Context, notes []service.SyncNote) (service.SyncResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	batch := make([]service.SyncNote, len(notes))
	copy(batch, notes)
	f.uploads = append(f.uploads, batch)

	if f.SyncNotesErr != nil {
		return service.SyncResult{}, f.SyncNotesErr
	}
	return service.SyncResult{Status: f.SyncStatus}, nil
}

// ListReminders implements service.Service.
func (f *FakeService) ListReminders(ctx context.Context) ([]service.Reminder, error) {
	if f.ListRemindersErr != nil {
		return nil, f.ListRemindersErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Reminder, len(f.reminders))
	copy(result, f.reminders)
	return result, nil
}

func (f *FakeService) hasID(id string) bool {
	for _, c := range f.categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

