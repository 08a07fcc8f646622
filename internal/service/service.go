// Package service defines the backend-agnostic interface for remote note operations.
package service

import "context"

// Service defines the interface for the remote notes service.
// Commands and components never import a backend SDK directly.
type Service interface {
	// ListCategories returns all categories in backend order.
	ListCategories(ctx context.Context) ([]Category, error)

	// CreateCategory creates a category and returns it.
	CreateCategory(ctx context.Context, name string) (Category, error)

	// RenameCategory renames the category with id.
	RenameCategory(ctx context.Context, id, name string) error

	// DeleteCategory deletes the category with id.
	DeleteCategory(ctx context.Context, id string) error

	// SyncNotes uploads guest notes. The backend must tolerate receiving the
	// same notes again after a failed acknowledgement.
	SyncNotes(ctx context.Context, notes []SyncNote) (SyncResult, error)

	// ListReminders returns reminders attached to the user's notes.
	ListReminders(ctx context.Context) ([]Reminder, error)
}
