// Package service defines the backend-agnostic interface for remote note operations.
package service

import "time"

// StatusSuccess is the acknowledgement status of a successful sync.
const StatusSuccess = "success"

// Category is a remote note category.
type Category struct {
	ID   string
	Name string
}

// SyncNote is the upload form of a guest note.
type SyncNote struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// SyncResult is the remote acknowledgement of an upload.
type SyncResult struct {
	Status string `json:"status"`
}

// OK reports whether the upload was acknowledged as successful.
func (r SyncResult) OK() bool {
	return r.Status == StatusSuccess
}

// Reminder is a point in time at which the user wants to be told about a note.
type Reminder struct {
	NoteID string
	Title  string
	At     time.Time
}
