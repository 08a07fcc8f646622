// Package storage provides the per-profile key/value store that holds guest
// notes, the draft, the sync flag and the fired reminder set.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Well-known keys.
const (
	KeyLocalNotes         = "localNotes"
	KeyDraft              = "draftNote"
	KeyTriggeredReminders = "triggeredReminderIds"
	KeySyncPending        = "syncPendingFlag"
)

// Driver names accepted by Open.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

const (
	fileName   = "storage.json"
	sqliteName = "storage.db"
)

// ErrMalformed is returned when a stored value cannot be decoded.
var ErrMalformed = errors.New("malformed stored value")

// Store is a flat string-keyed value store.
// Every Set replaces the whole value stored under key.
type Store interface {
	// Get returns the value for key. ok is false if the key is absent.
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key.
	Set(key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
}

// Path returns the on-disk location used by driver inside dir.
// The memory driver has no path.
func Path(driver, dir string) string {
	switch driver {
	case DriverFile:
		return filepath.Join(dir, fileName)
	case DriverSQLite:
		return filepath.Join(dir, sqliteName)
	default:
		return ""
	}
}

// Open opens the store for driver rooted at dir.
func Open(driver, dir string) (Store, error) {
	switch driver {
	case DriverFile:
		return NewFileStore(Path(driver, dir)), nil
	case DriverSQLite:
		return OpenSQLite(Path(driver, dir))
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", driver)
	}
}

// Close releases resources held by s, if any.
func Close(s Store) error {
	if c, ok := s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
