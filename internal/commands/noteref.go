package commands

import (
	"fmt"
	"strconv"
	"strings"

	"quill/internal/notes"
)

// resolveNote finds a note by its 1-based position in `quill list` output or
// by id.
func resolveNote(store *notes.Store, ref string) (notes.Note, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return notes.Note{}, fmt.Errorf("note reference required")
	}

	list := store.List()
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(list) {
			return notes.Note{}, fmt.Errorf("note not found: %s", ref)
		}
		return list[n-1], nil
	}

	for _, n := range list {
		if n.ID == ref {
			return n, nil
		}
	}
	return notes.Note{}, fmt.Errorf("note not found: %s", ref)
}

// singleRef returns the only positional argument.
func singleRef(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", fmt.Errorf("note reference required")
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("too many arguments")
	}
}

// position returns the 1-based list position of id, or 0.
func position(list []notes.Note, id string) int {
	for i, n := range list {
		if n.ID == id {
			return i + 1
		}
	}
	return 0
}
