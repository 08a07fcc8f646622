package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quill/internal/notes"
	"quill/internal/storage"
)

func TestResolveNote(t *testing.T) {
	store := notes.NewStore(storage.NewMemoryStore(), zap.NewNop())
	first, err := store.Create("first", "")
	require.NoError(t, err)
	second, err := store.Create("second", "")
	require.NoError(t, err)

	tests := []struct {
		ref     string
		wantID  string
		wantErr string
	}{
		{ref: "1", wantID: first.ID},
		{ref: " 2 ", wantID: second.ID},
		{ref: second.ID, wantID: second.ID},
		{ref: "0", wantErr: "note not found: 0"},
		{ref: "3", wantErr: "note not found: 3"},
		{ref: "-1", wantErr: "note not found: -1"},
		{ref: "note_missing", wantErr: "note not found: note_missing"},
		{ref: "", wantErr: "note reference required"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := resolveNote(store, tt.ref)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestSingleRef(t *testing.T) {
	_, err := singleRef(nil)
	assert.EqualError(t, err, "note reference required")

	_, err = singleRef([]string{"1", "2"})
	assert.EqualError(t, err, "too many arguments")

	ref, err := singleRef([]string{"1"})
	require.NoError(t, err)
	assert.Equal(t, "1", ref)
}

func TestPosition(t *testing.T) {
	list := []notes.Note{{ID: "a"}, {ID: "b"}}
	assert.Equal(t, 2, position(list, "b"))
	assert.Equal(t, 0, position(list, "c"))
}
