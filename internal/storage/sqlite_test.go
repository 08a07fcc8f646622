package storage

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockedSQLite(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS kv")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s, err := NewSQLiteStore(db)
	require.NoError(t, err)
	return s, mock
}

func TestSQLiteStore_SetPropagatesWriteFailure(t *testing.T) {
	s, mock := newMockedSQLite(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv")).
		WithArgs(KeyLocalNotes, "[]").
		WillReturnError(errors.New("database or disk is full"))

	err := s.Set(KeyLocalNotes, "[]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database or disk is full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_GetReadFailure(t *testing.T) {
	s, mock := newMockedSQLite(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv WHERE key = ?")).
		WithArgs(KeyDraft).
		WillReturnError(errors.New("disk I/O error"))

	_, ok, err := s.Get(KeyDraft)
	assert.False(t, ok)
	assert.EqualError(t, err, "failed to read draftNote: disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_GetMissingRow(t *testing.T) {
	s, mock := newMockedSQLite(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv WHERE key = ?")).
		WithArgs(KeyDraft).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, ok, err := s.Get(KeyDraft)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewSQLiteStore_SchemaFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS kv")).
		WillReturnError(errors.New("readonly database"))

	_, err = NewSQLiteStore(db)
	assert.EqualError(t, err, "failed to create kv table: readonly database")
}
