package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/config"
	"quill/internal/service"
)

// fakeServer is a minimal notes server.
type fakeServer struct {
	mu         sync.Mutex
	categories []map[string]any
	synced     [][]service.SyncNote
	syncStatus string
	auth       []string
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	t.Helper()
	fs := &fakeServer{syncStatus: "success"}

	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			fs.mu.Lock()
			fs.auth = append(fs.auth, req.Header.Get("Authorization"))
			fs.mu.Unlock()
			next.ServeHTTP(w, req)
		})
	})
	r.HandleFunc("/categories", fs.listCategories).Methods(http.MethodGet)
	r.HandleFunc("/categories", fs.createCategory).Methods(http.MethodPost)
	r.HandleFunc("/categories/{id}", fs.renameCategory).Methods(http.MethodPut)
	r.HandleFunc("/categories/{id}", fs.deleteCategory).Methods(http.MethodDelete)
	r.HandleFunc("/notes/sync", fs.sync).Methods(http.MethodPost)
	r.HandleFunc("/notes/reminders", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []map[string]any{
			{"note_id": 4, "title": "Dentist", "reminder": "2025-01-14T09:30:00Z"},
			{"note_id": "n-5", "title": "Call", "reminder": "2025-01-14T10:00"},
			{"note_id": 6, "title": "Broken", "reminder": "someday"},
		})
	}).Methods(http.MethodGet)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return fs, srv
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (fs *fakeServer) listCategories(w http.ResponseWriter, _ *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	writeJSON(w, fs.categories)
}

func (fs *fakeServer) createCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	cat := map[string]any{"id": len(fs.categories) + 1, "name": body.Name}
	fs.categories = append(fs.categories, cat)
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, cat)
}

func (fs *fakeServer) find(id string) int {
	for i, c := range fs.categories {
		if b, _ := json.Marshal(c["id"]); string(b) == id || c["id"] == id {
			return i
		}
	}
	return -1
}

func (fs *fakeServer) renameCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	i := fs.find(mux.Vars(r)["id"])
	if i < 0 {
		http.NotFound(w, r)
		return
	}
	fs.categories[i]["name"] = body.Name
	writeJSON(w, map[string]string{"status": "success"})
}

func (fs *fakeServer) deleteCategory(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	i := fs.find(mux.Vars(r)["id"])
	if i < 0 {
		http.NotFound(w, r)
		return
	}
	fs.categories = append(fs.categories[:i], fs.categories[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (fs *fakeServer) sync(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Notes []service.SyncNote `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.synced = append(fs.synced, body.Notes)
	writeJSON(w, map[string]string{"status": fs.syncStatus})
}

func newClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/token.json", []byte(`{"access_token":"secret","token_type":"Bearer"}`), 0600))

	cfg := config.Default(dir)
	cfg.ServerURL = srv.URL + "/"

	c, err := New(context.Background(), cfg)
	require.NoError(t, err)
	return c
}

func TestNew_MissingToken(t *testing.T) {
	_, err := New(context.Background(), config.Default(t.TempDir()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token.json")
}

func TestNew_EmptyToken(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/token.json", []byte(`{}`), 0600))

	_, err := New(context.Background(), config.Default(dir))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no access token")
}

func TestCategories_RoundTrip(t *testing.T) {
	fs, srv := newFakeServer(t)
	c := newClient(t, srv)
	ctx := context.Background()

	created, err := c.CreateCategory(ctx, "Work")
	require.NoError(t, err)
	assert.Equal(t, service.Category{ID: "1", Name: "Work"}, created)

	_, err = c.CreateCategory(ctx, "Home")
	require.NoError(t, err)

	require.NoError(t, c.RenameCategory(ctx, "1", "Office"))
	require.NoError(t, c.DeleteCategory(ctx, "2"))

	cats, err := c.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []service.Category{{ID: "1", Name: "Office"}}, cats)

	for _, h := range fs.auth {
		assert.Equal(t, "Bearer secret", h)
	}
}

func TestCategories_StringIDs(t *testing.T) {
	fs, srv := newFakeServer(t)
	fs.categories = []map[string]any{{"id": "abc", "name": "Ideas"}}
	c := newClient(t, srv)

	cats, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []service.Category{{ID: "abc", Name: "Ideas"}}, cats)
}

func TestCategories_Errors(t *testing.T) {
	_, srv := newFakeServer(t)
	c := newClient(t, srv)

	err := c.RenameCategory(context.Background(), "99", "X")
	assert.EqualError(t, err, "not found")

	err = c.DeleteCategory(context.Background(), "99")
	assert.EqualError(t, err, "not found")
}

func TestSyncNotes(t *testing.T) {
	fs, srv := newFakeServer(t)
	c := newClient(t, srv)

	notes := []service.SyncNote{{Title: "Hi", Content: "there", CreatedAt: "2025-01-14T06:20:51Z"}}
	result, err := c.SyncNotes(context.Background(), notes)
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.Equal(t, [][]service.SyncNote{notes}, fs.synced)

	fs.syncStatus = "error"
	result, err = c.SyncNotes(context.Background(), notes)
	require.NoError(t, err)
	assert.False(t, result.OK())
}

func TestSyncNotes_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()
	c := NewWithHTTPClient(srv.URL, srv.Client())

	_, err := c.SyncNotes(context.Background(), nil)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		code    int
		wantErr string
	}{
		{http.StatusUnauthorized, "token expired or revoked (run: quill login)"},
		{http.StatusForbidden, "token expired or revoked (run: quill login)"},
		{http.StatusNotFound, "not found"},
		{http.StatusInternalServerError, "GET /categories: status 500"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.code)
			}))
			defer srv.Close()
			c := NewWithHTTPClient(srv.URL, srv.Client())

			_, err := c.ListCategories(context.Background())
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)
	c := NewWithHTTPClient(srv.URL, srv.Client())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.ListCategories(ctx)
	assert.EqualError(t, err, "request timed out")
}

func TestListReminders(t *testing.T) {
	_, srv := newFakeServer(t)
	c := newClient(t, srv)

	got, err := c.ListReminders(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "4", got[0].NoteID)
	assert.True(t, got[0].At.Equal(time.Date(2025, 1, 14, 9, 30, 0, 0, time.UTC)))

	assert.Equal(t, "n-5", got[1].NoteID)
	assert.True(t, got[1].At.Equal(time.Date(2025, 1, 14, 10, 0, 0, 0, time.Local)))

	assert.True(t, got[2].At.IsZero())
}
