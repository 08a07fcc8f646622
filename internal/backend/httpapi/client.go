// Package httpapi implements the service.Service interface over the notes
// server's JSON HTTP API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"quill/internal/config"
	"quill/internal/service"
)

// APITimeout is the timeout for API calls.
const APITimeout = 5 * time.Second

// ErrMalformedResponse is returned when a response body cannot be decoded.
var ErrMalformedResponse = errors.New("malformed response")

// Client implements service.Service against the notes server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for cfg.ServerURL that sends the access token stored
// in token.json as a bearer credential.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("invalid token.json: no access token")
	}

	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&token))
	return NewWithHTTPClient(cfg.ServerURL, httpClient), nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// flexID accepts numeric or string ids on the wire.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = flexID(n.String())
	return nil
}

type categoryJSON struct {
	ID   flexID `json:"id"`
	Name string `json:"name"`
}

type nameBody struct {
	Name string `json:"name"`
}

type syncBody struct {
	Notes []service.SyncNote `json:"notes"`
}

type reminderJSON struct {
	NoteID   flexID `json:"note_id"`
	Title    string `json:"title"`
	Reminder string `json:"reminder"`
}

// ListCategories returns all categories in server order.
func (c *Client) ListCategories(ctx context.Context) ([]service.Category, error) {
	var raw []categoryJSON
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &raw); err != nil {
		return nil, err
	}

	result := make([]service.Category, 0, len(raw))
	for _, cat := range raw {
		result = append(result, service.Category{ID: string(cat.ID), Name: cat.Name})
	}
	return result, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, name string) (service.Category, error) {
	var raw categoryJSON
	if err := c.do(ctx, http.MethodPost, "/categories", nameBody{Name: name}, &raw); err != nil {
		return service.Category{}, err
	}
	if raw.Name == "" {
		raw.Name = name
	}
	return service.Category{ID: string(raw.ID), Name: raw.Name}, nil
}

// RenameCategory renames a category.
func (c *Client) RenameCategory(ctx context.Context, id, name string) error {
	return c.do(ctx, http.MethodPut, "/categories/"+url.PathEscape(id), nameBody{Name: name}, nil)
}

// DeleteCategory deletes a category.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/categories/"+url.PathEscape(id), nil, nil)
}

// SyncNotes uploads guest notes.
func (c *Client) SyncNotes(ctx context.Context, notes []service.SyncNote) (service.SyncResult, error) {
	if notes == nil {
		notes = []service.SyncNote{}
	}
	var result service.SyncResult
	if err := c.do(ctx, http.MethodPost, "/notes/sync", syncBody{Notes: notes}, &result); err != nil {
		return service.SyncResult{}, err
	}
	return result, nil
}

// ListReminders returns the reminders of the user's notes. Entries with an
// unparseable time are returned with a zero At.
func (c *Client) ListReminders(ctx context.Context) ([]service.Reminder, error) {
	var raw []reminderJSON
	if err := c.do(ctx, http.MethodGet, "/notes/reminders", nil, &raw); err != nil {
		return nil, err
	}

	result := make([]service.Reminder, 0, len(raw))
	for _, r := range raw {
		result = append(result, service.Reminder{
			NoteID: string(r.NoteID),
			Title:  r.Title,
			At:     parseTime(r.Reminder),
		})
	}
	return result, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// parseTime reads ISO-8601 timestamps. Values without a zone are local time.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return wrapError(&statusError{code: resp.StatusCode, method: method, path: path})
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrMalformedResponse, method, path, err)
	}
	return nil
}

type statusError struct {
	code   int
	method string
	path   string
}

func (e *statusError) Error() string {
	return e.method + " " + e.path + ": status " + strconv.Itoa(e.code)
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	// Check for timeout
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}

	var se *statusError
	if errors.As(err, &se) {
		switch se.code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("token expired or revoked (run: quill login)")
		case http.StatusNotFound:
			return fmt.Errorf("not found")
		}
	}

	return err
}
