// Package googletasks implements the service.Service interface using Google
// Tasks API. Categories are task lists, synced notes are tasks in the default
// list and reminders are open tasks with a due date.
package googletasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"quill/internal/config"
	"quill/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"
)

// Client implements service.Service using Google Tasks API.
type Client struct {
	svc *tasks.Service
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := loadOAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	// Load token
	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Create token source that auto-refreshes
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	return NewWithHTTPClient(ctx, httpClient)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc}, nil
}

func loadOAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return oauthConfig, nil
}

// ListCategories returns all task lists except the default one, in API order.
func (c *Client) ListCategories(ctx context.Context) ([]service.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	// Get the default list to know its real ID
	defaultList, err := c.svc.Tasklists.Get(DefaultListID).Context(ctx).Do()
	if err != nil {
		return nil, wrapError(err)
	}

	result := []service.Category{}
	err = c.svc.Tasklists.List().MaxResults(PageSize).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			if list.Id == defaultList.Id {
				continue
			}
			result = append(result, service.Category{ID: list.Id, Name: list.Title})
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// CreateCategory creates a new task list.
func (c *Client) CreateCategory(ctx context.Context, name string) (service.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	list, err := c.svc.Tasklists.Insert(&tasks.TaskList{Title: name}).Context(ctx).Do()
	if err != nil {
		return service.Category{}, wrapError(err)
	}
	return service.Category{ID: list.Id, Name: list.Title}, nil
}

// RenameCategory renames a task list.
func (c *Client) RenameCategory(ctx context.Context, id, name string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := c.svc.Tasklists.Patch(id, &tasks.TaskList{Title: name}).Context(ctx).Do()
	return wrapError(err)
}

// DeleteCategory deletes a task list by ID.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	return wrapError(c.svc.Tasklists.Delete(id).Context(ctx).Do())
}

// SyncNotes inserts notes as tasks in the default list. Notes with nothing
// in them are skipped and notes already present with the same title and
// content are not inserted twice, so a retried upload is harmless.
func (c *Client) SyncNotes(ctx context.Context, notes []service.SyncNote) (service.SyncResult, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	seen := make(map[string]bool)
	err := c.svc.Tasks.List(DefaultListID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				seen[dedupKey(t.Title, t.Notes)] = true
			}
			return nil
		})
	if err != nil {
		return service.SyncResult{}, wrapError(err)
	}

	for _, n := range notes {
		title := strings.TrimSpace(n.Title)
		content := strings.TrimSpace(n.Content)
		if title == "" && content == "" {
			continue
		}
		key := dedupKey(title, content)
		if seen[key] {
			continue
		}

		if _, err := c.svc.Tasks.Insert(DefaultListID, &tasks.Task{
			Title: title,
			Notes: content,
		}).Context(ctx).Do(); err != nil {
			return service.SyncResult{}, wrapError(err)
		}
		seen[key] = true
	}

	return service.SyncResult{Status: service.StatusSuccess}, nil
}

func dedupKey(title, content string) string {
	return strings.TrimSpace(title) + "\x00" + strings.TrimSpace(content)
}

// ListReminders returns open tasks with a due date from every list.
func (c *Client) ListReminders(ctx context.Context) ([]service.Reminder, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var listIDs []string
	err := c.svc.Tasklists.List().MaxResults(PageSize).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			listIDs = append(listIDs, list.Id)
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err)
	}

	var result []service.Reminder
	for _, id := range listIDs {
		err := c.svc.Tasks.List(id).
			MaxResults(PageSize).
			ShowCompleted(false).
			ShowDeleted(false).
			ShowHidden(false).
			Pages(ctx, func(resp *tasks.Tasks) error {
				for _, t := range resp.Items {
					if t.Due == "" || t.Status == "completed" {
						continue
					}
					due, err := time.Parse(time.RFC3339, t.Due)
					if err != nil {
						continue
					}
					result = append(result, service.Reminder{NoteID: t.Id, Title: t.Title, At: due})
				}
				return nil
			})
		if err != nil {
			return nil, wrapError(err)
		}
	}
	return result, nil
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	// Check for timeout
	if strings.Contains(errStr, "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}

	// Check for auth errors
	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("token expired or revoked (run: quill login)")
	}

	// Check for not found
	if strings.Contains(errStr, "404") {
		return fmt.Errorf("not found")
	}

	return err
}
