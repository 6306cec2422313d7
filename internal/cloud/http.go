package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/siliconyouth/revolutionary-ui/internal/component"
)

// HTTPClient talks to the hosted component store over its JSON API.
// It implements Client. Safe for use from a single command invocation;
// the connected flag makes Disconnect idempotent.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string

	mu        sync.Mutex
	connected bool
}

// HTTPOptions configures an HTTPClient.
type HTTPOptions struct {
	// BaseURL is the store endpoint, e.g. "https://api.revolutionary-ui.com".
	BaseURL string

	// APIKey is sent as a bearer token on every request.
	APIKey string

	// Timeout applies per request. Zero means 30 seconds.
	Timeout time.Duration
}

// NewHTTPClient creates a client for the hosted store. Connect must be
// called before any other operation.
func NewHTTPClient(opts HTTPOptions) *HTTPClient {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		apiKey:     strings.TrimSpace(opts.APIKey),
	}
}

// Connect verifies the store is reachable and the API key is accepted.
func (c *HTTPClient) Connect(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/api/v1/ping", nil, nil); err != nil {
		return fmt.Errorf("failed to connect to cloud store: %w", err)
	}

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()
	return nil
}

// Disconnect ends the session. Idempotent: calling it twice, or without a
// prior Connect, is a no-op.
func (c *HTTPClient) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}
	c.connected = false

	// Session close is best-effort; the server expires sessions anyway.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = c.do(ctx, http.MethodPost, "/api/v1/session/close", nil, nil)

	return nil
}

func (c *HTTPClient) checkConnected() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return ErrNotConnected
	}
	return nil
}

// ListComponents implements Client.ListComponents.
func (c *HTTPClient) ListComponents(ctx context.Context, filter *ListFilter) ([]*component.Component, error) {
	if err := c.checkConnected(); err != nil {
		return nil, err
	}

	path := "/api/v1/components"
	if filter != nil {
		q := url.Values{}
		if filter.Type != "" {
			q.Set("type", string(filter.Type))
		}
		if filter.Framework != "" {
			q.Set("framework", string(filter.Framework))
		}
		if len(filter.Tags) > 0 {
			q.Set("tags", strings.Join(filter.Tags, ","))
		}
		if len(q) > 0 {
			path += "?" + q.Encode()
		}
	}

	var out struct {
		Components []*component.Component `json:"components"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list components: %w", err)
	}
	return out.Components, nil
}

// PushComponent implements Client.PushComponent.
func (c *HTTPClient) PushComponent(ctx context.Context, comp *component.Component) (string, error) {
	if err := c.checkConnected(); err != nil {
		return "", err
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/components", comp, &out); err != nil {
		return "", fmt.Errorf("failed to push component %s: %w", comp.Name, err)
	}
	return out.ID, nil
}

// UpdateComponent implements Client.UpdateComponent.
func (c *HTTPClient) UpdateComponent(ctx context.Context, id string, comp *component.Component) error {
	if err := c.checkConnected(); err != nil {
		return err
	}

	path := "/api/v1/components/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, path, comp, nil); err != nil {
		return fmt.Errorf("failed to update component %s: %w", comp.Name, err)
	}
	return nil
}

// GetSyncStatus implements Client.GetSyncStatus.
func (c *HTTPClient) GetSyncStatus(ctx context.Context) (*SyncStatus, error) {
	if err := c.checkConnected(); err != nil {
		return nil, err
	}

	var out SyncStatus
	if err := c.do(ctx, http.MethodGet, "/api/v1/sync/status", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get sync status: %w", err)
	}
	return &out, nil
}

// GetChanges implements Client.GetChanges.
func (c *HTTPClient) GetChanges(ctx context.Context) (*PendingChanges, error) {
	if err := c.checkConnected(); err != nil {
		return nil, err
	}

	var out PendingChanges
	if err := c.do(ctx, http.MethodGet, "/api/v1/sync/changes", nil, &out); err != nil {
		return nil, fmt.Errorf("failed to get pending changes: %w", err)
	}
	return &out, nil
}

// ResolveConflict implements Client.ResolveConflict.
func (c *HTTPClient) ResolveConflict(ctx context.Context, componentID string, resolution Resolution) error {
	if err := c.checkConnected(); err != nil {
		return err
	}

	path := "/api/v1/sync/conflicts/" + url.PathEscape(componentID) + "/resolve"
	body := map[string]string{"resolution": string(resolution)}
	if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("failed to resolve conflict for %s: %w", componentID, err)
	}
	return nil
}

// CreateSnapshot implements Client.CreateSnapshot.
func (c *HTTPClient) CreateSnapshot(ctx context.Context, message string) (string, error) {
	if err := c.checkConnected(); err != nil {
		return "", err
	}

	var out struct {
		ID string `json:"id"`
	}
	body := map[string]string{"message": message}
	if err := c.do(ctx, http.MethodPost, "/api/v1/snapshots", body, &out); err != nil {
		return "", fmt.Errorf("failed to create snapshot: %w", err)
	}
	return out.ID, nil
}

// do executes one JSON request against the store. Non-2xx responses are
// turned into errors carrying the server's error message when present.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}

	var eb struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&eb)
	if strings.TrimSpace(eb.Error) != "" {
		return fmt.Errorf("cloud store %d: %s", resp.StatusCode, eb.Error)
	}
	return fmt.Errorf("cloud store status %d", resp.StatusCode)
}
