package nodeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
)

// HTTPClient implements Client against a node's JSON management API.
type HTTPClient struct {
	nodeID  string
	baseURL string
	token   string
	client  *http.Client
}

// Ensure HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for one node. The timeout bounds every
// individual remote call; the engine layers above define no timeout of their
// own.
func NewHTTPClient(nodeID, baseURL, token string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		nodeID:  nodeID,
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &RemoteError{NodeID: c.nodeID, Op: op, Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &RemoteError{NodeID: c.nodeID, Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &RemoteError{NodeID: c.nodeID, Op: op, Err: err}
	}
	defer resp.Body.Close()

	// 404 and 409 wrap the matching sentinel so errors.Is still works while
	// the node and operation stay in the message.
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &RemoteError{NodeID: c.nodeID, Op: op, Err: domain.ErrNotFound}
	case resp.StatusCode == http.StatusConflict:
		return &RemoteError{NodeID: c.nodeID, Op: op, Err: domain.ErrScopeExists}
	case resp.StatusCode >= 400:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &RemoteError{
			NodeID: c.nodeID,
			Op:     op,
			Err:    fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(data)),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &RemoteError{NodeID: c.nodeID, Op: op, Err: fmt.Errorf("decoding response: %w", err)}
		}
	}
	return nil
}

// ListScopes lists the node's scopes with their enabled state.
func (c *HTTPClient) ListScopes(ctx context.Context) ([]domain.ScopeSummary, error) {
	var out []domain.ScopeSummary
	if err := c.do(ctx, "list scopes", http.MethodGet, "/api/scopes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetScope fetches the full configuration of one scope.
func (c *HTTPClient) GetScope(ctx context.Context, scopeName string) (*domain.Scope, error) {
	var out domain.Scope
	path := "/api/scopes/" + url.PathEscape(scopeName)
	if err := c.do(ctx, "get scope", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateScope creates a new scope and sets its enabled flag.
func (c *HTTPClient) CreateScope(ctx context.Context, scope domain.Scope, enabled bool) error {
	path := "/api/scopes?enabled=" + strconv.FormatBool(enabled)
	return c.do(ctx, "create scope", http.MethodPost, path, scope, nil)
}

// UpdateScope fully replaces the named scope's fields.
func (c *HTTPClient) UpdateScope(ctx context.Context, scopeName string, scope domain.Scope, enabled *bool) error {
	path := "/api/scopes/" + url.PathEscape(scopeName)
	if enabled != nil {
		path += "?enabled=" + strconv.FormatBool(*enabled)
	}
	return c.do(ctx, "update scope", http.MethodPut, path, scope, nil)
}

// DeleteScope removes the named scope.
func (c *HTTPClient) DeleteScope(ctx context.Context, scopeName string) error {
	path := "/api/scopes/" + url.PathEscape(scopeName)
	return c.do(ctx, "delete scope", http.MethodDelete, path, nil, nil)
}

// RenameScope renames the scope on the node.
func (c *HTTPClient) RenameScope(ctx context.Context, scopeName, newName string) error {
	path := "/api/scopes/" + url.PathEscape(scopeName) + "/rename"
	body := map[string]string{"newName": newName}
	return c.do(ctx, "rename scope", http.MethodPost, path, body, nil)
}
