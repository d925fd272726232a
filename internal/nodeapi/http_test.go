package nodeapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
)

func nodeStub(t *testing.T, status int, body string) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		if body != "" {
			w.Write([]byte(body))
		}
	}))
	t.Cleanup(server.Close)
	return NewHTTPClient("node-1", server.URL, "token", time.Second)
}

func TestHTTPClientNotFoundKeepsContext(t *testing.T) {
	client := nodeStub(t, http.StatusNotFound, "")

	_, err := client.GetScope(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("Expected a RemoteError, got %T", err)
	}
	if remote.NodeID != "node-1" || remote.Op != "get scope" {
		t.Errorf("Lost remote context: %+v", remote)
	}
	if !strings.Contains(err.Error(), "node-1") {
		t.Errorf("Expected node id in message, got %q", err.Error())
	}
}

func TestHTTPClientConflictKeepsContext(t *testing.T) {
	client := nodeStub(t, http.StatusConflict, "")

	err := client.CreateScope(context.Background(), domain.Scope{Name: "office"}, true)
	if !errors.Is(err, domain.ErrScopeExists) {
		t.Fatalf("Expected ErrScopeExists, got %v", err)
	}

	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("Expected a RemoteError, got %T", err)
	}
	if remote.Op != "create scope" {
		t.Errorf("Expected create scope op, got %q", remote.Op)
	}
}

func TestHTTPClientServerError(t *testing.T) {
	client := nodeStub(t, http.StatusInternalServerError, "boom")

	err := client.DeleteScope(context.Background(), "office")
	if err == nil {
		t.Fatal("Expected an error")
	}
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrScopeExists) {
		t.Fatalf("Server error must not match a sentinel: %v", err)
	}

	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("Expected a RemoteError, got %T", err)
	}
	if !strings.Contains(remote.Err.Error(), "boom") {
		t.Errorf("Expected response body in error, got %q", remote.Err.Error())
	}
}
