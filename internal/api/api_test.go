package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bcnelson/dhcp-fleet-manager/internal/api"
	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
	"github.com/bcnelson/dhcp-fleet-manager/internal/nodeapi"
	"github.com/bcnelson/dhcp-fleet-manager/internal/service"
	"github.com/bcnelson/dhcp-fleet-manager/internal/storage/memory"
)

// testServer runs the full router over fake nodes and in-memory storage.
type testServer struct {
	handler http.Handler
	fakes   map[string]*nodeapi.Fake
	token   string
}

func newTestServer(nodeIDs ...string) *testServer {
	registry := nodeapi.NewRegistry()
	fakes := make(map[string]*nodeapi.Fake, len(nodeIDs))
	for _, id := range nodeIDs {
		fake := nodeapi.NewFake(id)
		registry.Register(nodeapi.NodeInfo{ID: id, Name: id}, fake)
		fakes[id] = fake
	}

	orchestrator := service.NewOrchestrator(memory.New(), registry)
	token := "test-api-token"

	return &testServer{
		handler: api.NewRouter(orchestrator, token),
		fakes:   fakes,
		token:   token,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody io.Reader
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewReader(jsonBytes)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func testScope(name string) domain.Scope {
	return domain.Scope{
		Name:            name,
		StartingAddress: "10.0.0.10",
		EndingAddress:   "10.0.0.250",
		SubnetMask:      "255.255.255.0",
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer("node-1")

	rr := ts.request("GET", "/health", nil, "")
	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp["status"] != "ok" {
		t.Errorf("Expected status ok, got %s", resp["status"])
	}
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer("node-1")

	rr := ts.request("GET", "/api/v1/nodes", nil, "")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without token, got %d", rr.Code)
	}

	rr = ts.request("GET", "/api/v1/nodes", nil, "wrong-token")
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 with wrong token, got %d", rr.Code)
	}

	rr = ts.request("GET", "/api/v1/nodes", nil, ts.token)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200 with valid token, got %d", rr.Code)
	}
}

func TestListNodes(t *testing.T) {
	ts := newTestServer("node-b", "node-a")

	rr := ts.request("GET", "/api/v1/nodes", nil, ts.token)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var nodes []nodeapi.NodeInfo
	if err := json.Unmarshal(rr.Body.Bytes(), &nodes); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(nodes))
	}
	if nodes[0].ID != "node-a" || nodes[1].ID != "node-b" {
		t.Errorf("Expected nodes sorted by id, got %s, %s", nodes[0].ID, nodes[1].ID)
	}
}

func TestScopeEndpoints(t *testing.T) {
	ts := newTestServer("node-1")
	ts.fakes["node-1"].Seed(testScope("office"), true)

	// List
	rr := ts.request("GET", "/api/v1/nodes/node-1/scopes", nil, ts.token)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var summaries []domain.ScopeSummary
	if err := json.Unmarshal(rr.Body.Bytes(), &summaries); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Name != "office" {
		t.Errorf("Unexpected scope listing: %+v", summaries)
	}

	// Get
	rr = ts.request("GET", "/api/v1/nodes/node-1/scopes/office", nil, ts.token)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var scope domain.Scope
	if err := json.Unmarshal(rr.Body.Bytes(), &scope); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if scope.SubnetMask != "255.255.255.0" {
		t.Errorf("Unexpected scope: %+v", scope)
	}

	// Get missing
	rr = ts.request("GET", "/api/v1/nodes/node-1/scopes/ghost", nil, ts.token)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}

	// Unknown node
	rr = ts.request("GET", "/api/v1/nodes/ghost/scopes", nil, ts.token)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown node, got %d", rr.Code)
	}

	// Update with an invalid override yields field-level errors.
	rr = ts.request("PUT", "/api/v1/nodes/node-1/scopes/office", map[string]any{
		"overrides": map[string]any{"startingAddress": "not-an-ip"},
	}, ts.token)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
	var errResp struct {
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if len(errResp.Errors) == 0 || errResp.Errors[0].Field != "startingAddress" {
		t.Errorf("Expected startingAddress validation error, got %+v", errResp)
	}

	// Delete
	rr = ts.request("DELETE", "/api/v1/nodes/node-1/scopes/office", nil, ts.token)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if _, ok := ts.fakes["node-1"].Enabled("office"); ok {
		t.Error("Scope still present after delete")
	}
}

func TestRemoteNotFoundKeepsStatus(t *testing.T) {
	ts := newTestServer("node-1")
	ts.fakes["node-1"].FailOn = func(op, scopeName string) error {
		return &nodeapi.RemoteError{NodeID: "node-1", Op: "get scope", Err: domain.ErrNotFound}
	}

	// A remote 404 arrives wrapped with node context but must still map to
	// 404, not 502.
	rr := ts.request("GET", "/api/v1/nodes/node-1/scopes/ghost", nil, ts.token)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for a wrapped remote not-found, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestSnapshotLifecycle(t *testing.T) {
	ts := newTestServer("node-1")
	ts.fakes["node-1"].Seed(testScope("office"), true)

	// Create
	rr := ts.request("POST", "/api/v1/nodes/node-1/snapshots", nil, ts.token)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var meta domain.SnapshotMetadata
	if err := json.Unmarshal(rr.Body.Bytes(), &meta); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if meta.Origin != domain.OriginManual || meta.ScopeCount != 1 {
		t.Errorf("Unexpected metadata: %+v", meta)
	}

	// Pin
	rr = ts.request("PUT", "/api/v1/nodes/node-1/snapshots/"+meta.ID+"/pin",
		map[string]bool{"pinned": true}, ts.token)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	// Note
	rr = ts.request("PUT", "/api/v1/nodes/node-1/snapshots/"+meta.ID+"/note",
		map[string]string{"note": "baseline"}, ts.token)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	// List reflects both
	rr = ts.request("GET", "/api/v1/nodes/node-1/snapshots", nil, ts.token)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var metas []domain.SnapshotMetadata
	if err := json.Unmarshal(rr.Body.Bytes(), &metas); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(metas) != 1 || !metas[0].Pinned || metas[0].Note != "baseline" {
		t.Errorf("Unexpected listing: %+v", metas)
	}

	// Restore after drift
	if err := ts.fakes["node-1"].DeleteScope(context.Background(), "office"); err != nil {
		t.Fatal(err)
	}
	rr = ts.request("POST", "/api/v1/nodes/node-1/snapshots/"+meta.ID+"/restore",
		domain.RestoreOptions{}, ts.token)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var restore domain.RestoreResult
	if err := json.Unmarshal(rr.Body.Bytes(), &restore); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if restore.Restored != 1 {
		t.Errorf("Expected 1 restored scope, got %+v", restore)
	}
	if _, ok := ts.fakes["node-1"].Enabled("office"); !ok {
		t.Error("Scope not recreated by restore")
	}

	// Delete
	rr = ts.request("DELETE", "/api/v1/nodes/node-1/snapshots/"+meta.ID, nil, ts.token)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", rr.Code)
	}
	rr = ts.request("GET", "/api/v1/nodes/node-1/snapshots/"+meta.ID, nil, ts.token)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", rr.Code)
	}
}

func TestSnapshotEmptyNodeConflict(t *testing.T) {
	ts := newTestServer("node-1")

	rr := ts.request("POST", "/api/v1/nodes/node-1/snapshots", nil, ts.token)
	if rr.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for empty node, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestSyncEndpoints(t *testing.T) {
	ts := newTestServer("node-1", "node-2")
	ts.fakes["node-1"].Seed(testScope("office"), true)

	req := domain.SyncRequest{
		SourceNodeID:   "node-1",
		TargetNodeIDs:  []string{"node-2"},
		Strategy:       domain.StrategySkipExisting,
		EnableOnTarget: true,
	}

	// Preview first: no mutation.
	rr := ts.request("POST", "/api/v1/sync/preview", req, ts.token)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if _, ok := ts.fakes["node-2"].Enabled("office"); ok {
		t.Fatal("Preview created a scope")
	}

	// Execute.
	rr = ts.request("POST", "/api/v1/sync", req, ts.token)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var result domain.SyncResult
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.TotalSynced != 1 || result.TotalFailed != 0 {
		t.Errorf("Unexpected result: %+v", result)
	}
	if _, ok := ts.fakes["node-2"].Enabled("office"); !ok {
		t.Error("Sync did not create the scope")
	}

	// Invalid strategy is a 400.
	bad := req
	bad.Strategy = "mirror"
	rr = ts.request("POST", "/api/v1/sync", bad, ts.token)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}

func TestCloneEndpoint(t *testing.T) {
	ts := newTestServer("node-1", "node-2")
	ts.fakes["node-1"].Seed(testScope("office"), true)

	rr := ts.request("POST", "/api/v1/nodes/node-1/scopes/office/clone",
		domain.CloneRequest{TargetNodeID: "node-2", EnableOnTarget: true}, ts.token)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if _, ok := ts.fakes["node-2"].Enabled("office"); !ok {
		t.Error("Clone did not reach the target node")
	}

	// Cloning again conflicts.
	rr = ts.request("POST", "/api/v1/nodes/node-1/scopes/office/clone",
		domain.CloneRequest{TargetNodeID: "node-2"}, ts.token)
	if rr.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rr.Code)
	}
}
