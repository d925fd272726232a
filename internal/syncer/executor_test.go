package syncer

import (
	"context"
	"errors"
	"testing"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
	"github.com/bcnelson/dhcp-fleet-manager/internal/nodeapi"
)

func fixtureRegistry(t *testing.T) (*nodeapi.Registry, *nodeapi.Fake) {
	t.Helper()
	registry := nodeapi.NewRegistry()
	fake := nodeapi.NewFake("node-2")
	registry.Register(nodeapi.NodeInfo{ID: "node-2", Name: "node-2"}, fake)
	return registry, fake
}

func buildFixturePlan(t *testing.T, strategy domain.SyncStrategy, fake *nodeapi.Fake) *Plan {
	t.Helper()
	ctx := context.Background()
	var targetScopes []domain.ScopeEntry
	summaries, err := fake.ListScopes(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range summaries {
		sc, err := fake.GetScope(ctx, s.Name)
		if err != nil {
			t.Fatal(err)
		}
		targetScopes = append(targetScopes, domain.ScopeEntry{Scope: *sc, Enabled: s.Enabled})
	}

	source := []domain.ScopeEntry{
		entry("scope-a", "255.255.255.0", true),
		entry("scope-b", "255.255.255.0", true),
	}
	plan, err := BuildPlan(source, []TargetState{{NodeID: "node-2", Scopes: targetScopes}}, strategy, nil, true)
	if err != nil {
		t.Fatal(err)
	}
	return plan
}

func TestExecuteCreatesAndUpdates(t *testing.T) {
	registry, fake := fixtureRegistry(t)
	fake.Seed(scope("scope-b", "255.255.0.0"), false)
	fake.Seed(scope("scope-c", "255.255.255.0"), true)

	plan := buildFixturePlan(t, domain.StrategyOverwriteAll, fake)
	result := NewExecutor(registry).Execute(context.Background(), plan)

	if result.TotalFailed != 0 {
		t.Fatalf("failed = %d, want 0: %+v", result.TotalFailed, result)
	}
	if result.TotalSynced != 3 {
		t.Errorf("synced = %d, want 3 (create a, update b, delete c)", result.TotalSynced)
	}
	if result.Nodes[0].Status != domain.NodeSyncSuccess {
		t.Errorf("status = %s, want success", result.Nodes[0].Status)
	}

	// scope-a created and enabled, scope-b now enabled, scope-c gone.
	if enabled, ok := fake.Enabled("scope-a"); !ok || !enabled {
		t.Errorf("scope-a enabled/exists = %v/%v, want true/true", enabled, ok)
	}
	if enabled, ok := fake.Enabled("scope-b"); !ok || !enabled {
		t.Errorf("scope-b enabled/exists = %v/%v, want true/true", enabled, ok)
	}
	if _, ok := fake.Enabled("scope-c"); ok {
		t.Error("scope-c still exists after overwrite-all")
	}
	sc, err := fake.GetScope(context.Background(), "scope-b")
	if err != nil {
		t.Fatal(err)
	}
	if sc.SubnetMask != "255.255.255.0" {
		t.Errorf("scope-b mask = %q, want replaced", sc.SubnetMask)
	}
}

func TestExecutePartialFailure(t *testing.T) {
	registry, fake := fixtureRegistry(t)
	fake.Seed(scope("scope-b", "255.255.0.0"), true)
	fake.FailOn = func(op, scopeName string) error {
		if op == "update" && domain.ScopeKey(scopeName) == "scope-b" {
			return errors.New("node rejected the update")
		}
		return nil
	}

	plan := buildFixturePlan(t, domain.StrategyMergeMissing, fake)
	result := NewExecutor(registry).Execute(context.Background(), plan)

	if result.TotalSynced != 1 || result.TotalFailed != 1 {
		t.Fatalf("synced/failed = %d/%d, want 1/1", result.TotalSynced, result.TotalFailed)
	}
	node := result.Nodes[0]
	if node.Status != domain.NodeSyncPartial {
		t.Errorf("status = %s, want partial", node.Status)
	}
	for _, s := range node.Scopes {
		if s.ScopeName == "scope-b" {
			if s.Outcome != domain.OutcomeFailed || s.Error == "" {
				t.Errorf("scope-b outcome = %+v, want failed with error", s)
			}
		}
	}

	// The failure did not prevent scope-a from being created.
	if _, ok := fake.Enabled("scope-a"); !ok {
		t.Error("scope-a missing; failure aborted remaining actions")
	}
}

func TestExecuteAllFailed(t *testing.T) {
	registry, fake := fixtureRegistry(t)
	plan := buildFixturePlan(t, domain.StrategySkipExisting, fake)
	fake.FailOn = func(op, scopeName string) error {
		return errors.New("node unreachable")
	}

	result := NewExecutor(registry).Execute(context.Background(), plan)

	if result.Nodes[0].Status != domain.NodeSyncFailed {
		t.Errorf("status = %s, want failed", result.Nodes[0].Status)
	}
	if result.TotalFailed != 2 {
		t.Errorf("failed = %d, want 2", result.TotalFailed)
	}
}

func TestExecuteUnknownNode(t *testing.T) {
	registry := nodeapi.NewRegistry()
	plan := &Plan{
		Strategy: domain.StrategySkipExisting,
		Nodes: []NodePlan{{
			NodeID: "ghost",
			Actions: []Action{
				{Type: ActionCreate, ScopeName: "scope-a", Scope: &domain.Scope{Name: "scope-a"}},
			},
		}},
	}

	result := NewExecutor(registry).Execute(context.Background(), plan)
	node := result.Nodes[0]
	if node.Status != domain.NodeSyncFailed {
		t.Errorf("status = %s, want failed", node.Status)
	}
	if len(node.Scopes) != 1 || node.Scopes[0].Outcome != domain.OutcomeFailed {
		t.Errorf("scopes = %+v, want one failed outcome", node.Scopes)
	}
}

func TestExecuteSkipsDoNotTouchNode(t *testing.T) {
	registry, fake := fixtureRegistry(t)
	fake.Seed(scope("scope-a", "255.255.255.0"), true)
	fake.Seed(scope("scope-b", "255.255.255.0"), true)
	fake.FailOn = func(op, scopeName string) error {
		if op != "list" && op != "get" {
			return errors.New("mutation attempted")
		}
		return nil
	}

	plan := buildFixturePlan(t, domain.StrategySkipExisting, fake)
	result := NewExecutor(registry).Execute(context.Background(), plan)

	if result.TotalFailed != 0 {
		t.Fatalf("failed = %d, want 0: %+v", result.TotalFailed, result.Nodes[0].Scopes)
	}
	if result.TotalSkipped != 2 {
		t.Errorf("skipped = %d, want 2", result.TotalSkipped)
	}
}
