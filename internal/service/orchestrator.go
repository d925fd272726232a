package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
	"github.com/bcnelson/dhcp-fleet-manager/internal/nodeapi"
	"github.com/bcnelson/dhcp-fleet-manager/internal/storage"
	"github.com/bcnelson/dhcp-fleet-manager/internal/syncer"
	"github.com/bcnelson/dhcp-fleet-manager/internal/validation"
	"golang.org/x/sync/errgroup"
)

// Orchestrator wires snapshots, planning, and execution together. Every
// mutating action (clone, rename, update, delete, bulk-sync) is preceded by
// an automatic snapshot attempt for each node it will touch. Snapshotting is
// a best-effort safety net, not a transactional precondition: a node with
// zero scopes is skipped silently and any other snapshot failure becomes a
// warning on the result while the mutation proceeds.
type Orchestrator struct {
	registry  *nodeapi.Registry
	snapshots *SnapshotService
	executor  *syncer.Executor
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(store storage.Storage, registry *nodeapi.Registry) *Orchestrator {
	return &Orchestrator{
		registry:  registry,
		snapshots: NewSnapshotService(store, registry),
		executor:  syncer.NewExecutor(registry),
	}
}

// Snapshots exposes the snapshot service for read/manage endpoints.
func (o *Orchestrator) Snapshots() *SnapshotService {
	return o.snapshots
}

// autoSnapshot captures automatic pre-mutation snapshots for every node the
// action will touch, concurrently, and waits for all attempts before the
// mutating phase may begin. Returned warnings describe the attempts that
// failed for reasons other than an empty node.
func (o *Orchestrator) autoSnapshot(ctx context.Context, nodeIDs []string) []string {
	warnings := make([]string, len(nodeIDs))

	var wg sync.WaitGroup
	for i, nodeID := range nodeIDs {
		wg.Add(1)
		go func(i int, nodeID string) {
			defer wg.Done()
			_, err := o.snapshots.Create(ctx, nodeID, domain.OriginAutomatic)
			if err == nil || errors.Is(err, domain.ErrNoScopes) {
				return
			}
			log.Printf("Warning: automatic snapshot of node %s failed: %v", nodeID, err)
			warnings[i] = fmt.Sprintf("automatic snapshot of node %s failed: %v", nodeID, err)
		}(i, nodeID)
	}
	wg.Wait()

	var out []string
	for _, w := range warnings {
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// fetchEntries pulls a node's full scope set with enabled states.
func (o *Orchestrator) fetchEntries(ctx context.Context, nodeID string) ([]domain.ScopeEntry, error) {
	client, err := o.registry.Client(nodeID)
	if err != nil {
		return nil, err
	}
	summaries, err := client.ListScopes(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.ScopeEntry, 0, len(summaries))
	for _, summary := range summaries {
		scope, err := client.GetScope(ctx, summary.Name)
		if err != nil {
			return nil, fmt.Errorf("fetching scope %q from node %s: %w", summary.Name, nodeID, err)
		}
		entries = append(entries, domain.ScopeEntry{Scope: *scope, Enabled: summary.Enabled})
	}
	return entries, nil
}

// buildPlan enumerates the source and all targets, then plans. Enumeration
// failures abort the whole operation; there is nothing sensible to execute
// against a target whose state is unknown.
func (o *Orchestrator) buildPlan(ctx context.Context, req domain.SyncRequest) (*syncer.Plan, error) {
	if req.SourceNodeID == "" {
		return nil, fmt.Errorf("%w: sourceNodeId is required", domain.ErrInvalidInput)
	}
	if len(req.TargetNodeIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one target node is required", domain.ErrInvalidInput)
	}
	if !req.Strategy.Valid() {
		return nil, fmt.Errorf("%w: unknown strategy %q", domain.ErrInvalidInput, req.Strategy)
	}
	for _, target := range req.TargetNodeIDs {
		if target == req.SourceNodeID {
			return nil, fmt.Errorf("%w: source node cannot be a sync target", domain.ErrInvalidInput)
		}
	}

	source, err := o.fetchEntries(ctx, req.SourceNodeID)
	if err != nil {
		return nil, err
	}

	targets := make([]syncer.TargetState, len(req.TargetNodeIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, nodeID := range req.TargetNodeIDs {
		i, nodeID := i, nodeID
		g.Go(func() error {
			entries, err := o.fetchEntries(gctx, nodeID)
			if err != nil {
				return err
			}
			targets[i] = syncer.TargetState{NodeID: nodeID, Scopes: entries}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return syncer.BuildPlan(source, targets, req.Strategy, req.ScopeNames, req.EnableOnTarget)
}

// PreviewSync plans a bulk-sync without snapshots or mutations. Safe to call
// repeatedly.
func (o *Orchestrator) PreviewSync(ctx context.Context, req domain.SyncRequest) (*syncer.Plan, error) {
	return o.buildPlan(ctx, req)
}

// BulkSync snapshots every target node, then executes the plan, tolerating
// partial failure per scope and per node.
func (o *Orchestrator) BulkSync(ctx context.Context, req domain.SyncRequest) (*domain.SyncResult, error) {
	plan, err := o.buildPlan(ctx, req)
	if err != nil {
		return nil, err
	}

	warnings := o.autoSnapshot(ctx, req.TargetNodeIDs)

	result := o.executor.Execute(ctx, plan)
	result.Warnings = warnings
	return result, nil
}

// RestoreSnapshot re-applies a snapshot to its node. Restoring is itself a
// mutation (without KeepExtras it deletes every live scope absent from the
// snapshot), so the node's current state is captured first like any other
// mutating action.
func (o *Orchestrator) RestoreSnapshot(ctx context.Context, nodeID, id string, opts domain.RestoreOptions) (*domain.RestoreResult, error) {
	// Reject unknown snapshots before capturing anything.
	if _, err := o.snapshots.store.GetSnapshotMetadata(ctx, nodeID, id); err != nil {
		return nil, err
	}

	warnings := o.autoSnapshot(ctx, []string{nodeID})

	result, err := o.snapshots.Restore(ctx, nodeID, id, opts)
	if err != nil {
		return nil, err
	}
	result.Warnings = warnings
	return result, nil
}

// CloneScope copies a scope within a node or to another node, applying any
// overrides and the requested enabled state on the target.
func (o *Orchestrator) CloneScope(ctx context.Context, nodeID, scopeName string, req domain.CloneRequest) (*domain.CloneResult, error) {
	sourceClient, err := o.registry.Client(nodeID)
	if err != nil {
		return nil, err
	}

	targetNodeID := req.TargetNodeID
	if targetNodeID == "" {
		targetNodeID = nodeID
	}
	targetClient, err := o.registry.Client(targetNodeID)
	if err != nil {
		return nil, err
	}

	newName := strings.TrimSpace(req.NewScopeName)
	if newName == "" {
		newName = scopeName
	}
	if targetNodeID == nodeID && domain.ScopeKey(newName) == domain.ScopeKey(scopeName) {
		return nil, fmt.Errorf("%w: clone on the same node needs a new name", domain.ErrScopeExists)
	}

	source, err := sourceClient.GetScope(ctx, scopeName)
	if err != nil {
		return nil, err
	}

	scope := req.Overrides.Apply(*source)
	scope.Name = newName
	scope, errs := validation.SanitizeScope(scope)
	if errs.HasErrors() {
		return nil, errs
	}

	if err := o.ensureNameFree(ctx, targetClient, newName); err != nil {
		return nil, err
	}

	warnings := o.autoSnapshot(ctx, []string{targetNodeID})

	if err := targetClient.CreateScope(ctx, scope, req.EnableOnTarget); err != nil {
		return nil, err
	}

	return &domain.CloneResult{
		SourceNodeID: nodeID,
		TargetNodeID: targetNodeID,
		ScopeName:    scope.Name,
		Enabled:      req.EnableOnTarget,
		Warnings:     warnings,
	}, nil
}

// RenameScope renames a scope on one node.
func (o *Orchestrator) RenameScope(ctx context.Context, nodeID, scopeName, newName string) ([]string, error) {
	client, err := o.registry.Client(nodeID)
	if err != nil {
		return nil, err
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, fmt.Errorf("%w: new scope name is required", domain.ErrInvalidInput)
	}
	if domain.ScopeKey(newName) != domain.ScopeKey(scopeName) {
		if err := o.ensureNameFree(ctx, client, newName); err != nil {
			return nil, err
		}
	}

	warnings := o.autoSnapshot(ctx, []string{nodeID})

	if err := client.RenameScope(ctx, scopeName, newName); err != nil {
		return warnings, err
	}
	return warnings, nil
}

// UpdateScope applies field overrides on top of the node's current scope
// configuration, optionally changing the enabled flag.
func (o *Orchestrator) UpdateScope(ctx context.Context, nodeID, scopeName string, overrides *domain.ScopeOverrides, enabled *bool) ([]string, error) {
	client, err := o.registry.Client(nodeID)
	if err != nil {
		return nil, err
	}
	current, err := client.GetScope(ctx, scopeName)
	if err != nil {
		return nil, err
	}

	scope := overrides.Apply(*current)
	scope.Name = current.Name
	scope, errs := validation.SanitizeScope(scope)
	if errs.HasErrors() {
		return nil, errs
	}

	warnings := o.autoSnapshot(ctx, []string{nodeID})

	if err := client.UpdateScope(ctx, scopeName, scope, enabled); err != nil {
		return warnings, err
	}
	return warnings, nil
}

// DeleteScope removes a scope from one node.
func (o *Orchestrator) DeleteScope(ctx context.Context, nodeID, scopeName string) ([]string, error) {
	client, err := o.registry.Client(nodeID)
	if err != nil {
		return nil, err
	}

	warnings := o.autoSnapshot(ctx, []string{nodeID})

	if err := client.DeleteScope(ctx, scopeName); err != nil {
		return warnings, err
	}
	return warnings, nil
}

// ensureNameFree rejects a scope name already present (case-insensitively)
// on the node.
func (o *Orchestrator) ensureNameFree(ctx context.Context, client nodeapi.Client, name string) error {
	summaries, err := client.ListScopes(ctx)
	if err != nil {
		return err
	}
	key := domain.ScopeKey(name)
	for _, summary := range summaries {
		if domain.ScopeKey(summary.Name) == key {
			return fmt.Errorf("%w: %s", domain.ErrScopeExists, summary.Name)
		}
	}
	return nil
}

// ListNodes returns the registered nodes sorted by id.
func (o *Orchestrator) ListNodes() []nodeapi.NodeInfo {
	return o.registry.Nodes()
}

// ListScopes proxies a node's scope listing.
func (o *Orchestrator) ListScopes(ctx context.Context, nodeID string) ([]domain.ScopeSummary, error) {
	client, err := o.registry.Client(nodeID)
	if err != nil {
		return nil, err
	}
	return client.ListScopes(ctx)
}

// GetScope proxies a node's scope detail.
func (o *Orchestrator) GetScope(ctx context.Context, nodeID, scopeName string) (*domain.Scope, error) {
	client, err := o.registry.Client(nodeID)
	if err != nil {
		return nil, err
	}
	return client.GetScope(ctx, scopeName)
}
