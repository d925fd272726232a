package syncer

import (
	"context"
	"sync"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
	"github.com/bcnelson/dhcp-fleet-manager/internal/nodeapi"
)

// Executor applies a plan against the target nodes' remote APIs. Nodes are
// independent failure domains and are processed concurrently; the scope
// actions for a single node run sequentially in plan order. A failed scope
// action never aborts its siblings, and sequential execution would produce
// the same aggregate result.
type Executor struct {
	registry *nodeapi.Registry
}

// NewExecutor creates an Executor over the given node registry.
func NewExecutor(registry *nodeapi.Registry) *Executor {
	return &Executor{registry: registry}
}

// Execute runs every planned action and aggregates per-scope and per-node
// outcomes into a SyncResult. Every failure is recorded in the result; none
// are dropped or merely logged.
func (e *Executor) Execute(ctx context.Context, plan *Plan) *domain.SyncResult {
	results := make([]domain.NodeSyncResult, len(plan.Nodes))

	var wg sync.WaitGroup
	for i := range plan.Nodes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = e.executeNode(ctx, plan.Nodes[i], plan.EnableOnTarget)
		}(i)
	}
	wg.Wait()

	out := &domain.SyncResult{Nodes: results}
	for _, node := range results {
		out.TotalSynced += node.Synced
		out.TotalSkipped += node.Skipped
		out.TotalFailed += node.Failed
	}
	return out
}

func (e *Executor) executeNode(ctx context.Context, plan NodePlan, enableOnTarget bool) domain.NodeSyncResult {
	result := domain.NodeSyncResult{NodeID: plan.NodeID}

	client, err := e.registry.Client(plan.NodeID)
	if err != nil {
		for _, action := range plan.Actions {
			result.Scopes = append(result.Scopes, domain.ScopeSyncResult{
				ScopeName: action.ScopeName,
				Action:    string(action.Type),
				Outcome:   domain.OutcomeFailed,
				Error:     err.Error(),
			})
		}
		result.Failed = len(result.Scopes)
		result.Status = domain.NodeSyncFailed
		return result
	}

	for _, action := range plan.Actions {
		result.Scopes = append(result.Scopes, e.executeAction(ctx, client, action, enableOnTarget))
	}

	for _, scope := range result.Scopes {
		switch scope.Outcome {
		case domain.OutcomeSynced:
			result.Synced++
		case domain.OutcomeSkipped:
			result.Skipped++
		case domain.OutcomeFailed:
			result.Failed++
		}
	}

	switch {
	case result.Failed == 0:
		result.Status = domain.NodeSyncSuccess
	case result.Failed == len(result.Scopes):
		result.Status = domain.NodeSyncFailed
	default:
		result.Status = domain.NodeSyncPartial
	}
	return result
}

func (e *Executor) executeAction(ctx context.Context, client nodeapi.Client, action Action, enableOnTarget bool) domain.ScopeSyncResult {
	out := domain.ScopeSyncResult{
		ScopeName: action.ScopeName,
		Action:    string(action.Type),
		Reason:    action.Reason,
	}

	var err error
	switch action.Type {
	case ActionSkip:
		out.Outcome = domain.OutcomeSkipped
		return out
	case ActionCreate:
		err = client.CreateScope(ctx, *action.Scope, enableOnTarget)
	case ActionUpdate:
		enabled := enableOnTarget
		err = client.UpdateScope(ctx, action.ScopeName, *action.Scope, &enabled)
	case ActionDelete:
		err = client.DeleteScope(ctx, action.ScopeName)
	}

	if err != nil {
		out.Outcome = domain.OutcomeFailed
		out.Error = err.Error()
		return out
	}
	out.Outcome = domain.OutcomeSynced
	return out
}
