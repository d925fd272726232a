// Package syncer plans and executes bulk scope synchronization from one
// source node to many targets. Planning is pure and repeatable for preview;
// execution tolerates partial failure per scope and per node.
package syncer

import (
	"fmt"

	"github.com/bcnelson/dhcp-fleet-manager/internal/diff"
	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
)

// ActionType is the planned disposition for one (target node, scope) pair.
type ActionType string

const (
	ActionCreate ActionType = "create"
	ActionUpdate ActionType = "update"
	ActionSkip   ActionType = "skip"
	ActionDelete ActionType = "delete"
)

// Action is one planned step against a target node. Scope is the full source
// configuration to apply for create/update and nil for skip/delete.
type Action struct {
	Type      ActionType         `json:"type"`
	ScopeName string             `json:"scopeName"`
	Reason    string             `json:"reason,omitempty"`
	Scope     *domain.Scope      `json:"-"`
	Changes   []diff.FieldChange `json:"changes,omitempty"`
}

// NodePlan holds the ordered actions for one target node. Creates and
// updates come first, deletes last, so a target never passes through a state
// where a scope is gone before its replacement set is in place.
type NodePlan struct {
	NodeID  string   `json:"nodeId"`
	Actions []Action `json:"actions"`
}

// Plan is the complete non-mutating action plan for a sync request.
type Plan struct {
	Strategy       domain.SyncStrategy `json:"strategy"`
	EnableOnTarget bool                `json:"enableOnTarget"`
	Nodes          []NodePlan          `json:"nodes"`
}

// TargetState is a target node's current scope set, as enumerated before
// planning.
type TargetState struct {
	NodeID string
	Scopes []domain.ScopeEntry
}

// BuildPlan computes the per-(node, scope) actions for syncing the source
// scope set to each target under the given strategy. It performs no remote
// calls and may be invoked repeatedly for preview.
func BuildPlan(source []domain.ScopeEntry, targets []TargetState, strategy domain.SyncStrategy, scopeNames []string, enableOnTarget bool) (*Plan, error) {
	if !strategy.Valid() {
		return nil, fmt.Errorf("%w: unknown strategy %q", domain.ErrInvalidInput, strategy)
	}

	var filter map[string]bool
	if len(scopeNames) > 0 {
		filter = make(map[string]bool, len(scopeNames))
		for _, name := range scopeNames {
			filter[domain.ScopeKey(name)] = true
		}
	}

	selected := make([]domain.ScopeEntry, 0, len(source))
	sourceKeys := make(map[string]bool, len(source))
	for _, entry := range source {
		key := domain.ScopeKey(entry.Scope.Name)
		if filter != nil && !filter[key] {
			continue
		}
		selected = append(selected, entry)
		sourceKeys[key] = true
	}

	plan := &Plan{Strategy: strategy, EnableOnTarget: enableOnTarget}
	for _, target := range targets {
		existing := make(map[string]domain.ScopeEntry, len(target.Scopes))
		for _, entry := range target.Scopes {
			existing[domain.ScopeKey(entry.Scope.Name)] = entry
		}

		node := NodePlan{NodeID: target.NodeID}
		for i := range selected {
			entry := selected[i]
			node.Actions = append(node.Actions, planScope(entry, existing, strategy, enableOnTarget))
		}

		// Deletes last: overwrite-all removes target scopes absent from
		// the (filtered) source set. With a filter, scopes outside it
		// are untouched.
		if strategy == domain.StrategyOverwriteAll {
			for _, entry := range target.Scopes {
				key := domain.ScopeKey(entry.Scope.Name)
				if sourceKeys[key] {
					continue
				}
				if filter != nil && !filter[key] {
					continue
				}
				node.Actions = append(node.Actions, Action{
					Type:      ActionDelete,
					ScopeName: entry.Scope.Name,
					Reason:    "not present on source",
				})
			}
		}

		plan.Nodes = append(plan.Nodes, node)
	}
	return plan, nil
}

func planScope(entry domain.ScopeEntry, existing map[string]domain.ScopeEntry, strategy domain.SyncStrategy, enableOnTarget bool) Action {
	scope := entry.Scope
	current, exists := existing[domain.ScopeKey(scope.Name)]
	if !exists {
		return Action{
			Type:      ActionCreate,
			ScopeName: scope.Name,
			Reason:    "missing on target",
			Scope:     &scope,
			Changes:   diff.Changes(scope, nil),
		}
	}

	if strategy == domain.StrategySkipExisting {
		return Action{Type: ActionSkip, ScopeName: scope.Name, Reason: "already exists on target"}
	}

	changes := diff.Changes(scope, &current.Scope)
	if len(changes) == 0 && current.Enabled == enableOnTarget {
		return Action{Type: ActionSkip, ScopeName: scope.Name, Reason: "identical"}
	}
	return Action{
		Type:      ActionUpdate,
		ScopeName: scope.Name,
		Reason:    "exists on target",
		Scope:     &scope,
		Changes:   changes,
	}
}
