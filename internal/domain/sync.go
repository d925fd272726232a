package domain

// SyncStrategy governs how bulk-sync resolves per-scope conflicts between a
// source node and a target node.
type SyncStrategy string

const (
	// StrategySkipExisting creates missing scopes and leaves every scope
	// that already exists on the target untouched.
	StrategySkipExisting SyncStrategy = "skip-existing"
	// StrategyOverwriteAll makes the target's scope set (within the
	// optional filter) equal the source's: creates, fully replaces, and
	// deletes target-only scopes.
	StrategyOverwriteAll SyncStrategy = "overwrite-all"
	// StrategyMergeMissing creates and fully replaces like overwrite-all
	// but preserves target-only scopes.
	StrategyMergeMissing SyncStrategy = "merge-missing"
)

// Valid reports whether the strategy is one of the known values.
func (s SyncStrategy) Valid() bool {
	switch s {
	case StrategySkipExisting, StrategyOverwriteAll, StrategyMergeMissing:
		return true
	}
	return false
}

// SyncRequest asks for a bulk synchronization of scopes from one source node
// to one or more target nodes.
type SyncRequest struct {
	SourceNodeID  string       `json:"sourceNodeId"`
	TargetNodeIDs []string     `json:"targetNodeIds"`
	Strategy      SyncStrategy `json:"strategy"`
	// ScopeNames optionally restricts the sync to the named source scopes.
	ScopeNames []string `json:"scopeNames,omitempty"`
	// EnableOnTarget is applied to every created or updated scope on the
	// targets, independent of the enabled state on the source.
	EnableOnTarget bool `json:"enableOnTarget"`
}

// ScopeOutcome classifies the result of one scope action on one target node.
type ScopeOutcome string

const (
	OutcomeSynced  ScopeOutcome = "synced"
	OutcomeSkipped ScopeOutcome = "skipped"
	OutcomeFailed  ScopeOutcome = "failed"
)

// NodeSyncStatus classifies a target node's aggregate result.
type NodeSyncStatus string

const (
	NodeSyncSuccess NodeSyncStatus = "success"
	NodeSyncPartial NodeSyncStatus = "partial"
	NodeSyncFailed  NodeSyncStatus = "failed"
)

// ScopeSyncResult is the outcome of a single planned action on a target node.
type ScopeSyncResult struct {
	ScopeName string       `json:"scopeName"`
	Action    string       `json:"action"`
	Outcome   ScopeOutcome `json:"outcome"`
	Reason    string       `json:"reason,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// NodeSyncResult aggregates the scope outcomes for one target node.
type NodeSyncResult struct {
	NodeID  string            `json:"nodeId"`
	Status  NodeSyncStatus    `json:"status"`
	Scopes  []ScopeSyncResult `json:"scopes"`
	Synced  int               `json:"synced"`
	Skipped int               `json:"skipped"`
	Failed  int               `json:"failed"`
}

// SyncResult is the overall outcome of a bulk-sync across all target nodes.
// Warnings carry non-fatal pre-mutation snapshot failures.
type SyncResult struct {
	Nodes        []NodeSyncResult `json:"nodes"`
	TotalSynced  int              `json:"totalSynced"`
	TotalSkipped int              `json:"totalSkipped"`
	TotalFailed  int              `json:"totalFailed"`
	Warnings     []string         `json:"warnings,omitempty"`
}

// CloneRequest copies a scope within a node or to another node.
type CloneRequest struct {
	// TargetNodeID defaults to the source node when empty.
	TargetNodeID string `json:"targetNodeId,omitempty"`
	// NewScopeName defaults to the source scope name when cloning across
	// nodes; a same-node clone requires a distinct name.
	NewScopeName   string          `json:"newScopeName,omitempty"`
	EnableOnTarget bool            `json:"enableOnTarget"`
	Overrides      *ScopeOverrides `json:"overrides,omitempty"`
}

// CloneResult reports a completed clone.
type CloneResult struct {
	SourceNodeID string   `json:"sourceNodeId"`
	TargetNodeID string   `json:"targetNodeId"`
	ScopeName    string   `json:"scopeName"`
	Enabled      bool     `json:"enabled"`
	Warnings     []string `json:"warnings,omitempty"`
}
