package nodeapi

import (
	"sort"
	"sync"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
)

// NodeInfo is the public description of a registered node.
type NodeInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	BaseURL string `json:"baseUrl,omitempty"`
}

// Registry maps node ids to their API clients. It is built once from
// explicit, injected configuration; nothing in the engine reads node
// identities or credentials from ambient state.
type Registry struct {
	mu      sync.RWMutex
	nodes   map[string]NodeInfo
	clients map[string]Client
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		nodes:   make(map[string]NodeInfo),
		clients: make(map[string]Client),
	}
}

// Register adds or replaces a node.
func (r *Registry) Register(info NodeInfo, client Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes[info.ID] = info
	r.clients[info.ID] = client
}

// Client returns the API client for a node.
func (r *Registry) Client(nodeID string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[nodeID]
	if !ok {
		return nil, domain.ErrNodeNotFound
	}
	return client, nil
}

// Nodes lists the registered nodes sorted by id.
func (r *Registry) Nodes() []NodeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]NodeInfo, 0, len(r.nodes))
	for _, info := range r.nodes {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
