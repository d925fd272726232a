package nodeapi

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/bcnelson/dhcp-fleet-manager/internal/domain"
)

// Fake is an in-memory node implementation used in tests and in local shim
// mode, where the server runs without any real DHCP nodes.
type Fake struct {
	nodeID string

	mu     sync.RWMutex
	scopes map[string]*fakeScope // key: folded scope name

	// FailOn, when set, is consulted before every operation; a non-nil
	// return is surfaced as that operation's error. op is one of list,
	// get, create, update, delete, rename.
	FailOn func(op, scopeName string) error
}

type fakeScope struct {
	scope   domain.Scope
	enabled bool
}

// Ensure Fake implements Client.
var _ Client = (*Fake)(nil)

// NewFake creates an empty fake node.
func NewFake(nodeID string) *Fake {
	return &Fake{nodeID: nodeID, scopes: make(map[string]*fakeScope)}
}

// Seed adds a scope directly, bypassing failure injection.
func (f *Fake) Seed(scope domain.Scope, enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scopes[domain.ScopeKey(scope.Name)] = &fakeScope{scope: scope, enabled: enabled}
}

func (f *Fake) fail(op, scopeName string) error {
	if f.FailOn != nil {
		return f.FailOn(op, scopeName)
	}
	return nil
}

// ListScopes lists the fake node's scopes sorted by name.
func (f *Fake) ListScopes(ctx context.Context) ([]domain.ScopeSummary, error) {
	if err := f.fail("list", ""); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]domain.ScopeSummary, 0, len(f.scopes))
	for _, s := range f.scopes {
		out = append(out, domain.ScopeSummary{
			Name:            s.scope.Name,
			StartingAddress: s.scope.StartingAddress,
			EndingAddress:   s.scope.EndingAddress,
			SubnetMask:      s.scope.SubnetMask,
			Enabled:         s.enabled,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// GetScope returns a copy of the named scope.
func (f *Fake) GetScope(ctx context.Context, scopeName string) (*domain.Scope, error) {
	if err := f.fail("get", scopeName); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	s, ok := f.scopes[domain.ScopeKey(scopeName)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	scope := s.scope
	return &scope, nil
}

// Enabled reports the enabled flag of the named scope. Test helper.
func (f *Fake) Enabled(scopeName string) (bool, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s, ok := f.scopes[domain.ScopeKey(scopeName)]
	if !ok {
		return false, false
	}
	return s.enabled, true
}

// CreateScope creates the scope, rejecting case-insensitive name conflicts.
func (f *Fake) CreateScope(ctx context.Context, scope domain.Scope, enabled bool) error {
	if err := f.fail("create", scope.Name); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := domain.ScopeKey(scope.Name)
	if _, ok := f.scopes[key]; ok {
		return domain.ErrScopeExists
	}
	f.scopes[key] = &fakeScope{scope: scope, enabled: enabled}
	return nil
}

// UpdateScope fully replaces the scope's fields.
func (f *Fake) UpdateScope(ctx context.Context, scopeName string, scope domain.Scope, enabled *bool) error {
	if err := f.fail("update", scopeName); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.scopes[domain.ScopeKey(scopeName)]
	if !ok {
		return domain.ErrNotFound
	}
	s.scope = scope
	if enabled != nil {
		s.enabled = *enabled
	}
	return nil
}

// DeleteScope removes the named scope.
func (f *Fake) DeleteScope(ctx context.Context, scopeName string) error {
	if err := f.fail("delete", scopeName); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := domain.ScopeKey(scopeName)
	if _, ok := f.scopes[key]; !ok {
		return domain.ErrNotFound
	}
	delete(f.scopes, key)
	return nil
}

// RenameScope renames the scope, rejecting case-insensitive conflicts.
func (f *Fake) RenameScope(ctx context.Context, scopeName, newName string) error {
	if err := f.fail("rename", scopeName); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	oldKey := domain.ScopeKey(scopeName)
	newKey := domain.ScopeKey(newName)
	s, ok := f.scopes[oldKey]
	if !ok {
		return domain.ErrNotFound
	}
	if newKey != oldKey {
		if _, exists := f.scopes[newKey]; exists {
			return domain.ErrScopeExists
		}
	}
	delete(f.scopes, oldKey)
	s.scope.Name = newName
	f.scopes[newKey] = s
	return nil
}
