package policy

import (
	"context"
	"sync"

	"xccdfeval/internal/model"
)

// Reserved system URIs are exported for documentation/interop purposes only:
// dispatch of start/output hooks happens through dedicated PolicyModel
// fields (StartHook/OutputHook), per the design note preferring that over
// treating hooks as engines under a magic URI.
const (
	SystemCallbackStart  = "urn:xccdf:system:callback:start"
	SystemCallbackOutput = "urn:xccdf:system:callback:output"
)

// EvalFunc is a checking engine's evaluation entry point. It may mutate the
// supplied CheckImports slice in place to record engine-provided facts.
// Returning NotChecked signals "try the next engine registered for this
// system URI"; any other value is final.
type EvalFunc func(ctx context.Context, h *Handle, ruleID, contentName, href string, bindings []ValueBinding, imports []model.CheckImport) (ResultKind, error)

// QueryFunc answers structured queries. The only query in scope is
// NamesForHref; a nil result (as opposed to an empty, non-nil slice) means
// "this engine does not support querying".
type QueryFunc func(ctx context.Context, href string) ([]string, error)

// EngineRegistration is one registered checking engine.
type EngineRegistration struct {
	Eval  EvalFunc
	Query QueryFunc
	Name  string // for diagnostics only
}

// Registry holds checking-engine registrations keyed by system URI.
// Multiple engines may register for the same URI; Lookup returns them in
// registration order, matching the "engines tried in registration order"
// ordering guarantee.
type Registry struct {
	mu   sync.RWMutex
	byURI map[string][]EngineRegistration
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byURI: make(map[string][]EngineRegistration)}
}

// Register appends reg under systemURI.
func (r *Registry) Register(systemURI string, reg EngineRegistration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byURI[systemURI] = append(r.byURI[systemURI], reg)
}

// Lookup returns the registrations for systemURI in registration order.
// The returned slice is a copy; callers may not mutate the registry through it.
func (r *Registry) Lookup(systemURI string) []EngineRegistration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	regs := r.byURI[systemURI]
	if len(regs) == 0 {
		return nil
	}
	out := make([]EngineRegistration, len(regs))
	copy(out, regs)
	return out
}

// HasEngine reports whether any engine is registered for systemURI.
func (r *Registry) HasEngine(systemURI string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byURI[systemURI]) > 0
}

// Handle is the opaque policy handle passed to engine callbacks, giving
// them read access to the owning PolicyModel/Policy without exposing
// mutation surface.
type Handle struct {
	Model  *PolicyModel
	Policy *Policy
}
