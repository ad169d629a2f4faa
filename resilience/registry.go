package resilience

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry holds the process-scoped invokers by dependency name. It is an
// explicit object owned by the application's composition root and injected
// into callers; there is no package-level registry, so tests get fresh
// instances.
type Registry struct {
	mu       sync.RWMutex
	invokers map[string]*Invoker
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{invokers: make(map[string]*Invoker)}
}

// Register adds an invoker under its dependency name.
func (r *Registry) Register(inv *Invoker) error {
	if inv == nil || strings.TrimSpace(inv.Dependency()) == "" {
		return errors.New("resilience: invalid invoker registration")
	}
	name := strings.TrimSpace(inv.Dependency())

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.invokers[name]; exists {
		return fmt.Errorf("resilience: dependency %q already registered", name)
	}
	r.invokers[name] = inv
	return nil
}

// Invoker returns the invoker for a dependency name.
func (r *Registry) Invoker(name string) (*Invoker, error) {
	r.mu.RLock()
	inv, ok := r.invokers[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("resilience: dependency %q is not registered", name)
	}
	return inv, nil
}

// Breaker returns the circuit breaker guarding a dependency, or nil when the
// dependency has none.
func (r *Registry) Breaker(name string) *CircuitBreaker {
	inv, err := r.Invoker(name)
	if err != nil {
		return nil
	}
	return inv.Breaker()
}

// Bulkhead returns the bulkhead guarding a dependency, or nil.
func (r *Registry) Bulkhead(name string) *Bulkhead {
	inv, err := r.Invoker(name)
	if err != nil {
		return nil
	}
	return inv.Bulkhead()
}

// Names returns the registered dependency names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.invokers))
	for name := range r.invokers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
