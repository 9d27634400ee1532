package mail

import (
	"errors"
	"sync"
)

// DefaultStrategy is the hard-coded fallback when the routing table has no
// entry at any precedence level.
const DefaultStrategy = "default"

// RoutingKey is the routing table entry naming the site-wide default
// strategy, consulted after the message id and category entries.
const RoutingKey = "default-system"

// Registry resolves the backend responsible for a message category/key pair
// and memoizes one instance per strategy name. It is safe for concurrent
// use; a configuration change only takes effect on instances after Reset.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	instances map[string]Backend
	routing   map[string]string
}

// NewRegistry creates a registry resolving against the given routing table.
// Routing keys are, in precedence order, "{category}_{key}", "{category}",
// and "default-system"; values are registered strategy names.
func NewRegistry(routing map[string]string) *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
		instances: make(map[string]Backend),
		routing:   make(map[string]string, len(routing)),
	}
	for k, v := range routing {
		r.routing[k] = v
	}
	return r
}

// Register adds a strategy factory under the given name, replacing any
// previous registration. Cached instances are not affected.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Resolve returns the backend for a category/key pair, constructing and
// caching it on first use. Resolution is deterministic for a given routing
// table: the exact id wins over the category entry, which wins over the
// site default, which wins over the built-in fallback strategy.
func (r *Registry) Resolve(category, key string) (Backend, error) {
	name := r.strategyFor(category, key)

	r.mu.RLock()
	instance, ok := r.instances[name]
	r.mu.RUnlock()
	if ok {
		return instance, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another resolver may have built it while we waited for the lock;
	// only one constructed instance may ever be retained.
	if instance, ok := r.instances[name]; ok {
		return instance, nil
	}
	factory, ok := r.factories[name]
	if !ok {
		return nil, &ConfigurationError{Strategy: name}
	}
	instance, err := factory()
	if err != nil {
		return nil, &ConfigurationError{Strategy: name, Err: err}
	}
	if instance == nil {
		return nil, &ConfigurationError{Strategy: name, Err: errors.New("factory returned no backend")}
	}
	r.instances[name] = instance
	return instance, nil
}

// strategyFor walks the precedence chain for a category/key pair.
func (r *Registry) strategyFor(category, key string) string {
	id := category + "_" + key
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.routing[id]; ok {
		return name
	}
	if name, ok := r.routing[category]; ok {
		return name
	}
	if name, ok := r.routing[RoutingKey]; ok {
		return name
	}
	return DefaultStrategy
}

// Reset drops all cached backend instances. Call after the routing table or
// backend configuration changes.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances = make(map[string]Backend)
}
