package circuit

import "sync"

// Registry is a process-wide directory of breakers keyed by dependency
// name. A dependency is never registered twice; GetOrCreate is the normal
// entry point and is idempotent per name.
type Registry struct {
	mu       sync.RWMutex
	breakers map[string]*Breaker
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{breakers: make(map[string]*Breaker)}
}

// GetOrCreate returns the existing breaker for name, or creates one with
// cfg if none exists yet. cfg is ignored once a breaker for name exists.
func (r *Registry) GetOrCreate(name string, cfg Config) *Breaker {
	r.mu.RLock()
	b, ok := r.breakers[name]
	r.mu.RUnlock()
	if ok {
		return b
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.breakers[name]; ok {
		return b
	}
	b = New(name, cfg)
	r.breakers[name] = b
	return b
}

// Register adds a pre-built breaker under name. It fails if name is
// already registered.
func (r *Registry) Register(b *Breaker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.breakers[b.name]; ok {
		return ErrAlreadyRegistered
	}
	r.breakers[b.name] = b
	return nil
}

// Get returns the breaker registered under name, if any.
func (r *Registry) Get(name string) (*Breaker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.breakers[name]
	return b, ok
}

// Deregister removes the breaker registered under name.
func (r *Registry) Deregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.breakers, name)
}

// Names returns the names of all registered breakers.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.breakers))
	for name := range r.breakers {
		names = append(names, name)
	}
	return names
}

// GetAllStatus returns a snapshot of every registered breaker, keyed by
// name.
func (r *Registry) GetAllStatus() map[string]Status {
	r.mu.RLock()
	breakers := make([]*Breaker, 0, len(r.breakers))
	for _, b := range r.breakers {
		breakers = append(breakers, b)
	}
	r.mu.RUnlock()

	out := make(map[string]Status, len(breakers))
	for _, b := range breakers {
		s := b.Status()
		out[s.Name] = s
	}
	return out
}
