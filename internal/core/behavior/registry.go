package behavior

import (
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
)

// Factory returns a new, empty behavior of one kind.
type Factory[C any] func() Behavior[C]

// Registry maps behavior kinds to factories. It is safe for concurrent use
// and may be shared by many trees.
type Registry[C any] struct {
	mu        sync.RWMutex
	factories map[string]Factory[C]
}

func NewRegistry[C any]() *Registry[C] {
	return &Registry[C]{factories: make(map[string]Factory[C])}
}

// Register adds or replaces the factory for kind.
func (r *Registry[C]) Register(kind string, factory Factory[C]) {
	r.mu.Lock()
	r.factories[kind] = factory
	r.mu.Unlock()
}

// New builds an empty behavior of the given kind.
func (r *Registry[C]) New(kind string) (Behavior[C], error) {
	r.mu.RLock()
	f := r.factories[kind]
	r.mu.RUnlock()
	if f == nil {
		return nil, errors.Wrapf(ErrUnknownBehavior, "%q", kind)
	}
	b := f()
	if b == nil || b.Kind() != kind {
		return nil, errors.Wrapf(ErrBehaviorMismatch, "factory for %q", kind)
	}
	return b, nil
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry[C]) Kinds() []string {
	r.mu.RLock()
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	r.mu.RUnlock()
	sort.Strings(kinds)
	return kinds
}
