package audit

import (
	"context"
	"sort"
	"sync"
)

// EntityLookup fetches the current persisted state of an entity for pre-state capture
type EntityLookup interface {
	GetByID(ctx context.Context, id uint) (any, error)
}

// LookupFunc adapts a function to EntityLookup
type LookupFunc func(ctx context.Context, id uint) (any, error)

func (f LookupFunc) GetByID(ctx context.Context, id uint) (any, error) {
	return f(ctx, id)
}

// Lookup adapts a typed getter, such as a service's Get method, to EntityLookup
func Lookup[T any](get func(ctx context.Context, id uint) (T, error)) EntityLookup {
	return LookupFunc(func(ctx context.Context, id uint) (any, error) {
		entity, err := get(ctx, id)
		if err != nil {
			return nil, err
		}
		return entity, nil
	})
}

// Registry maps entity types to their lookups. It is populated at startup.
type Registry struct {
	mu      sync.RWMutex
	lookups map[EntityType]EntityLookup
}

func NewRegistry() *Registry {
	return &Registry{lookups: make(map[EntityType]EntityLookup)}
}

// Register binds a lookup to an entity type, replacing any previous binding
func (r *Registry) Register(entityType EntityType, lookup EntityLookup) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups[entityType] = lookup
}

func (r *Registry) Lookup(entityType EntityType) (EntityLookup, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.lookups[entityType]
	return l, ok
}

// Types lists the registered entity types in name order
func (r *Registry) Types() []EntityType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]EntityType, 0, len(r.lookups))
	for t := range r.lookups {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
