package recipe

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var defaultRegistry = NewRegistry()

// Registry manages registered recipes keyed by activation name.
type Registry struct {
	mu      sync.RWMutex
	recipes map[string]Recipe
}

// NewRegistry creates a new empty recipe registry.
func NewRegistry() *Registry {
	return &Registry{recipes: make(map[string]Recipe)}
}

// DefaultRegistry returns the global default registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a recipe to the default registry.
func Register(r Recipe) {
	defaultRegistry.Register(r)
}

// Register adds a recipe to the registry, replacing any recipe with the same name.
func (r *Registry) Register(rec Recipe) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipes[rec.Name()] = rec
}

// All returns all registered recipes sorted by name.
func (r *Registry) All() []Recipe {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Recipe, 0, len(r.recipes))
	for _, rec := range r.recipes {
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result
}

// Find returns the recipe registered under name, or nil.
func (r *Registry) Find(name string) Recipe {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.recipes[name]
}

// Lookup returns the recipe registered under name or an error wrapping
// ErrUnknownRecipe. Names are matched exactly first, then by unique suffix
// after a dot, so "AssertToAssertions" finds "specvital.junit5.AssertToAssertions".
func (r *Registry) Lookup(name string) (Recipe, error) {
	if rec := r.Find(name); rec != nil {
		return rec, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []Recipe
	for fqn, rec := range r.recipes {
		if strings.HasSuffix(fqn, "."+name) {
			matches = append(matches, rec)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrUnknownRecipe, name)
	default:
		return nil, fmt.Errorf("%w: %s is ambiguous", ErrUnknownRecipe, name)
	}
}

// Clear removes all registered recipes.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipes = make(map[string]Recipe)
}
