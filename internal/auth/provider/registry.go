package provider

import (
	"fmt"
	"sort"
)

// Registry looks up configured identity providers by name.
type Registry struct {
	providers map[string]OAuthProvider
}

// NewRegistry registers the given providers. A later provider with the
// same name replaces an earlier one; use Register to detect clashes.
func NewRegistry(list ...OAuthProvider) *Registry {
	r := &Registry{providers: make(map[string]OAuthProvider, len(list))}
	for _, p := range list {
		r.providers[p.Name()] = p
	}
	return r
}

// Register adds p, refusing a name that is already taken.
func (r *Registry) Register(p OAuthProvider) error {
	if _, exists := r.providers[p.Name()]; exists {
		return fmt.Errorf("oauth provider %s already registered", p.Name())
	}
	r.providers[p.Name()] = p
	return nil
}

func (r *Registry) Get(name string) (OAuthProvider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown oauth provider: %s", name)
	}
	return p, nil
}

// Names lists the registered providers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
