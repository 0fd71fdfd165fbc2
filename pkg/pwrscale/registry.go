package pwrscale

import (
	"fmt"
	"strings"
)

// Registry is the ordered, immutable set of policies available for
// attachment. It is safe for concurrent use without locking.
type Registry struct {
	policies []*Policy
	byName   map[string]*Policy
}

// NewRegistry builds a registry from policies, in order.
// It rejects nil policies, empty or duplicate names and the reserved name
// "none".
func NewRegistry(policies ...*Policy) (*Registry, error) {
	r := &Registry{
		policies: make([]*Policy, 0, len(policies)),
		byName:   make(map[string]*Policy, len(policies)),
	}

	for i, p := range policies {
		if p == nil {
			return nil, fmt.Errorf("%w: entry %d is nil", ErrInvalidPolicy, i)
		}
		if p.Name == "" || strings.TrimSpace(p.Name) != p.Name || strings.ContainsAny(p.Name, " \t\n/") {
			return nil, fmt.Errorf("%w: entry %d has name %q", ErrInvalidPolicy, i, p.Name)
		}
		if strings.HasPrefix(p.Name, NoneName) {
			// Such a name could never be selected through the property surface.
			return nil, fmt.Errorf("%w: %s", ErrReservedName, p.Name)
		}
		if _, exists := r.byName[p.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePolicy, p.Name)
		}
		r.byName[p.Name] = p
		r.policies = append(r.policies, p)
	}

	return r, nil
}

// MustRegistry is like NewRegistry but panics on error. It is intended for
// package-level registries built at startup.
func MustRegistry(policies ...*Policy) *Registry {
	r, err := NewRegistry(policies...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the policy registered under exactly name.
func (r *Registry) Lookup(name string) (*Policy, bool) {
	if r == nil {
		return nil, false
	}
	p, ok := r.byName[name]
	return p, ok
}

// Names returns the registered names in registration order.
// The "none" keyword is not included.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.policies))
	for i, p := range r.policies {
		names[i] = p.Name
	}
	return names
}

// Policies returns the registered policies in registration order.
func (r *Registry) Policies() []*Policy {
	if r == nil {
		return nil
	}
	result := make([]*Policy, len(r.policies))
	copy(result, r.policies)
	return result
}

// Len returns the number of registered policies.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.policies)
}
