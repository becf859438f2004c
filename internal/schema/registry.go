package schema

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/unicode/norm"
)

// ErrUnknownAttribute is returned (wrapped) by Resolve for unregistered names.
var ErrUnknownAttribute = errors.New("unknown attribute")

// Resolver looks up attributes by name.
type Resolver interface {
	Resolve(name string) (Attribute, error)
}

// Registry maps attribute names to descriptors.
//
// Thread-safety: Registry is safe for concurrent use. Registration is
// expected to finish before parsing starts; lookups take a read lock only.
type Registry struct {
	mu    sync.RWMutex
	attrs map[string]Attribute
}

// NewRegistry creates a registry holding the given attributes.
// Panics on duplicate names; use Register for error handling.
func NewRegistry(attrs ...Attribute) *Registry {
	r := &Registry{attrs: make(map[string]Attribute, len(attrs))}
	for _, a := range attrs {
		if err := r.Register(a); err != nil {
			panic(err)
		}
	}
	return r
}

// Build creates a registry from loader definitions.
func Build(defs []Definition) (*Registry, error) {
	r := &Registry{attrs: make(map[string]Attribute, len(defs))}
	for _, d := range defs {
		attr, err := d.Attribute()
		if err != nil {
			return nil, err
		}
		if err := r.Register(attr); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an attribute. Names are NFC normalized; registering the
// same name twice is an error.
func (r *Registry) Register(a Attribute) error {
	if a.Name == "" {
		return fmt.Errorf("attribute name is required")
	}
	if !ValidValueTypes[a.Type] {
		return fmt.Errorf("attribute %q: unsupported type %q", a.Name, a.Type)
	}

	key := norm.NFC.String(a.Name)
	a.Name = key

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.attrs == nil {
		r.attrs = make(map[string]Attribute)
	}
	if _, exists := r.attrs[key]; exists {
		return fmt.Errorf("duplicate attribute name: %q", a.Name)
	}
	r.attrs[key] = a
	return nil
}

// Resolve returns the attribute registered under name.
// The returned error wraps ErrUnknownAttribute.
func (r *Registry) Resolve(name string) (Attribute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	attr, ok := r.attrs[norm.NFC.String(name)]
	if !ok {
		return Attribute{}, fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
	}
	return attr, nil
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.attrs))
	for name := range r.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Attributes returns all registered attributes sorted by name.
func (r *Registry) Attributes() []Attribute {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Attribute, 0, len(names))
	for _, name := range names {
		out = append(out, r.attrs[name])
	}
	return out
}

// Len returns the number of registered attributes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.attrs)
}

// Suggest returns up to limit registered names closest to name, best first.
func (r *Registry) Suggest(name string, limit int) []string {
	ranks := fuzzy.RankFindFold(name, r.Names())
	if len(ranks) == 0 {
		// RankFindFold only matches subsequences; fall back to the reverse
		// direction so "manufacturers" still suggests "manufacturer".
		for _, candidate := range r.Names() {
			if fuzzy.MatchFold(candidate, name) {
				ranks = append(ranks, fuzzy.Rank{Target: candidate, Distance: len(name) - len(candidate)})
			}
		}
	}
	sort.Sort(ranks)

	out := make([]string, 0, limit)
	for _, rank := range ranks {
		if len(out) == limit {
			break
		}
		out = append(out, rank.Target)
	}
	return out
}
