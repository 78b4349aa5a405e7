package resource

import (
	"fmt"
	"sort"

	"github.com/func/flexconf/suggest"
)

// A Registry maintains a list of registered resource types.
type Registry struct {
	descriptors map[string]*Descriptor
}

// RegistryFromDescriptors creates a new registry from a predefined list of
// descriptors. It should primarily used in tests to set up a registry.
func RegistryFromDescriptors(descs ...*Descriptor) *Registry {
	r := &Registry{}
	for _, d := range descs {
		r.Register(d)
	}
	return r
}

// Register adds a new resource type.
//
// If another descriptor with the same type is already registered, it is
// overwritten. Panics if the descriptor has no type or neither a name nor an
// id parameter.
//
// Not safe for concurrent access.
func (r *Registry) Register(d *Descriptor) {
	if d.Type == "" {
		panic("Descriptor type not set")
	}
	if d.NameParam == "" && d.IDParam == "" {
		panic(fmt.Sprintf("Descriptor %s has no identifying parameter", d.Type))
	}
	if r.descriptors == nil {
		r.descriptors = make(map[string]*Descriptor)
	}
	r.descriptors[d.Type] = d
}

// A NotSupportedError is returned when attempting to get a resource type that
// has not been registered.
type NotSupportedError struct {
	Type       string
	Suggestion string
}

func (e NotSupportedError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("resource type %q is not supported, did you mean %q?", e.Type, e.Suggestion)
	}
	return fmt.Sprintf("resource type %q is not supported", e.Type)
}

// Get returns the descriptor for a type. Returns a NotSupportedError if the
// type has not been registered.
func (r *Registry) Get(typename string) (*Descriptor, error) {
	d, ok := r.descriptors[typename]
	if !ok {
		return nil, NotSupportedError{Type: typename, Suggestion: r.SuggestType(typename)}
	}
	return d, nil
}

// Types returns the type names that have been registered. The results are
// lexicographically sorted.
func (r *Registry) Types() []string {
	tt := make([]string, 0, len(r.descriptors))
	for k := range r.descriptors {
		tt = append(tt, k)
	}
	sort.Strings(tt)
	return tt
}

// SuggestType returns the registered type closest to the given name. Returns
// an empty string if nothing is close enough.
func (r *Registry) SuggestType(typename string) string {
	return suggest.String(typename, r.Types())
}
