package resource

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// A Descriptor describes how a resource type is reconciled.
//
// The reconciliation procedure is the same for every type; the descriptor
// supplies the parts that differ: parameters, how entities are looked up,
// what is needed to create one and which attribute groups can be changed.
type Descriptor struct {
	// Type is the name used in configuration, for example fault_set.
	Type string

	// Kind is the object type in the gateway API, for example FaultSet.
	Kind string

	// Match reports whether an object of Kind is an entity of this type.
	// It is needed when several types share a kind. If nil, every object
	// matches.
	Match func(Snapshot) bool

	// Params declares all accepted parameters. The state parameter is
	// implicit and must not be declared.
	Params []Param

	// NameParam and IDParam name the parameters identifying the entity.
	// NameParam may be empty for types that can only be referenced by id.
	NameParam string
	IDParam   string

	// Scope is set for types whose names are only unique within a parent.
	Scope *Scope

	// Exclusive lists additional sets of mutually exclusive parameters.
	Exclusive [][]string

	// CreateFields are the desired parameters that must be set for the
	// entity to be created. The name is always required.
	CreateFields []string

	// Create issues the create call and returns the id of the new entity.
	// If nil, entities of this type cannot be created and must exist.
	Create func(ctx context.Context, c Client, req *CreateRequest) (string, error)

	// Groups are the independently mutable attribute groups, in the order
	// their mutations must be issued.
	Groups []Group

	// DeleteAction is the gateway action removing an entity.
	DeleteAction string

	// Delete overrides the default delete call. Optional.
	Delete func(ctx context.Context, c Client, snap Snapshot) error

	// MinVersion and MaxVersion bound the gateway versions the type
	// supports. Either may be empty.
	MinVersion, MaxVersion string
}

// DetailsKey is the key the final snapshot is reported under.
func (d *Descriptor) DetailsKey() string { return d.Type + "_details" }

// Param returns the declared parameter with the given canonical name.
func (d *Descriptor) Param(name string) (Param, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// A Param declares a parameter accepted by a resource type.
type Param struct {
	Name     string
	Type     cty.Type // Values are converted to this type.
	Aliases  []string // Legacy names resolving to the same slot.
	Required bool
	Validate string // Validation rules, for example "min=1,max=32".
	Ident    bool   // Identifiers may not be whitespace only.
}

// A Scope describes the parent that qualifies entity names.
type Scope struct {
	Type      string // Parent type, for example protection_domain.
	Kind      string // Parent object kind in the gateway API.
	NameParam string
	IDParam   string
	Attr      string // Snapshot attribute holding the parent id.

	// Match reports whether an object of Kind can be the parent. If nil,
	// every object matches.
	Match func(Snapshot) bool

	// Required is set if creates are not possible without the scope. Name
	// lookups without the scope match entities under any parent.
	Required bool
}

// A CreateRequest is passed to Descriptor.Create.
type CreateRequest struct {
	Name    string
	ScopeID string
	Desired Desired
}

// A Group is a set of attributes that is changed with a single call.
type Group struct {
	Name   string
	Fields []Field

	// Compare overrides the default comparison of Fields. It returns true
	// if the snapshot differs from the desired state.
	Compare func(snap Snapshot, d Desired) bool

	// Check rejects desired values the group can never converge to, such
	// as shrinking a volume. It runs for every differing group before the
	// first mutation is issued. Optional.
	Check func(snap Snapshot, d Desired) error

	// Apply issues the mutation call.
	Apply func(ctx context.Context, c Client, snap Snapshot, d Desired) error
}

// Changed returns true if any of the desired values in the group differs
// from the snapshot. Fields without a desired value are ignored.
func (g *Group) Changed(snap Snapshot, d Desired) bool {
	if g.Compare != nil {
		return g.Compare(snap, d)
	}
	for _, f := range g.Fields {
		if !d.Has(f.Param) {
			continue
		}
		if !f.Equal(d[f.Param], snap[f.Attr]) {
			return true
		}
	}
	return false
}

// Params returns the parameter names in the group.
func (g *Group) Params() []string {
	out := make([]string, len(g.Fields))
	for i, f := range g.Fields {
		out[i] = f.Param
	}
	return out
}

// A Field maps a parameter to a snapshot attribute.
type Field struct {
	Param string
	Attr  string

	Fold      bool // Compare strings case insensitively.
	Unordered bool // Compare lists regardless of order.
}

// Matches reports whether snap is an entity of this type.
func (d *Descriptor) Matches(snap Snapshot) bool {
	return d.Match == nil || d.Match(snap)
}
