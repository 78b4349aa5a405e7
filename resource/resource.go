package resource

import (
	"fmt"
	"strings"
)

// A Ref identifies a remote entity, either by its name or by its id.
//
// Names are mutable and only unique within a scope. Ids are immutable and
// globally unique.
type Ref struct {
	Name string
	ID   string
}

// IsZero returns true if neither name nor id is set.
func (r Ref) IsZero() bool { return r.Name == "" && r.ID == "" }

func (r Ref) String() string {
	if r.ID != "" {
		return fmt.Sprintf("id %q", r.ID)
	}
	return fmt.Sprintf("%q", r.Name)
}

// A ScopeRef is a reference to a parent entity that disambiguates the names
// of its children.
type ScopeRef struct {
	Type string // Parent type, as registered in the descriptor's scope.
	Ref
}

// A Snapshot is the full attribute set of a live remote entity, as decoded
// from the gateway.
//
// A snapshot is owned by a single reconciliation. It is stale as soon as a
// mutating call has been issued against the entity.
type Snapshot map[string]interface{}

// ID returns the entity id.
func (s Snapshot) ID() string { return s.String("id") }

// Name returns the entity name.
func (s Snapshot) Name() string { return s.String("name") }

// String returns the value of key if it is a string. Returns an empty string
// if the key is not set or is not a string.
func (s Snapshot) String(key string) string {
	v, _ := s[key].(string)
	return v
}

// Desired maps canonical parameter names to the values they must have after
// reconciliation. Parameters without an opinion are not present in the map.
type Desired map[string]interface{}

// Has returns true if a value is desired for the parameter.
func (d Desired) Has(param string) bool {
	v, ok := d[param]
	return ok && v != nil
}

// String returns the desired string value for param.
func (d Desired) String(param string) string {
	v, _ := d[param].(string)
	return v
}

// Number returns the desired numeric value for param.
func (d Desired) Number(param string) float64 {
	v, _ := d[param].(float64)
	return v
}

// Bool returns the desired boolean value for param.
func (d Desired) Bool(param string) bool {
	v, _ := d[param].(bool)
	return v
}

// Strings returns the desired list of strings for param.
func (d Desired) Strings(param string) []string {
	list, _ := d[param].([]interface{})
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// State is the convergence target of an invocation.
type State string

// Valid states.
const (
	Present State = "present" // The entity must exist when done.
	Absent  State = "absent"  // The entity must not exist when done.
)

// An Input is a validated reconciliation request.
type Input struct {
	State   State
	Ref     Ref
	Scope   ScopeRef
	Desired Desired
}

// ExistsRequired returns true if the entity must exist at the end.
func (in *Input) ExistsRequired() bool { return in.State != Absent }

// A ChangeRecord is the outcome of a reconciliation.
type ChangeRecord struct {
	Changed  bool
	Snapshot Snapshot // Final state, empty after a delete.
	Warnings []string
	Skipped  bool // Set when the invocation was skipped by a pre-flight check.
}

// Details returns the record in the shape reported to the caller. The
// snapshot is set under key, which is typically <type>_details.
func (c *ChangeRecord) Details(key string) map[string]interface{} {
	snap := c.Snapshot
	if snap == nil {
		snap = Snapshot{}
	}
	out := map[string]interface{}{
		"changed": c.Changed,
		key:       snap,
	}
	if len(c.Warnings) > 0 {
		out["warnings"] = c.Warnings
	}
	if c.Skipped {
		out["skipped"] = true
	}
	return out
}

// blank returns true for strings that only contain whitespace.
func blank(s string) bool { return s != "" && strings.TrimSpace(s) == "" }
