// Package powerflex describes the resource types of the storage platform
// gateway.
//
// Every type is a resource.Descriptor. The descriptors only declare
// parameters, gateway attributes and calls; reconciliation is the same for
// all of them.
package powerflex

import (
	"context"
	"strconv"

	"github.com/func/flexconf/resource"
	"github.com/zclconf/go-cty/cty"
)

// Descriptors returns the descriptors of all supported resource types.
func Descriptors() []*resource.Descriptor {
	return []*resource.Descriptor{
		ProtectionDomain,
		FaultSet,
		SDC,
		SDS,
		StoragePool,
		Volume,
		Snapshot,
		NVMeHost,
		SDT,
		ReplicationConsistencyGroup,
	}
}

// Register registers all resource types.
func Register(reg *resource.Registry) {
	for _, d := range Descriptors() {
		reg.Register(d)
	}
}

func ident(name string, aliases ...string) resource.Param {
	return resource.Param{Name: name, Type: cty.String, Ident: true, Aliases: aliases}
}

func str(name, rules string) resource.Param {
	return resource.Param{Name: name, Type: cty.String, Validate: rules}
}

func num(name, rules string) resource.Param {
	return resource.Param{Name: name, Type: cty.Number, Validate: rules}
}

func boolean(name string) resource.Param {
	return resource.Param{Name: name, Type: cty.Bool}
}

// endpoints is the type of ip lists with a role per address.
var endpoints = cty.List(cty.Object(map[string]cty.Type{
	"ip":   cty.String,
	"role": cty.String,
}))

// protectionDomainScope is the scope of types named uniquely within a
// protection domain.
func protectionDomainScope() *resource.Scope {
	return &resource.Scope{
		Type:      "protection_domain",
		Kind:      "ProtectionDomain",
		NameParam: "protection_domain_name",
		IDParam:   "protection_domain_id",
		Attr:      "protectionDomainId",
		Required:  true,
	}
}

func protectionDomainParams() []resource.Param {
	return []resource.Param{
		ident("protection_domain_name"),
		ident("protection_domain_id"),
	}
}

// rename returns the group renaming an entity with action. The new name is
// sent in the field key.
func rename(kind, param, action, key string) resource.Group {
	return resource.Group{
		Name:   "rename",
		Fields: []resource.Field{{Param: param, Attr: "name"}},
		Apply: func(ctx context.Context, c resource.Client, snap resource.Snapshot, d resource.Desired) error {
			return c.Action(ctx, kind, snap.ID(), action, map[string]interface{}{
				key: d.String(param),
			})
		},
	}
}

// set returns a group setting a single attribute with action. The value is
// sent in the field key, converted by conv if set.
func set(name, kind string, f resource.Field, action, key string, conv func(interface{}) interface{}) resource.Group {
	return resource.Group{
		Name:   name,
		Fields: []resource.Field{f},
		Apply: func(ctx context.Context, c resource.Client, snap resource.Snapshot, d resource.Desired) error {
			v := d[f.Param]
			if conv != nil {
				v = conv(v)
			}
			return c.Action(ctx, kind, snap.ID(), action, map[string]interface{}{key: v})
		},
	}
}

// toggle returns a group calling on or off depending on a desired boolean.
// Compare reports whether the snapshot is in the enabled state.
func toggle(name, kind, param, on, off string, enabled func(resource.Snapshot) bool) resource.Group {
	return resource.Group{
		Name:   name,
		Fields: []resource.Field{{Param: param}},
		Compare: func(snap resource.Snapshot, d resource.Desired) bool {
			return d.Has(param) && d.Bool(param) != enabled(snap)
		},
		Apply: func(ctx context.Context, c resource.Client, snap resource.Snapshot, d resource.Desired) error {
			action := off
			if d.Bool(param) {
				action = on
			}
			return c.Action(ctx, kind, snap.ID(), action, nil)
		},
	}
}

// attrTrue returns a function reporting whether a boolean attribute is set.
// The gateway reports some booleans as strings.
func attrTrue(attr string) func(resource.Snapshot) bool {
	return func(snap resource.Snapshot) bool {
		switch v := snap[attr].(type) {
		case bool:
			return v
		case string:
			b, _ := strconv.ParseBool(v)
			return b
		}
		return false
	}
}

// number returns a numeric attribute, which the gateway reports either as a
// number or as a string.
func number(snap resource.Snapshot, attr string) float64 {
	switch v := snap[attr].(type) {
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return 0
}

// asString formats numbers the way the gateway expects them in request
// bodies.
func asString(v interface{}) interface{} {
	switch vv := v.(type) {
	case float64:
		return strconv.FormatFloat(vv, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(vv)
	}
	return v
}

// endpointList converts a desired ip list to the request format.
func endpointList(d resource.Desired, param, wrap string) []interface{} {
	list, _ := d[param].([]interface{})
	out := make([]interface{}, 0, len(list))
	for _, e := range list {
		m, _ := e.(map[string]interface{})
		ep := map[string]interface{}{"ip": m["ip"], "role": m["role"]}
		if wrap != "" {
			out = append(out, map[string]interface{}{wrap: ep})
			continue
		}
		out = append(out, ep)
	}
	return out
}
