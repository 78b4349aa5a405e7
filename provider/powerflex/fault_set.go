package powerflex

import (
	"context"

	"github.com/func/flexconf/resource"
)

// FaultSet is a fault set within a protection domain.
var FaultSet = &resource.Descriptor{
	Type: "fault_set",
	Kind: "FaultSet",
	Params: append([]resource.Param{
		ident("fault_set_name"),
		ident("fault_set_id"),
		ident("fault_set_new_name"),
	}, protectionDomainParams()...),
	NameParam: "fault_set_name",
	IDParam:   "fault_set_id",
	Scope:     protectionDomainScope(),
	Create: func(ctx context.Context, c resource.Client, req *resource.CreateRequest) (string, error) {
		return c.Create(ctx, "FaultSet", map[string]interface{}{
			"name":               req.Name,
			"protectionDomainId": req.ScopeID,
		})
	},
	Groups: []resource.Group{
		rename("FaultSet", "fault_set_new_name", "setFaultSetName", "newName"),
	},
	DeleteAction: "removeFaultSet",
}
