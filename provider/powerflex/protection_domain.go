package powerflex

import (
	"context"

	"github.com/func/flexconf/resource"
)

// ProtectionDomain is a protection domain. Protection domains are global, so
// they have no scope.
var ProtectionDomain = &resource.Descriptor{
	Type: "protection_domain",
	Kind: "ProtectionDomain",
	Params: []resource.Param{
		ident("protection_domain_name"),
		ident("protection_domain_id"),
		ident("protection_domain_new_name"),
		boolean("is_active"),
		num("rebuild_limit", "min=0"),
		num("rebalance_limit", "min=0"),
		num("vtree_migration_limit", "min=0"),
		num("overall_limit", "min=0"),
	},
	NameParam: "protection_domain_name",
	IDParam:   "protection_domain_id",
	Create: func(ctx context.Context, c resource.Client, req *resource.CreateRequest) (string, error) {
		return c.Create(ctx, "ProtectionDomain", map[string]interface{}{"name": req.Name})
	},
	Groups: []resource.Group{
		rename("ProtectionDomain", "protection_domain_new_name", "setProtectionDomainName", "name"),
		{
			Name: "network_limits",
			Fields: []resource.Field{
				{Param: "rebuild_limit", Attr: "rebuildNetworkThrottlingInKbps"},
				{Param: "rebalance_limit", Attr: "rebalanceNetworkThrottlingInKbps"},
				{Param: "vtree_migration_limit", Attr: "vtreeMigrationNetworkThrottlingInKbps"},
				{Param: "overall_limit", Attr: "overallIoNetworkThrottlingInKbps"},
			},
			Apply: func(ctx context.Context, c resource.Client, snap resource.Snapshot, d resource.Desired) error {
				body := make(map[string]interface{})
				for param, key := range map[string]string{
					"rebuild_limit":         "rebuildLimitInKbps",
					"rebalance_limit":       "rebalanceLimitInKbps",
					"vtree_migration_limit": "vtreeMigrationLimitInKbps",
					"overall_limit":         "overallLimitInKbps",
				} {
					if d.Has(param) {
						body[key] = asString(d[param])
					}
				}
				return c.Action(ctx, "ProtectionDomain", snap.ID(), "setSdsNetworkLimits", body)
			},
		},
		// Activation is applied last.
		toggle("state", "ProtectionDomain", "is_active", "activateProtectionDomain", "inactivateProtectionDomain",
			func(snap resource.Snapshot) bool {
				return snap.String("protectionDomainState") == "Active"
			}),
	},
	DeleteAction: "removeProtectionDomain",
}
