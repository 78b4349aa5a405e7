package powerflex

import (
	"context"

	"github.com/func/flexconf/resource"
)

// SDS is a data server within a protection domain.
//
// The ip list is only used on create.
var SDS = &resource.Descriptor{
	Type: "sds",
	Kind: "Sds",
	Params: append([]resource.Param{
		ident("sds_name"),
		ident("sds_id"),
		ident("sds_new_name"),
		ident("fault_set_id"),
		{Name: "sds_ip_list", Type: endpoints, Validate: "min=1"},
		boolean("rmcache_enabled"),
		num("rmcache_size", "min=128,max=65536"),
		str("performance_profile", "oneof=Compact HighPerformance"),
	}, protectionDomainParams()...),
	NameParam:    "sds_name",
	IDParam:      "sds_id",
	Scope:        protectionDomainScope(),
	CreateFields: []string{"sds_ip_list"},
	Create: func(ctx context.Context, c resource.Client, req *resource.CreateRequest) (string, error) {
		body := map[string]interface{}{
			"name":               req.Name,
			"protectionDomainId": req.ScopeID,
			"sdsIpList":          endpointList(req.Desired, "sds_ip_list", "SdsIp"),
		}
		if req.Desired.Has("fault_set_id") {
			body["faultSetId"] = req.Desired.String("fault_set_id")
		}
		return c.Create(ctx, "Sds", body)
	},
	Groups: []resource.Group{
		rename("Sds", "sds_new_name", "setSdsName", "name"),
		set("rmcache", "Sds",
			resource.Field{Param: "rmcache_enabled", Attr: "rmcacheEnabled"},
			"setSdsRmcacheEnabled", "rmcacheEnabled", asString),
		{
			Name:   "rmcache_size",
			Fields: []resource.Field{{Param: "rmcache_size", Attr: "rmcacheSizeInKb"}},
			Compare: func(snap resource.Snapshot, d resource.Desired) bool {
				return d.Has("rmcache_size") && d.Number("rmcache_size")*1024 != number(snap, "rmcacheSizeInKb")
			},
			Apply: func(ctx context.Context, c resource.Client, snap resource.Snapshot, d resource.Desired) error {
				return c.Action(ctx, "Sds", snap.ID(), "setSdsRmcacheSize", map[string]interface{}{
					"rmcacheSizeInMB": asString(d["rmcache_size"]),
				})
			},
		},
		set("performance_profile", "Sds",
			resource.Field{Param: "performance_profile", Attr: "perfProfile", Fold: true},
			"setSdsPerformanceParameters", "perfProfile", nil),
	},
	DeleteAction: "removeSds",
}
