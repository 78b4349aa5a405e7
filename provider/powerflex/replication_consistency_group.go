package powerflex

import (
	"context"

	"github.com/func/flexconf/resource"
)

// ReplicationConsistencyGroup replicates volumes of a local protection
// domain to a peer system. Names are unique per system.
var ReplicationConsistencyGroup = &resource.Descriptor{
	Type: "replication_consistency_group",
	Kind: "ReplicationConsistencyGroup",
	Params: []resource.Param{
		ident("rcg_name"),
		ident("rcg_id"),
		ident("rcg_new_name"),
		ident("protection_domain_id"),
		ident("remote_protection_domain_id"),
		ident("destination_system_id"),
		num("rpo", "min=15,max=3600"),
		boolean("pause"),
	},
	NameParam: "rcg_name",
	IDParam:   "rcg_id",
	CreateFields: []string{
		"rpo",
		"protection_domain_id",
		"remote_protection_domain_id",
		"destination_system_id",
	},
	Create: func(ctx context.Context, c resource.Client, req *resource.CreateRequest) (string, error) {
		return c.Create(ctx, "ReplicationConsistencyGroup", map[string]interface{}{
			"name":                     req.Name,
			"rpoInSeconds":             asString(req.Desired["rpo"]),
			"protectionDomainId":       req.Desired.String("protection_domain_id"),
			"remoteProtectionDomainId": req.Desired.String("remote_protection_domain_id"),
			"destinationSystemId":      req.Desired.String("destination_system_id"),
		})
	},
	Groups: []resource.Group{
		rename("ReplicationConsistencyGroup", "rcg_new_name", "renameReplicationConsistencyGroup", "newName"),
		set("rpo", "ReplicationConsistencyGroup",
			resource.Field{Param: "rpo", Attr: "rpoInSeconds"},
			"modifyReplicationConsistencyGroupRpo", "rpoInSeconds", asString),
		{
			Name:   "pause",
			Fields: []resource.Field{{Param: "pause"}},
			Compare: func(snap resource.Snapshot, d resource.Desired) bool {
				paused := snap.String("pauseMode") != "" && snap.String("pauseMode") != "None"
				return d.Has("pause") && d.Bool("pause") != paused
			},
			Apply: func(ctx context.Context, c resource.Client, snap resource.Snapshot, d resource.Desired) error {
				if d.Bool("pause") {
					return c.Action(ctx, "ReplicationConsistencyGroup", snap.ID(), "pauseReplicationConsistencyGroup",
						map[string]interface{}{"pauseMode": "StopDataTransfer"})
				}
				return c.Action(ctx, "ReplicationConsistencyGroup", snap.ID(), "resumeReplicationConsistencyGroup", nil)
			},
		},
	},
	DeleteAction: "removeReplicationConsistencyGroup",
}
