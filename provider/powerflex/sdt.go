package powerflex

import (
	"context"

	"github.com/func/flexconf/resource"
)

// SDT is an NVMe target within a protection domain. Requires gateway 4.0.
//
// The ip list is only used on create.
var SDT = &resource.Descriptor{
	Type: "sdt",
	Kind: "Sdt",
	Params: append([]resource.Param{
		ident("sdt_name"),
		ident("sdt_id"),
		ident("sdt_new_name"),
		{Name: "sdt_ip_list", Type: endpoints, Validate: "min=1"},
		num("storage_port", "min=1,max=65535"),
		num("nvme_port", "min=1,max=65535"),
		num("discovery_port", "min=1,max=65535"),
		boolean("maintenance_mode"),
	}, protectionDomainParams()...),
	NameParam:    "sdt_name",
	IDParam:      "sdt_id",
	Scope:        protectionDomainScope(),
	CreateFields: []string{"sdt_ip_list"},
	Create: func(ctx context.Context, c resource.Client, req *resource.CreateRequest) (string, error) {
		body := map[string]interface{}{
			"name":               req.Name,
			"protectionDomainId": req.ScopeID,
			"sdtIpList":          endpointList(req.Desired, "sdt_ip_list", ""),
		}
		for param, key := range map[string]string{
			"storage_port":   "storagePort",
			"nvme_port":      "nvmePort",
			"discovery_port": "discoveryPort",
		} {
			if req.Desired.Has(param) {
				body[key] = asString(req.Desired[param])
			}
		}
		return c.Create(ctx, "Sdt", body)
	},
	Groups: []resource.Group{
		rename("Sdt", "sdt_new_name", "renameSdt", "newName"),
		set("storage_port", "Sdt",
			resource.Field{Param: "storage_port", Attr: "storagePort"},
			"modifyStoragePort", "newStoragePort", asString),
		set("nvme_port", "Sdt",
			resource.Field{Param: "nvme_port", Attr: "nvmePort"},
			"modifyNvmePort", "newNvmePort", asString),
		set("discovery_port", "Sdt",
			resource.Field{Param: "discovery_port", Attr: "discoveryPort"},
			"modifyDiscoveryPort", "newDiscoveryPort", asString),
		toggle("maintenance", "Sdt", "maintenance_mode", "enterMaintenanceMode", "exitMaintenanceMode",
			func(snap resource.Snapshot) bool {
				return snap.String("maintenanceState") == "InMaintenance"
			}),
	},
	DeleteAction: "removeSdt",
	MinVersion:   "4.0",
}
