package powerflex

import (
	"context"

	"github.com/func/flexconf/resource"
)

// NVMeHost is a host connecting over NVMe/TCP. Requires gateway 4.0.
var NVMeHost = &resource.Descriptor{
	Type: "nvme_host",
	Kind: "Host",
	Params: []resource.Param{
		ident("host_name"),
		ident("host_id"),
		ident("host_new_name"),
		str("nqn", "notblank"),
		num("max_num_paths", "min=1,max=16"),
		num("max_num_sys_ports", "min=1,max=10"),
	},
	NameParam:    "host_name",
	IDParam:      "host_id",
	CreateFields: []string{"nqn"},
	Create: func(ctx context.Context, c resource.Client, req *resource.CreateRequest) (string, error) {
		body := map[string]interface{}{
			"name": req.Name,
			"nqn":  req.Desired.String("nqn"),
		}
		if req.Desired.Has("max_num_paths") {
			body["maxNumPaths"] = asString(req.Desired["max_num_paths"])
		}
		if req.Desired.Has("max_num_sys_ports") {
			body["maxNumSysPorts"] = asString(req.Desired["max_num_sys_ports"])
		}
		return c.Create(ctx, "Host", body)
	},
	Groups: []resource.Group{
		rename("Host", "host_new_name", "modifySdcName", "newName"),
		set("max_num_paths", "Host",
			resource.Field{Param: "max_num_paths", Attr: "maxNumPaths"},
			"modifyMaxNumPaths", "newMaxNumPaths", asString),
		set("max_num_sys_ports", "Host",
			resource.Field{Param: "max_num_sys_ports", Attr: "maxNumSysPorts"},
			"modifyMaxNumSysPorts", "newMaxNumSysPorts", asString),
	},
	DeleteAction: "removeSdc",
	MinVersion:   "4.0",
}
