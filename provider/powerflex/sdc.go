package powerflex

import (
	"github.com/func/flexconf/resource"
)

// SDC is a data client. Clients register themselves with the cluster when
// installed, so they cannot be created.
var SDC = &resource.Descriptor{
	Type: "sdc",
	Kind: "Sdc",
	Params: []resource.Param{
		ident("sdc_name"),
		ident("sdc_id"),
		ident("sdc_new_name"),
		str("performance_profile", "oneof=Compact HighPerformance"),
	},
	NameParam: "sdc_name",
	IDParam:   "sdc_id",
	Groups: []resource.Group{
		rename("Sdc", "sdc_new_name", "setSdcName", "sdcName"),
		set("performance_profile", "Sdc",
			resource.Field{Param: "performance_profile", Attr: "perfProfile", Fold: true},
			"setSdcPerformanceParameters", "perfProfile", nil),
	},
	DeleteAction: "removeSdc",
}
