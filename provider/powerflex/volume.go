package powerflex

import (
	"context"
	"fmt"
	"math"

	"github.com/func/flexconf/resource"
)

// Volume sizes are allocated in multiples of this many GB.
const volumeGranularity = 8

const kbPerGB = 1024 * 1024

// Volume is a volume within a storage pool.
//
// The gateway rounds sizes up to the allocation granularity. A desired size
// is satisfied if it rounds up to the current size; volumes never shrink.
var Volume = &resource.Descriptor{
	Type:  "volume",
	Kind:  "Volume",
	Match: isPlainVolume,
	Params: []resource.Param{
		ident("volume_name", "vol_name"),
		ident("volume_id", "vol_id"),
		ident("volume_new_name"),
		ident("storage_pool_name"),
		ident("storage_pool_id"),
		num("size", "gt=0"),
		str("volume_type", "oneof=THICK_PROVISIONED THIN_PROVISIONED"),
		boolean("use_rmcache"),
	},
	NameParam: "volume_name",
	IDParam:   "volume_id",
	Scope: &resource.Scope{
		Type:      "storage_pool",
		Kind:      "StoragePool",
		NameParam: "storage_pool_name",
		IDParam:   "storage_pool_id",
		Attr:      "storagePoolId",
		Required:  true,
	},
	CreateFields: []string{"size"},
	Create: func(ctx context.Context, c resource.Client, req *resource.CreateRequest) (string, error) {
		body := map[string]interface{}{
			"name":           req.Name,
			"storagePoolId":  req.ScopeID,
			"volumeSizeInKb": asString(req.Desired.Number("size") * kbPerGB),
			"volumeType":     "ThinProvisioned",
		}
		if req.Desired.String("volume_type") == "THICK_PROVISIONED" {
			body["volumeType"] = "ThickProvisioned"
		}
		if req.Desired.Has("use_rmcache") {
			body["useRmcache"] = req.Desired.Bool("use_rmcache")
		}
		return c.Create(ctx, "Volume", body)
	},
	Groups: []resource.Group{
		rename("Volume", "volume_new_name", "setVolumeName", "newName"),
		{
			Name:   "size",
			Fields: []resource.Field{{Param: "size", Attr: "sizeInKb"}},
			Compare: func(snap resource.Snapshot, d resource.Desired) bool {
				return d.Has("size") && allocatedGB(d.Number("size")) != number(snap, "sizeInKb")/kbPerGB
			},
			Check: func(snap resource.Snapshot, d resource.Desired) error {
				cur := number(snap, "sizeInKb") / kbPerGB
				if allocatedGB(d.Number("size")) < cur {
					return resource.InvalidParameterError{
						Param:  "size",
						Reason: fmt.Sprintf("volume is %g GB and cannot be shrunk to %g GB", cur, d.Number("size")),
					}
				}
				return nil
			},
			Apply: func(ctx context.Context, c resource.Client, snap resource.Snapshot, d resource.Desired) error {
				return c.Action(ctx, "Volume", snap.ID(), "setVolumeSize", map[string]interface{}{
					"sizeInGB": asString(d.Number("size")),
				})
			},
		},
		set("rmcache", "Volume",
			resource.Field{Param: "use_rmcache", Attr: "useRmcache"},
			"setVolumeUseRmcache", "useRmcache", nil),
	},
	Delete: removeVolume,
}

// allocatedGB returns the size the gateway allocates for a requested size.
func allocatedGB(gb float64) float64 {
	return math.Ceil(gb/volumeGranularity) * volumeGranularity
}

// removeVolume removes a volume without its snapshots.
func removeVolume(ctx context.Context, c resource.Client, snap resource.Snapshot) error {
	return c.Action(ctx, "Volume", snap.ID(), "removeVolume", map[string]interface{}{
		"removeMode": "ONLY_ME",
	})
}
