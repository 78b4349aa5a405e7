package powerflex

import (
	"context"

	"github.com/func/flexconf/resource"
)

// StoragePool is a storage pool within a protection domain.
var StoragePool = &resource.Descriptor{
	Type: "storage_pool",
	Kind: "StoragePool",
	Params: append([]resource.Param{
		ident("storage_pool_name"),
		ident("storage_pool_id"),
		ident("storage_pool_new_name"),
		str("media_type", "oneof=HDD SSD TRANSITIONAL"),
		boolean("use_rmcache"),
		boolean("use_rfcache"),
	}, protectionDomainParams()...),
	NameParam:    "storage_pool_name",
	IDParam:      "storage_pool_id",
	Scope:        protectionDomainScope(),
	CreateFields: []string{"media_type"},
	Create: func(ctx context.Context, c resource.Client, req *resource.CreateRequest) (string, error) {
		return c.Create(ctx, "StoragePool", map[string]interface{}{
			"name":               req.Name,
			"protectionDomainId": req.ScopeID,
			"mediaType":          mediaType(req.Desired.String("media_type")),
		})
	},
	Groups: []resource.Group{
		rename("StoragePool", "storage_pool_new_name", "setStoragePoolName", "name"),
		set("media_type", "StoragePool",
			resource.Field{Param: "media_type", Attr: "mediaType", Fold: true},
			"setMediaType", "mediaType", func(v interface{}) interface{} {
				s, _ := v.(string)
				return mediaType(s)
			}),
		set("rmcache", "StoragePool",
			resource.Field{Param: "use_rmcache", Attr: "useRmcache"},
			"setUseRmcache", "useRmcache", asString),
		toggle("rfcache", "StoragePool", "use_rfcache", "enableRfcache", "disableRfcache", attrTrue("useRfcache")),
	},
	DeleteAction: "removeStoragePool",
}

// mediaType converts a media type parameter to the gateway spelling.
func mediaType(s string) string {
	if s == "TRANSITIONAL" {
		return "Transitional"
	}
	return s
}
