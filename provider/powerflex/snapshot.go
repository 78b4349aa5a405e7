package powerflex

import (
	"context"

	"github.com/func/flexconf/resource"
	"github.com/pkg/errors"
)

// Snapshot is a snapshot of a volume. Snapshots are volumes with an
// ancestor; they are created by the System object and named uniquely per
// source volume.
var Snapshot = &resource.Descriptor{
	Type:  "snapshot",
	Kind:  "Volume",
	Match: isSnapshot,
	Params: []resource.Param{
		ident("snapshot_name"),
		ident("snapshot_id"),
		ident("snapshot_new_name"),
		ident("volume_name", "vol_name"),
		ident("volume_id", "vol_id"),
		num("desired_retention", "gt=0"),
		str("retention_unit", "oneof=hours days"),
	},
	NameParam: "snapshot_name",
	IDParam:   "snapshot_id",
	Scope: &resource.Scope{
		Type:      "volume",
		Kind:      "Volume",
		NameParam: "volume_name",
		IDParam:   "volume_id",
		Attr:      "ancestorVolumeId",
		Match:     isPlainVolume,
		Required:  true,
	},
	Create: createSnapshot,
	Groups: []resource.Group{
		rename("Volume", "snapshot_new_name", "setVolumeName", "newName"),
		{
			Name: "retention",
			Fields: []resource.Field{
				{Param: "desired_retention", Attr: "secureSnapshotExpTime"},
				{Param: "retention_unit"},
			},
			Compare: func(snap resource.Snapshot, d resource.Desired) bool {
				if !d.Has("desired_retention") {
					return false
				}
				// Times are in seconds since the epoch.
				want := number(snap, "creationTime") + retentionMinutes(d)*60
				return want != number(snap, "secureSnapshotExpTime")
			},
			Apply: func(ctx context.Context, c resource.Client, snap resource.Snapshot, d resource.Desired) error {
				return c.Action(ctx, "Volume", snap.ID(), "setSnapshotSecurity", map[string]interface{}{
					"retentionPeriodInMin": asString(retentionMinutes(d)),
				})
			},
		},
	},
	Delete: removeVolume,
}

// Snapshots and volumes share the Volume kind. A snapshot has an ancestor.
func isSnapshot(snap resource.Snapshot) bool { return snap.String("ancestorVolumeId") != "" }

func isPlainVolume(snap resource.Snapshot) bool { return !isSnapshot(snap) }

// retentionMinutes returns the desired retention in minutes. The unit
// defaults to hours.
func retentionMinutes(d resource.Desired) float64 {
	n := d.Number("desired_retention")
	if d.String("retention_unit") == "days" {
		return n * 24 * 60
	}
	return n * 60
}

// createSnapshot snapshots the scope volume. The gateway does not return the
// snapshot id per volume, so it is looked up by name afterwards.
func createSnapshot(ctx context.Context, c resource.Client, req *resource.CreateRequest) (string, error) {
	systems, err := c.List(ctx, "System")
	if err != nil {
		return "", errors.Wrap(err, "list systems")
	}
	if len(systems) != 1 {
		return "", errors.Errorf("expected one system, got %d", len(systems))
	}

	body := map[string]interface{}{
		"snapshotDefs": []interface{}{
			map[string]interface{}{
				"volumeId":     req.ScopeID,
				"snapshotName": req.Name,
			},
		},
	}
	if req.Desired.Has("desired_retention") {
		body["retentionPeriodInMin"] = asString(retentionMinutes(req.Desired))
	}
	if err := c.Action(ctx, "System", systems[0].ID(), "snapshotVolumes", body); err != nil {
		return "", err
	}

	vols, err := c.List(ctx, "Volume")
	if err != nil {
		return "", errors.Wrap(err, "list volumes")
	}
	for _, v := range vols {
		if v.Name() == req.Name && v.String("ancestorVolumeId") == req.ScopeID {
			return v.ID(), nil
		}
	}
	return "", errors.Errorf("snapshot %q not found after create", req.Name)
}
