package reconciler

import (
	"context"

	"github.com/func/flexconf/resource"
	"go.uber.org/zap"
)

// resolveScope resolves a scope given by name to its id. A scope given by id
// is used as-is.
func (r *run) resolveScope(ctx context.Context) error {
	sc := r.Desc.Scope
	if sc == nil || r.Input.Scope.IsZero() {
		return nil
	}
	ref := r.Input.Scope.Ref
	if ref.ID != "" {
		r.scopeID = ref.ID
		return nil
	}

	r.Logger.Debug("Resolve scope", zap.String("scope", sc.Type), zap.String("scope_name", ref.Name))
	list, err := r.Client.List(ctx, sc.Kind)
	if err != nil {
		return &resource.RemoteCallError{Op: "list", Type: sc.Type, Ref: ref, Err: err}
	}
	var matches []resource.Snapshot
	for _, s := range list {
		if s.Name() == ref.Name && (sc.Match == nil || sc.Match(s)) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return resource.NotFoundError{Type: sc.Type, Ref: ref}
	case 1:
		r.scopeID = matches[0].ID()
		r.Logger.Debug("Scope resolved", zap.String("scope_id", r.scopeID))
		return nil
	default:
		return resource.AmbiguousResultError{Type: sc.Type, Ref: ref, Count: len(matches)}
	}
}

// lookup finds the live entity. A nil snapshot without error means the
// entity does not exist.
func (r *run) lookup(ctx context.Context) (resource.Snapshot, error) {
	desc, ref := r.Desc, r.Input.Ref

	if ref.ID != "" {
		snap, ok, err := r.Client.Get(ctx, desc.Kind, ref.ID)
		if err != nil {
			return nil, r.remoteErr("get", err)
		}
		if !ok || !desc.Matches(snap) {
			r.Logger.Debug("Not found by id")
			return nil, nil
		}
		return snap, nil
	}

	list, err := r.Client.List(ctx, desc.Kind)
	if err != nil {
		return nil, r.remoteErr("list", err)
	}
	var matches []resource.Snapshot
	for _, s := range list {
		if s.Name() != ref.Name || !desc.Matches(s) {
			continue
		}
		if r.scopeID != "" && desc.Scope != nil && desc.Scope.Attr != "" && s.String(desc.Scope.Attr) != r.scopeID {
			continue
		}
		matches = append(matches, s)
	}
	r.Logger.Debug("Lookup by name", zap.Int("matches", len(matches)))

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, resource.AmbiguousResultError{Type: desc.Type, Ref: ref, Count: len(matches)}
	}
}
