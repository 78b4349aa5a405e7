package reconciler

import (
	"context"

	"github.com/func/flexconf/resource"
	"go.uber.org/zap"
)

// A Reconciler converges a single remote entity to its desired state.
//
// A Reconciler is constructed for an invocation context with the client it
// uses; it holds no state between calls to Reconcile.
type Reconciler struct {
	Client resource.Client

	// Logger logs reconciliation steps. If not set, logs are discarded.
	Logger *zap.Logger
}

// Reconcile compares the live entity referenced by in with the desired
// state and issues the calls needed to converge it.
//
// See package doc for details.
func (r *Reconciler) Reconcile(ctx context.Context, desc *resource.Descriptor, in *resource.Input) (*resource.ChangeRecord, error) {
	if err := in.Check(desc); err != nil {
		return nil, err
	}

	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("type", desc.Type))
	if in.Ref.ID != "" {
		logger = logger.With(zap.String("id", in.Ref.ID))
	} else {
		logger = logger.With(zap.String("name", in.Ref.Name))
	}

	run := &run{
		Client: r.Client,
		Desc:   desc,
		Input:  in,
		Logger: logger,
	}

	logger.Info("Reconcile", zap.String("state", string(in.State)))

	rec, err := run.reconcile(ctx)
	if err != nil {
		logger.Error("Failed", zap.Error(err))
		return nil, err
	}

	logger.Info("Done", zap.Bool("changed", rec.Changed), zap.Int("calls", run.mutations))
	return rec, nil
}

type run struct {
	Client resource.Client
	Desc   *resource.Descriptor
	Input  *resource.Input
	Logger *zap.Logger

	scopeID   string
	mutations int // Mutation calls issued.
}

func (r *run) reconcile(ctx context.Context) (*resource.ChangeRecord, error) {
	if err := r.resolveScope(ctx); err != nil {
		return nil, err
	}

	snap, err := r.lookup(ctx)
	if err != nil {
		return nil, err
	}

	switch {
	case r.Input.ExistsRequired() && snap == nil:
		return r.create(ctx)
	case r.Input.ExistsRequired():
		return r.update(ctx, snap)
	case snap != nil:
		return r.delete(ctx, snap)
	default:
		r.Logger.Debug("Does not exist, nothing to do")
		return &resource.ChangeRecord{Snapshot: resource.Snapshot{}}, nil
	}
}

func (r *run) create(ctx context.Context) (*resource.ChangeRecord, error) {
	desc, in := r.Desc, r.Input
	if in.Ref.Name == "" {
		// Only referenced by id; there is no name to create it with.
		return nil, resource.NotFoundError{Type: desc.Type, Ref: in.Ref}
	}
	if desc.Create == nil {
		return nil, resource.NotFoundError{Type: desc.Type, Ref: in.Ref}
	}
	if desc.Scope != nil && desc.Scope.Required && r.scopeID == "" {
		return nil, resource.MissingParameterError{
			Params: []string{desc.Scope.NameParam, desc.Scope.IDParam},
			Reason: "to create " + desc.Type,
		}
	}
	for _, p := range desc.CreateFields {
		if !in.Desired.Has(p) {
			return nil, resource.MissingParameterError{Params: []string{p}, Reason: "to create " + desc.Type}
		}
	}

	r.Logger.Info("Creating resource")
	req := &resource.CreateRequest{
		Name:    in.Ref.Name,
		ScopeID: r.scopeID,
		Desired: in.Desired,
	}
	id, err := desc.Create(ctx, r.Client, req)
	r.mutations++
	if err != nil {
		return nil, r.remoteErr("create", err)
	}
	r.Logger.Debug("Created", zap.String("new_id", id))

	snap, err := r.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	// Attributes that cannot be set on create are converged afterwards.
	snap, _, err = r.applyGroups(ctx, snap)
	if err != nil {
		return nil, err
	}
	return &resource.ChangeRecord{Changed: true, Snapshot: snap}, nil
}

func (r *run) update(ctx context.Context, snap resource.Snapshot) (*resource.ChangeRecord, error) {
	snap, changed, err := r.applyGroups(ctx, snap)
	if err != nil {
		return nil, err
	}
	if !changed {
		r.Logger.Debug("No changes required")
	}
	return &resource.ChangeRecord{Changed: changed, Snapshot: snap}, nil
}

// applyGroups issues one call for every group that differs from snap, in
// the order declared by the descriptor. The snapshot is fetched again if
// anything was changed.
func (r *run) applyGroups(ctx context.Context, snap resource.Snapshot) (resource.Snapshot, bool, error) {
	var pending []*resource.Group
	for i := range r.Desc.Groups {
		g := &r.Desc.Groups[i]
		if !g.Changed(snap, r.Input.Desired) {
			continue
		}
		if g.Check != nil {
			if err := g.Check(snap, r.Input.Desired); err != nil {
				return nil, false, err
			}
		}
		pending = append(pending, g)
	}
	if len(pending) == 0 {
		return snap, false, nil
	}

	for _, g := range pending {
		r.Logger.Info("Updating", zap.String("group", g.Name), zap.Strings("params", g.Params()))
		err := g.Apply(ctx, r.Client, snap, r.Input.Desired)
		r.mutations++
		if err != nil {
			return nil, false, r.remoteErr(g.Name, err)
		}
	}

	fresh, err := r.fetch(ctx, snap.ID())
	if err != nil {
		return nil, false, err
	}
	return fresh, true, nil
}

func (r *run) delete(ctx context.Context, snap resource.Snapshot) (*resource.ChangeRecord, error) {
	r.Logger.Info("Deleting resource")
	var err error
	if r.Desc.Delete != nil {
		err = r.Desc.Delete(ctx, r.Client, snap)
	} else {
		err = r.Client.Action(ctx, r.Desc.Kind, snap.ID(), r.Desc.DeleteAction, nil)
	}
	r.mutations++
	if err != nil {
		return nil, r.remoteErr("delete", err)
	}
	return &resource.ChangeRecord{Changed: true, Snapshot: resource.Snapshot{}}, nil
}

// fetch gets the current snapshot of an entity that must exist.
func (r *run) fetch(ctx context.Context, id string) (resource.Snapshot, error) {
	snap, ok, err := r.Client.Get(ctx, r.Desc.Kind, id)
	if err != nil {
		return nil, r.remoteErr("get", err)
	}
	if !ok {
		return nil, resource.NotFoundError{Type: r.Desc.Type, Ref: resource.Ref{ID: id}}
	}
	return snap, nil
}

func (r *run) remoteErr(op string, err error) error {
	return &resource.RemoteCallError{Op: op, Type: r.Desc.Type, Ref: r.Input.Ref, Err: err}
}
