// Package runner runs reconciliation tasks against a gateway.
//
// A task is a resource type and its raw parameters. Tasks are run one after
// the other; every task decodes its parameters, checks the gateway version
// the type requires and reconciles a single entity.
package runner

import (
	"context"

	"github.com/func/flexconf/config"
	"github.com/func/flexconf/resource"
	"github.com/func/flexconf/resource/compat"
	"github.com/func/flexconf/resource/reconciler"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

// A Runner runs tasks.
type Runner struct {
	Client   resource.Client
	Registry *resource.Registry
	Decoder  *resource.Decoder

	// Logger is used for logging. If not set, logs are discarded.
	Logger *zap.Logger
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// A Result is the outcome of a single task.
type Result struct {
	Task   string // Task name, type.label for tasks from documents.
	Type   *resource.Descriptor
	Record *resource.ChangeRecord
}

// Details returns the result in the shape reported to the caller.
func (res *Result) Details() map[string]interface{} {
	return res.Record.Details(res.Type.DetailsKey())
}

// Run runs a single task.
func (r *Runner) Run(ctx context.Context, name, typename string, raw map[string]interface{}) (*Result, error) {
	desc, err := r.Registry.Get(typename)
	if err != nil {
		return nil, err
	}

	dec := r.Decoder
	if dec == nil {
		dec = &resource.Decoder{}
	}
	in, err := dec.Decode(desc, raw)
	if err != nil {
		return nil, err
	}

	logger := r.logger().With(
		zap.String("invocation", ksuid.New().String()),
		zap.String("task", name),
	)

	rec, err := compat.Check(ctx, r.Client, desc)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		logger.Warn("Skipped", zap.Strings("warnings", rec.Warnings))
		return &Result{Task: name, Type: desc, Record: rec}, nil
	}

	rc := &reconciler.Reconciler{Client: r.Client, Logger: logger}
	rec, err = rc.Reconcile(ctx, desc, in)
	if err != nil {
		return nil, err
	}
	return &Result{Task: name, Type: desc, Record: rec}, nil
}

// Apply runs all tasks of a document in order. It stops at the first task
// that fails; the results of tasks run before are returned with the error.
func (r *Runner) Apply(ctx context.Context, doc *config.Document) ([]*Result, error) {
	results := make([]*Result, 0, len(doc.Tasks))
	for _, t := range doc.Tasks {
		if err := ctx.Err(); err != nil {
			return results, errors.Wrap(err, "apply")
		}
		res, err := r.Run(ctx, t.Name(), t.Type, t.Params)
		if err != nil {
			return results, &TaskError{Task: t, Err: err}
		}
		results = append(results, res)
	}
	return results, nil
}
