package resource

import "context"

// A Client issues calls against the storage gateway.
//
// Every method blocks until the gateway responds or the transport times out.
// Errors are opaque transport failures; a missing entity is not an error.
type Client interface {
	// List returns all instances of the given object kind.
	List(ctx context.Context, kind string) ([]Snapshot, error)

	// Get returns a single instance. The returned bool is false if no
	// instance with the given id exists.
	Get(ctx context.Context, kind, id string) (Snapshot, bool, error)

	// Create creates a new instance and returns its id.
	Create(ctx context.Context, kind string, attrs map[string]interface{}) (string, error)

	// Action invokes a named action on an instance.
	Action(ctx context.Context, kind, id, action string, attrs map[string]interface{}) error

	// Version returns the gateway version.
	Version(ctx context.Context) (string, error)
}
