// Package resourcetest provides an in-memory gateway client for tests.
package resourcetest

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/func/flexconf/resource"
)

// ActionFunc applies an action to a stored object. Returning remove=true
// deletes the object.
type ActionFunc func(obj resource.Snapshot, attrs map[string]interface{}) (remove bool, err error)

// CreateFunc builds the stored object from the attributes of a create call.
type CreateFunc func(attrs map[string]interface{}) (resource.Snapshot, error)

// A Client is an in-memory resource.Client. It records all calls for test or
// debugging purposes.
//
// Unless overridden with Handle, actions with a "remove" prefix delete the
// object, and other actions set name from a "newName" or "name" attribute
// and merge remaining attributes into the object.
type Client struct {
	GatewayVersion string

	mu       sync.Mutex
	objects  map[string][]resource.Snapshot
	handlers map[string]ActionFunc
	creators map[string]CreateFunc
	errs     map[string]error
	seq      int

	Calls Calls
}

// Add stores objects of the given kind. Objects without an id are assigned
// one.
func (c *Client) Add(kind string, objs ...resource.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.objects == nil {
		c.objects = make(map[string][]resource.Snapshot)
	}
	for _, o := range objs {
		o = copySnap(o)
		if o.ID() == "" {
			o["id"] = c.nextID(kind)
		}
		c.objects[kind] = append(c.objects[kind], o)
	}
}

// Objects returns the stored objects of a kind.
func (c *Client) Objects(kind string) []resource.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]resource.Snapshot, len(c.objects[kind]))
	for i, o := range c.objects[kind] {
		out[i] = copySnap(o)
	}
	return out
}

// Handle sets the handler for an action on a kind.
func (c *Client) Handle(kind, action string, fn ActionFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handlers == nil {
		c.handlers = make(map[string]ActionFunc)
	}
	c.handlers[kind+"/"+action] = fn
}

// HandleCreate sets the function building objects of a kind on create. By
// default the create attributes are stored as-is.
func (c *Client) HandleCreate(kind string, fn CreateFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.creators == nil {
		c.creators = make(map[string]CreateFunc)
	}
	c.creators[kind] = fn
}

// FailOn makes calls matching method and kind return err. For Action calls,
// method is the action name.
func (c *Client) FailOn(method, kind string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.errs == nil {
		c.errs = make(map[string]error)
	}
	c.errs[method+"/"+kind] = err
}

// List implements resource.Client.
func (c *Client) List(ctx context.Context, kind string) ([]resource.Snapshot, error) {
	c.record(Call{Method: "List", Kind: kind})
	if err := c.failure("List", kind); err != nil {
		return nil, err
	}
	return c.Objects(kind), nil
}

// Get implements resource.Client.
func (c *Client) Get(ctx context.Context, kind, id string) (resource.Snapshot, bool, error) {
	c.record(Call{Method: "Get", Kind: kind, ID: id})
	if err := c.failure("Get", kind); err != nil {
		return nil, false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, o := range c.objects[kind] {
		if o.ID() == id {
			return copySnap(o), true, nil
		}
	}
	return nil, false, nil
}

// Create implements resource.Client.
func (c *Client) Create(ctx context.Context, kind string, attrs map[string]interface{}) (string, error) {
	c.record(Call{Method: "Create", Kind: kind, Attrs: attrs})
	if err := c.failure("Create", kind); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.objects == nil {
		c.objects = make(map[string][]resource.Snapshot)
	}
	obj := copySnap(attrs)
	if fn, ok := c.creators[kind]; ok {
		o, err := fn(attrs)
		if err != nil {
			return "", err
		}
		obj = copySnap(o)
	}
	id := c.nextID(kind)
	obj["id"] = id
	c.objects[kind] = append(c.objects[kind], obj)
	return id, nil
}

// Action implements resource.Client.
//
// Handlers run without holding the client lock, so they may add objects.
func (c *Client) Action(ctx context.Context, kind, id, action string, attrs map[string]interface{}) error {
	c.record(Call{Method: "Action", Kind: kind, ID: id, Action: action, Attrs: attrs})
	if err := c.failure(action, kind); err != nil {
		return err
	}

	c.mu.Lock()
	var obj resource.Snapshot
	for _, o := range c.objects[kind] {
		if o.ID() == id {
			obj = o
			break
		}
	}
	fn := c.handlers[kind+"/"+action]
	c.mu.Unlock()
	if obj == nil {
		return fmt.Errorf("%s::%s not found", kind, id)
	}
	if fn == nil {
		fn = defaultAction(action)
	}

	remove, err := fn(obj, attrs)
	if err != nil {
		return err
	}
	if remove {
		c.mu.Lock()
		objs := c.objects[kind]
		for i, o := range objs {
			if o.ID() == id {
				c.objects[kind] = append(objs[:i], objs[i+1:]...)
				break
			}
		}
		c.mu.Unlock()
	}
	return nil
}

// Version implements resource.Client.
func (c *Client) Version(ctx context.Context) (string, error) {
	c.record(Call{Method: "Version"})
	if err := c.failure("Version", ""); err != nil {
		return "", err
	}
	return c.GatewayVersion, nil
}

func defaultAction(action string) ActionFunc {
	return func(obj resource.Snapshot, attrs map[string]interface{}) (bool, error) {
		if strings.HasPrefix(action, "remove") {
			return true, nil
		}
		for k, v := range attrs {
			switch k {
			case "newName", "name":
				obj["name"] = v
			default:
				obj[k] = v
			}
		}
		return false, nil
	}
}

func (c *Client) failure(method, kind string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errs[method+"/"+kind]
}

func (c *Client) record(call Call) {
	c.mu.Lock()
	c.Calls = append(c.Calls, call)
	c.mu.Unlock()
}

func (c *Client) nextID(kind string) string {
	c.seq++
	return fmt.Sprintf("%s-%d", strings.ToLower(kind), c.seq)
}

func copySnap(in map[string]interface{}) resource.Snapshot {
	out := make(resource.Snapshot, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Calls is a collection of recorded calls.
type Calls []Call

// Mutations returns the calls that change state: Create and Action.
func (cc Calls) Mutations() Calls {
	var out Calls
	for _, c := range cc {
		if c.Method == "Create" || c.Method == "Action" {
			out = append(out, c)
		}
	}
	return out
}

// String returns a string of all calls that have occurred.
//
// If no calls have been recorded, returns
//  <no calls>
func (cc Calls) String() string {
	if len(cc) == 0 {
		return "<no calls>"
	}
	ss := make([]string, len(cc))
	for i, c := range cc {
		ss[i] = c.String()
	}
	return fmt.Sprintf("%v", ss)
}

// A Call is a recorded call.
type Call struct {
	Method string
	Kind   string
	ID     string
	Action string
	Attrs  map[string]interface{}
}

func (c Call) String() string {
	var buf bytes.Buffer
	buf.WriteString(c.Method)
	buf.WriteString("(")
	buf.WriteString(c.Kind)
	if c.ID != "" {
		buf.WriteString("::")
		buf.WriteString(c.ID)
	}
	if c.Action != "" {
		buf.WriteString(" ")
		buf.WriteString(c.Action)
	}
	buf.WriteString(")")
	if len(c.Attrs) > 0 {
		fmt.Fprintf(&buf, " %v", c.Attrs)
	}
	return buf.String()
}
