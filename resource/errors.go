package resource

import (
	"fmt"
	"strings"
)

// A MissingParameterError is returned when a parameter that is required for
// the operation was not provided.
type MissingParameterError struct {
	Params []string // Any of these would satisfy the requirement.
	Reason string
}

func (e MissingParameterError) Error() string {
	msg := fmt.Sprintf("missing parameter: %s", strings.Join(e.Params, " or "))
	if e.Reason != "" {
		msg += " " + e.Reason
	}
	return msg
}

// A MutuallyExclusiveError is returned when more than one parameter in a
// mutually exclusive set was provided.
type MutuallyExclusiveError struct {
	Params []string
}

func (e MutuallyExclusiveError) Error() string {
	return fmt.Sprintf("parameters are mutually exclusive: %s", strings.Join(e.Params, "|"))
}

// An InvalidParameterError is returned when the value of a parameter cannot
// be used.
type InvalidParameterError struct {
	Param  string
	Reason string
}

func (e InvalidParameterError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("invalid parameters: %s", e.Reason)
	}
	return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Reason)
}

// A NotFoundError is returned when a referenced entity that must exist could
// not be resolved.
type NotFoundError struct {
	Type string
	Ref  Ref
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Type, e.Ref)
}

// An AmbiguousResultError is returned when a name resolves to more than one
// live entity. The reconciler never picks one of the candidates.
type AmbiguousResultError struct {
	Type  string
	Ref   Ref
	Count int
}

func (e AmbiguousResultError) Error() string {
	return fmt.Sprintf("%s %s is ambiguous: %d matches", e.Type, e.Ref, e.Count)
}

// A RemoteCallError wraps an error returned from the gateway, together with
// the operation and the entity it was issued for.
type RemoteCallError struct {
	Op   string // list, get, create, rename, update, delete, ...
	Type string
	Ref  Ref
	Err  error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s %s %s: %v", e.Op, e.Type, e.Ref, e.Err)
}

// Cause returns the underlying transport error.
func (e *RemoteCallError) Cause() error { return e.Err }

// Unwrap returns the underlying transport error.
func (e *RemoteCallError) Unwrap() error { return e.Err }
