// Package reconciler converges a single remote entity to a desired state.
//
// Steps
//
// A reconciliation consists of the following steps, every one of them
// issuing its calls sequentially:
//
//   1. Resolve scope
//
//      If the parent scope is given by name, it is resolved to an id. No
//      match or more than one match fails the reconciliation.
//
//   2. Look up the entity
//
//      By id if given, otherwise by name, narrowed by the scope. No match
//      means the entity does not exist. More than one match fails; a
//      candidate is never picked.
//
//   3. Converge
//
//        - present, missing:  validate create fields, create, fetch.
//        - present, existing: compare each attribute group and issue one
//          call for every group that differs, in declared order. Groups
//          with a check reject impossible changes before the first call.
//        - absent, existing:  delete.
//        - absent, missing:   nothing.
//
//   4. Report
//
//      The entity is fetched again after any mutation. The returned record
//      holds the changed flag and the final snapshot, empty after a delete.
//
// Failures
//
// Every remote call is wrapped in a resource.RemoteCallError naming the
// operation and the entity. Nothing is retried or rolled back: a failure
// after a successful rename leaves the entity renamed.
package reconciler
