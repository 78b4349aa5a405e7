package runner

import (
	"fmt"

	"github.com/func/flexconf/config"
	"github.com/hashicorp/hcl2/hcl"
)

// A TaskError is returned when a task of a document fails.
type TaskError struct {
	Task *config.Task
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("%s: %v", e.Task.Name(), e.Err)
}

// Cause returns the error of the task.
func (e *TaskError) Cause() error { return e.Err }

// Diagnostics returns the error as diagnostics pointing at the task block.
func (e *TaskError) Diagnostics() hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  fmt.Sprintf("Could not reconcile %s", e.Task.Name()),
		Detail:   e.Err.Error(),
		Subject:  e.Task.DeclRange.Ptr(),
	}}
}
