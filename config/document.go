package config

import (
	"github.com/hashicorp/hcl2/hcl"
)

// A Document is an ordered list of tasks loaded from configuration files.
type Document struct {
	Tasks []*Task
}

// A Task is a single resource block.
type Task struct {
	// Type is the resource type, set by the first label.
	Type string

	// Label uniquely identifies the task within the type.
	Label string

	// Params are the evaluated attributes of the block. Values are
	// cty.Value.
	Params map[string]interface{}

	// DeclRange is the range of the block header, for diagnostics.
	DeclRange hcl.Range
}

// Name returns the task name as type.label.
func (t *Task) Name() string {
	return t.Type + "." + t.Label
}

// schema is the schema of a document file.
var schema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "resource", LabelNames: []string{"type", "label"}},
	},
}
