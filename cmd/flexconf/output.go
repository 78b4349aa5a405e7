package main

import (
	"encoding/json"
	"io"

	"github.com/func/flexconf/runner"
	"github.com/pkg/errors"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "write output")
}

// writeResults writes the results of a document run as a JSON array. Every
// entry carries the task name next to the details.
func writeResults(w io.Writer, results []*runner.Result) error {
	out := make([]map[string]interface{}, len(results))
	for i, res := range results {
		d := res.Details()
		d["task"] = res.Task
		out[i] = d
	}
	return writeJSON(w, out)
}
