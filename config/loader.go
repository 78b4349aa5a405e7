package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl2/hcl"
	"github.com/hashicorp/hcl2/hclparse"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"golang.org/x/term"
)

// A Loader loads documents from .hcl files on disk.
//
// The zero value is ready to load files.
type Loader struct {
	// LookupEnv looks up environment variables for env(). Defaults to
	// os.LookupEnv.
	LookupEnv func(key string) (string, bool)

	parser *hclparse.Parser
}

func (l *Loader) init() {
	if l.parser == nil {
		l.parser = hclparse.NewParser()
	}
}

// WriteDiagnostics writes diagnostics as a human readable string to w. It
// should only be used for diagnostics that originate from files loaded by
// Loader.
//
// If a TTY is attached, the output will be colorized and wrap at the terminal
// width. Otherwise, wrap will occur at 78 characters and output won't contain
// ANSI escape characters.
func (l *Loader) WriteDiagnostics(w io.Writer, diags hcl.Diagnostics) {
	l.init()
	fd := int(os.Stdout.Fd())
	cols, _, err := term.GetSize(fd)
	if err != nil || cols <= 0 {
		cols = 78
	}
	color := term.IsTerminal(fd)
	wr := hcl.NewDiagnosticTextWriter(w, l.parser.Files(), uint(cols), color)
	if err := wr.WriteDiagnostics(diags); err != nil {
		fmt.Fprintln(w, err)
	}
}

// Load loads all .hcl files in the given directory, traversing into sub
// directories. Tasks are ordered by file name, then by their position in the
// file.
func (l *Loader) Load(dir string) (*Document, hcl.Diagnostics) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return errors.WithStack(err)
		}
		if !info.IsDir() && isConfigFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, diagErr(err)
	}
	sort.Strings(files)
	return l.LoadFiles(files...)
}

// LoadFile loads the tasks of a single file.
func (l *Loader) LoadFile(filename string) (*Document, hcl.Diagnostics) {
	return l.LoadFiles(filename)
}

// LoadFiles loads the tasks of the given files, in order.
//
// Every type and label pair must be unique across all files.
func (l *Loader) LoadFiles(filenames ...string) (*Document, hcl.Diagnostics) {
	l.init()
	doc := &Document{}
	seen := make(map[string]*Task)
	var diags hcl.Diagnostics
	for _, name := range filenames {
		f, fdiags := l.parser.ParseHCLFile(name)
		diags = append(diags, fdiags...)
		if fdiags.HasErrors() {
			continue
		}
		content, cdiags := f.Body.Content(schema)
		diags = append(diags, cdiags...)
		for _, b := range content.Blocks {
			task, tdiags := l.decodeTask(b)
			diags = append(diags, tdiags...)
			if task == nil {
				continue
			}
			if prev, ok := seen[task.Name()]; ok {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate resource",
					Detail:   fmt.Sprintf("Resource %s was already declared at %s.", task.Name(), prev.DeclRange),
					Subject:  b.DefRange.Ptr(),
				})
				continue
			}
			seen[task.Name()] = task
			doc.Tasks = append(doc.Tasks, task)
		}
	}
	if diags.HasErrors() {
		return nil, diags
	}
	return doc, diags
}

func (l *Loader) decodeTask(b *hcl.Block) (*Task, hcl.Diagnostics) {
	attrs, diags := b.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	ctx := l.evalContext()
	params := make(map[string]interface{}, len(attrs))
	for name, attr := range attrs {
		val, vdiags := attr.Expr.Value(ctx)
		diags = append(diags, vdiags...)
		if vdiags.HasErrors() {
			continue
		}
		if !val.IsWhollyKnown() {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unknown value",
				Detail:   fmt.Sprintf("The value of %s cannot be determined.", name),
				Subject:  attr.Expr.Range().Ptr(),
			})
			continue
		}
		params[name] = val
	}
	if diags.HasErrors() {
		return nil, diags
	}
	return &Task{
		Type:      b.Labels[0],
		Label:     b.Labels[1],
		Params:    params,
		DeclRange: b.DefRange,
	}, diags
}

func (l *Loader) evalContext() *hcl.EvalContext {
	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env": envFunc(lookup),
		},
	}
}

// envFunc returns a function reading an environment variable. Unset
// variables are an error.
func envFunc(lookup func(string) (string, bool)) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "name", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			name := args[0].AsString()
			v, ok := lookup(name)
			if !ok {
				return cty.NilVal, errors.Errorf("environment variable %s is not set", name)
			}
			return cty.StringVal(v), nil
		},
	})
}

// LoadJSON reads the parameters of a single task from a JSON object.
func LoadJSON(r io.Reader) (map[string]interface{}, error) {
	var params map[string]interface{}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&params); err != nil {
		return nil, errors.Wrap(err, "decode parameters")
	}
	if params == nil {
		return nil, errors.New("parameters must be a JSON object")
	}
	return params, nil
}

func isConfigFile(filename string) bool {
	return filepath.Ext(filename) == ".hcl"
}

// diagErr converts a native error to diagnostics
func diagErr(err error) hcl.Diagnostics {
	return hcl.Diagnostics{{Severity: hcl.DiagError, Summary: err.Error()}}
}
