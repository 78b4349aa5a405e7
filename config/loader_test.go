package config_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/func/flexconf/config"
	"github.com/func/flexconf/resource"
	"github.com/google/go-cmp/cmp"
	"github.com/zclconf/go-cty/cty"
)

// plain converts the cty params of a task to plain values.
func plain(t *testing.T, params map[string]interface{}) map[string]interface{} {
	t.Helper()
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		p, err := resource.FromCty(v.(cty.Value))
		if err != nil {
			t.Fatalf("FromCty(%s) error = %v", k, err)
		}
		out[k] = p
	}
	return out
}

type task struct {
	Type, Label string
	Params      map[string]interface{}
}

func TestLoader_Load(t *testing.T) {
	l := &config.Loader{}
	doc, diags := l.Load("testdata/doc")
	if diags.HasErrors() {
		var buf bytes.Buffer
		l.WriteDiagnostics(&buf, diags)
		t.Fatalf("Load() diagnostics:\n%s", buf.String())
	}

	got := make([]task, len(doc.Tasks))
	for i, tt := range doc.Tasks {
		got[i] = task{Type: tt.Type, Label: tt.Label, Params: plain(t, tt.Params)}
	}
	want := []task{
		{
			Type:  "sds",
			Label: "node1",
			Params: map[string]interface{}{
				"sds_name":               "node1",
				"protection_domain_name": "domain1",
				"sds_ip_list": []interface{}{
					map[string]interface{}{"ip": "10.0.0.1", "role": "all"},
				},
				"rmcache_size": float64(128),
			},
		},
		{
			Type:  "fault_set",
			Label: "rack1",
			Params: map[string]interface{}{
				"fault_set_name":       "rack1",
				"protection_domain_id": "pd1",
			},
		},
		{
			Type:  "volume",
			Label: "scratch",
			Params: map[string]interface{}{
				"state":             "absent",
				"volume_name":       "scratch",
				"storage_pool_name": "pool1",
			},
		},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Load() (-got, +want)\n%s", diff)
	}
	if doc.Tasks[1].Name() != "fault_set.rack1" {
		t.Errorf("Name() = %q", doc.Tasks[1].Name())
	}
	if doc.Tasks[1].DeclRange.Filename != "testdata/doc/storage.hcl" {
		t.Errorf("DeclRange = %v", doc.Tasks[1].DeclRange)
	}
}

func TestLoader_LoadFile_env(t *testing.T) {
	env := map[string]string{"SDC_ID": "abc", "SDC_SUFFIX": "01"}
	l := &config.Loader{
		LookupEnv: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
	}
	doc, diags := l.LoadFile("testdata/env.hcl")
	if diags.HasErrors() {
		t.Fatalf("LoadFile() diagnostics: %v", diags)
	}
	want := map[string]interface{}{"sdc_id": "abc", "sdc_new_name": "host-01"}
	if diff := cmp.Diff(plain(t, doc.Tasks[0].Params), want); diff != "" {
		t.Errorf("Params (-got, +want)\n%s", diff)
	}

	delete(env, "SDC_SUFFIX")
	l2 := &config.Loader{LookupEnv: l.LookupEnv}
	if _, diags := l2.LoadFile("testdata/env.hcl"); !diags.HasErrors() {
		t.Error("LoadFile() with unset variable want error")
	}
}

func TestLoader_LoadFile_errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		summary string
	}{
		{"Duplicate", "testdata/invalid/dup.hcl", "Duplicate resource"},
		{"Syntax", "testdata/invalid/syntax.hcl", ""},
		{"NotFound", "testdata/nonexisting.hcl", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &config.Loader{}
			doc, diags := l.LoadFile(tt.file)
			if !diags.HasErrors() {
				t.Fatal("LoadFile() want diagnostics")
			}
			if doc != nil {
				t.Errorf("LoadFile() returned document with errors")
			}
			if tt.summary != "" && diags[0].Summary != tt.summary {
				t.Errorf("Summary = %q, want %q", diags[0].Summary, tt.summary)
			}

			var buf bytes.Buffer
			l.WriteDiagnostics(&buf, diags)
			if !strings.Contains(buf.String(), "Error") {
				t.Errorf("WriteDiagnostics() output:\n%s", buf.String())
			}
		})
	}
}

func TestLoadJSON(t *testing.T) {
	got, err := config.LoadJSON(strings.NewReader(`{"sdc_name": "x", "state": "absent", "limit": 10}`))
	if err != nil {
		t.Fatalf("LoadJSON() error = %v", err)
	}
	want := map[string]interface{}{"sdc_name": "x", "state": "absent", "limit": float64(10)}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("LoadJSON() (-got, +want)\n%s", diff)
	}

	for _, input := range []string{`[1, 2]`, `null`, `{`} {
		if _, err := config.LoadJSON(strings.NewReader(input)); err == nil {
			t.Errorf("LoadJSON(%s) want error", input)
		}
	}
}
