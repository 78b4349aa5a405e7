package runner_test

import (
	"context"
	"testing"

	"github.com/func/flexconf/config"
	"github.com/func/flexconf/provider/powerflex"
	"github.com/func/flexconf/resource"
	"github.com/func/flexconf/resource/resourcetest"
	"github.com/func/flexconf/resource/validation"
	"github.com/func/flexconf/runner"
	"github.com/google/go-cmp/cmp"
	"github.com/zclconf/go-cty/cty"
	"go.uber.org/zap/zaptest"
)

func newRunner(t *testing.T, cli resource.Client) *runner.Runner {
	reg := &resource.Registry{}
	powerflex.Register(reg)
	return &runner.Runner{
		Client:   cli,
		Registry: reg,
		Decoder:  &resource.Decoder{Validator: validation.New()},
		Logger:   zaptest.NewLogger(t),
	}
}

func TestRunner_Run(t *testing.T) {
	cli := &resourcetest.Client{}
	cli.Add("Sdc", resource.Snapshot{"id": "sdc1", "name": "x"})
	r := newRunner(t, cli)

	res, err := r.Run(context.Background(), "sdc", "sdc", map[string]interface{}{
		"sdc_name": "x",
		"state":    "absent",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := map[string]interface{}{
		"changed":     true,
		"sdc_details": resource.Snapshot{},
	}
	if diff := cmp.Diff(res.Details(), want); diff != "" {
		t.Errorf("Details() (-got, +want)\n%s", diff)
	}
}

func TestRunner_Run_unsupportedType(t *testing.T) {
	r := newRunner(t, &resourcetest.Client{})
	_, err := r.Run(context.Background(), "x", "faultset", nil)
	nse, ok := err.(resource.NotSupportedError)
	if !ok {
		t.Fatalf("Run() error = %v, want NotSupportedError", err)
	}
	if nse.Suggestion != "fault_set" {
		t.Errorf("Suggestion = %q, want fault_set", nse.Suggestion)
	}
}

func TestRunner_Run_skipped(t *testing.T) {
	cli := &resourcetest.Client{GatewayVersion: "3.6"}
	r := newRunner(t, cli)

	res, err := r.Run(context.Background(), "host", "nvme_host", map[string]interface{}{
		"host_name": "h1",
		"nqn":       "nqn.2014-08.org.nvmexpress:uuid:1",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	details := res.Details()
	if details["skipped"] != true || details["changed"] != false {
		t.Errorf("Details() = %v", details)
	}
	if n := len(cli.Calls); n != 1 {
		t.Errorf("Got %d calls, want only version: %v", n, cli.Calls)
	}
}

func TestRunner_Apply(t *testing.T) {
	cli := &resourcetest.Client{}
	cli.Add("ProtectionDomain", resource.Snapshot{"id": "pd1", "name": "domain1"})
	r := newRunner(t, cli)

	doc := &config.Document{
		Tasks: []*config.Task{
			{
				Type:  "fault_set",
				Label: "a",
				Params: map[string]interface{}{
					"fault_set_name":         cty.StringVal("a"),
					"protection_domain_name": cty.StringVal("domain1"),
				},
			},
			{
				Type:  "sdc",
				Label: "missing",
				Params: map[string]interface{}{
					"sdc_name": cty.StringVal("nope"),
				},
			},
			{
				Type:  "fault_set",
				Label: "b",
				Params: map[string]interface{}{
					"fault_set_name":         cty.StringVal("b"),
					"protection_domain_name": cty.StringVal("domain1"),
				},
			},
		},
	}

	results, err := r.Apply(context.Background(), doc)
	terr, ok := err.(*runner.TaskError)
	if !ok {
		t.Fatalf("Apply() error = %v, want *TaskError", err)
	}
	if terr.Task.Name() != "sdc.missing" {
		t.Errorf("Failed task = %s, want sdc.missing", terr.Task.Name())
	}
	if _, ok := terr.Cause().(resource.NotFoundError); !ok {
		t.Errorf("Cause = %v, want NotFoundError", terr.Cause())
	}
	if len(results) != 1 || results[0].Task != "fault_set.a" || !results[0].Record.Changed {
		t.Errorf("Results = %v", results)
	}
	if n := len(cli.Objects("FaultSet")); n != 1 {
		t.Errorf("Got %d fault sets, want 1", n)
	}
	if diags := terr.Diagnostics(); len(diags) != 1 {
		t.Errorf("Diagnostics() = %v", diags)
	}
}

func TestRunner_Apply_cancelled(t *testing.T) {
	r := newRunner(t, &resourcetest.Client{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := &config.Document{Tasks: []*config.Task{{Type: "sdc", Label: "a"}}}
	if _, err := r.Apply(ctx, doc); err == nil {
		t.Fatal("Apply() want error")
	}
}
