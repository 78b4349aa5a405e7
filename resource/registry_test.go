package resource_test

import (
	"strings"
	"testing"

	"github.com/func/flexconf/resource"
	"github.com/google/go-cmp/cmp"
)

func TestRegistry_Get(t *testing.T) {
	r := &resource.Registry{}

	_, err := r.Get("test")
	if _, ok := err.(resource.NotSupportedError); !ok {
		t.Fatalf("Get unregistered resource; got %v, want %T", err, resource.NotSupportedError{})
	}
	if !strings.Contains(err.Error(), "test") {
		t.Errorf("Not supported error does not contain name of requested type\nGot %v", err)
	}

	desc := &resource.Descriptor{Type: "test", NameParam: "name"}
	r.Register(desc)

	got, err := r.Get("test")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != desc {
		t.Errorf("Get() returned a different descriptor")
	}
}

func TestRegistry_Register_panic(t *testing.T) {
	tests := []struct {
		name string
		desc *resource.Descriptor
	}{
		{"NoType", &resource.Descriptor{NameParam: "name"}},
		{"NoIdent", &resource.Descriptor{Type: "test"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if err := recover(); err == nil {
					t.Fatal("Expected panic")
				}
			}()
			r := &resource.Registry{}
			r.Register(tt.desc)
		})
	}
}

func TestRegistry_Types(t *testing.T) {
	r := resource.RegistryFromDescriptors(
		&resource.Descriptor{Type: "sds", NameParam: "sds_name"},
		&resource.Descriptor{Type: "fault_set", NameParam: "fault_set_name"},
		&resource.Descriptor{Type: "sdc", IDParam: "sdc_id"},
	)
	want := []string{"fault_set", "sdc", "sds"}
	if diff := cmp.Diff(r.Types(), want); diff != "" {
		t.Errorf("Types() (-got, +want)\n%s", diff)
	}
}

func TestRegistry_SuggestType(t *testing.T) {
	r := resource.RegistryFromDescriptors(
		&resource.Descriptor{Type: "fault_set", NameParam: "fault_set_name"},
		&resource.Descriptor{Type: "sdc", NameParam: "sdc_name"},
		&resource.Descriptor{Type: "sds", NameParam: "sds_name"},
		&resource.Descriptor{Type: "storage_pool", NameParam: "storage_pool_name"},
	)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Exact", "fault_set", "fault_set"},
		{"Close", "storage:pool", "storage_pool"},
		{"Ambiguous", "sdx", "sdc"}, // First of equally close matches
		{"NoMatch", "volume", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.SuggestType(tt.input)
			if got != tt.want {
				t.Errorf("SuggestType() got = %q, want = %q", got, tt.want)
			}
		})
	}

	_, err := r.Get("faultset")
	nse, ok := err.(resource.NotSupportedError)
	if !ok {
		t.Fatalf("Get() error = %v, want NotSupportedError", err)
	}
	if nse.Suggestion != "fault_set" {
		t.Errorf("Suggestion = %q, want fault_set", nse.Suggestion)
	}
}
