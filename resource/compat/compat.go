// Package compat checks the gateway version before a resource type is
// reconciled.
//
// The check runs before any entity is looked up. A gateway outside the range
// a type supports does not fail the invocation; it is skipped with a
// warning.
package compat

import (
	"context"
	"fmt"
	"strings"

	"github.com/func/flexconf/resource"
	"github.com/pkg/errors"
	"golang.org/x/mod/semver"
)

// A Gate is the range of gateway versions a resource type supports. Either
// bound may be empty.
type Gate struct {
	Min string // Inclusive.
	Max string // Exclusive.
}

// ForDescriptor returns the gate declared by a descriptor.
func ForDescriptor(desc *resource.Descriptor) Gate {
	return Gate{Min: desc.MinVersion, Max: desc.MaxVersion}
}

// Open returns true if the gate has no bounds.
func (g Gate) Open() bool { return g.Min == "" && g.Max == "" }

// Allows reports whether version is within the gate. An unparseable version
// is an error.
func (g Gate) Allows(version string) (bool, error) {
	v := Canonical(version)
	if !semver.IsValid(v) {
		return false, errors.Errorf("invalid gateway version %q", version)
	}
	if g.Min != "" && semver.Compare(v, Canonical(g.Min)) < 0 {
		return false, nil
	}
	if g.Max != "" && semver.Compare(v, Canonical(g.Max)) >= 0 {
		return false, nil
	}
	return true, nil
}

func (g Gate) String() string {
	switch {
	case g.Min != "" && g.Max != "":
		return fmt.Sprintf(">= %s, < %s", g.Min, g.Max)
	case g.Min != "":
		return ">= " + g.Min
	case g.Max != "":
		return "< " + g.Max
	}
	return "any"
}

// Check asks the gateway for its version and compares it with the gate of
// desc. If the version is not supported, a skipped change record carrying a
// warning is returned. A nil record means the invocation may proceed.
//
// No call is made for types without a version range.
func Check(ctx context.Context, c resource.Client, desc *resource.Descriptor) (*resource.ChangeRecord, error) {
	g := ForDescriptor(desc)
	if g.Open() {
		return nil, nil
	}
	version, err := c.Version(ctx)
	if err != nil {
		return nil, &resource.RemoteCallError{Op: "version", Type: desc.Type, Err: err}
	}
	ok, err := g.Allows(version)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, nil
	}
	return &resource.ChangeRecord{
		Skipped:  true,
		Snapshot: resource.Snapshot{},
		Warnings: []string{
			fmt.Sprintf("%s requires gateway version %s, got %s", desc.Type, g, version),
		},
	}, nil
}

// Canonical converts gateway version strings such as "R4_5.2100.0" or
// "4.0" to semantic versions with a "v" prefix.
func Canonical(version string) string {
	v := strings.TrimSpace(version)
	v = strings.Trim(v, `"`)
	if i := strings.IndexByte(v, '_'); i >= 0 && strings.HasPrefix(strings.ToUpper(v), "R") {
		// Release builds are reported as R<major>_<minor>.<build>.
		v = v[1:i] + "." + v[i+1:]
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	parts := strings.SplitN(v, ".", 4)
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return semver.Canonical(strings.Join(parts, "."))
}
