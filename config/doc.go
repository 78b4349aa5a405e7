// Package config loads desired-state documents and gateway settings.
//
// A document is a set of .hcl files with one resource block per entity:
//
//  resource "fault_set" "rack1" {
//    fault_set_name       = "rack1"
//    protection_domain_id = "a1b2c3d4"
//  }
//
//  resource "volume" "scratch" {
//    state             = "absent"
//    volume_name       = "scratch"
//    storage_pool_name = "pool1"
//  }
//
// The first label is the resource type, the second a label that is unique
// within the type. The body holds the parameters of the resource type; it is
// decoded by the resource package, not here. Attributes may call env(name)
// to read an environment variable.
//
// A single task can also be loaded from a JSON object of parameters with
// LoadJSON.
package config
