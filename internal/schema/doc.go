// Package schema holds the attribute registry and value parsers that filter
// assembly resolves against.
//
// An Attribute is a named, typed accessor over domain objects. Its
// Capability set (Orderable, TextValued) is fixed at registration and gates
// which operators may be applied to it:
//
//	type     default capabilities
//	----     --------------------
//	string   Orderable | TextValued
//	int      Orderable
//	bool     (none)
//
// Schema files may narrow the defaults (e.g. a string code that must not be
// range-compared) but never widen them.
//
// Registries and parser sets are built once, then shared read-only across
// any number of concurrent parses.
//
// Schemas can be loaded from CUE, HCL, or YAML:
//
//	// cars.cue
//	attribute: {
//	    manufacturer: string
//	    doors:        int
//	    vin:          {type: "string", orderable: false}
//	}
//
//	# cars.hcl
//	attribute "manufacturer" { type = "string" }
//
//	# cars.yaml
//	attributes:
//	  - name: manufacturer
//	    type: string
package schema
