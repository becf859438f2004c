// Package harness runs filter conformance scenarios.
//
// A scenario is a YAML file naming a schema and a list of cases. Each case
// is a filter with either its expected rendering (the queryir.Format
// output of the assembled tree) or the error code it must be rejected
// with. Scenarios may also carry fixture rows; every accepted filter is
// then compiled to SQL and run against a fresh in-memory SQLite table,
// and the matching row IDs are compared too.
//
// Example scenario:
//
//	name: cars_basic
//	description: "Comparison and combinator basics"
//	schema: ../schemas/cars.yaml
//	rows:
//	  - {id: 1, name: Ford, price: 100}
//	  - {id: 2, name: Kia, price: 300}
//	cases:
//	  - filter: "price < 200"
//	    expect:
//	      query: "price < 200"
//	      ids: [1]
//	  - filter: "colour = 'red'"
//	    expect:
//	      error: UNKNOWN_ATTRIBUTE
//
// Results can be snapshotted with RunWithGolden, which stores canonical
// JSON under testdata/golden.
package harness
