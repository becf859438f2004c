// Package queryir defines the query tree produced by assembling a filter.
//
// The tree is immutable once built. Query is a sealed interface using the
// marker method pattern: only types in this package implement it, so
// consumers can switch exhaustively.
//
//	switch q := query.(type) {
//	case All:
//	case And:
//	    // q.Children
//	case Equal:
//	    // q.Attribute, q.Value
//	...
//	}
//
// Combinators:
//   - All matches everything (the empty filter)
//   - And / Or have one or more children, kept in source order
//   - Not has exactly one child
//
// Predicates reference a schema.Attribute and carry ir.IRValue literals,
// so trees never contain floats or nulls. Negated source operators (!=,
// NOT BETWEEN, NOT IN, NOT HAS) have no dedicated node; they are Not
// wrapping the positive predicate.
//
// Format renders a tree back to filter text, ToIR encodes it as an
// ir.IRObject, and Fingerprint hashes that encoding, so two parses of the
// same filter can be compared without walking both trees.
package queryir
