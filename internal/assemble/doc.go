// Package assemble rebuilds a query tree from post-order completion events.
//
// An Assembler is a syntax.Listener. syntax.Walk reports every node after
// all of its descendants; the Assembler turns each completed query node
// into a queryir.Query and hands it to the nearest enclosing combinator
// (AND, OR, NOT), skipping grouping and other structural nodes. When a
// combinator completes it consumes what its descendants handed it, checks
// its arity, and hands itself up the same way. Queries with no enclosing
// combinator land in a root bucket, which Result reduces to the final tree.
//
// Pending children are kept in a map keyed by syntax node identity, so the
// result never depends on traversal bookkeeping beyond the node pointers.
//
// Two counters back the construction: every completed query node is
// observed, every hand-off is registered, and the two must agree after
// each event. A disagreement is an ErrCodeInternalInconsistency error,
// which indicates a bug in a builder rather than bad input.
//
// An Assembler serves exactly one traversal and is not safe for concurrent
// use. Create one per parse; Assemble does this for you.
package assemble
