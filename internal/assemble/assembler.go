package assemble

import (
	"errors"
	"fmt"

	"github.com/roach88/filterql/internal/queryir"
	"github.com/roach88/filterql/internal/schema"
	"github.com/roach88/filterql/internal/syntax"
)

// handler completes one query node. It must register exactly one query
// through emit on success.
type handler func(a *Assembler, n *syntax.Node) error

// Assembler builds a queryir.Query from post-order completion events.
type Assembler struct {
	resolver schema.Resolver
	parsers  schema.ParserSource
	handlers map[syntax.NodeKind]handler

	pending map[*syntax.Node][]queryir.Query
	root    []queryir.Query
	counts  completeness

	err  error
	done bool
}

// New creates an Assembler for one traversal.
func New(resolver schema.Resolver, parsers schema.ParserSource) *Assembler {
	return newAssembler(resolver, parsers, builders)
}

func newAssembler(resolver schema.Resolver, parsers schema.ParserSource, handlers map[syntax.NodeKind]handler) *Assembler {
	return &Assembler{
		resolver: resolver,
		parsers:  parsers,
		handlers: handlers,
		pending:  make(map[*syntax.Node][]queryir.Query),
	}
}

// Assemble walks the tree rooted at root and returns the assembled query.
func Assemble(root *syntax.Node, resolver schema.Resolver, parsers schema.ParserSource) (queryir.Query, error) {
	a := New(resolver, parsers)
	if err := syntax.Walk(root, a); err != nil {
		return nil, err
	}
	return a.Result()
}

// Exit handles the completion of n. Structural nodes (filter root,
// groups, attribute names, parameters) are ignored. After the first error
// every call returns that error.
func (a *Assembler) Exit(n *syntax.Node) error {
	if a.err != nil {
		return a.err
	}
	if a.done {
		return NewMalformedStructureError("", "node completed after the result was taken")
	}
	if !n.Kind.IsQuery() {
		return nil
	}

	a.counts.observe()
	h, ok := a.handlers[n.Kind]
	if !ok {
		return a.fail(n, NewInternalInconsistencyError(
			fmt.Sprintf("no builder for %s nodes", n.Kind),
			map[string]string{"kind": n.Kind.String()},
		))
	}
	if err := h(a, n); err != nil {
		return a.fail(n, err)
	}
	if err := a.counts.check(); err != nil {
		return a.fail(n, err)
	}
	return nil
}

// fail records err, attaching n's position when the error has none.
func (a *Assembler) fail(n *syntax.Node, err error) error {
	var fe *FilterError
	if errors.As(err, &fe) && fe.Pos == (syntax.Pos{}) {
		fe.Pos = n.Pos
	}
	a.err = err
	return err
}

// emit hands q, the query completed at n, to n's nearest combinator
// ancestor, or to the root bucket when there is none.
func (a *Assembler) emit(n *syntax.Node, q queryir.Query) {
	if parent := combinatorAncestor(n); parent != nil {
		a.pending[parent] = append(a.pending[parent], q)
	} else {
		a.root = append(a.root, q)
	}
	a.counts.register()
}

// takeChildren removes and returns the queries handed to combinator n.
func (a *Assembler) takeChildren(n *syntax.Node) []queryir.Query {
	children := a.pending[n]
	delete(a.pending, n)
	return children
}

func combinatorAncestor(n *syntax.Node) *syntax.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind.IsCombinator() {
			return p
		}
	}
	return nil
}

// Result returns the assembled query: All for an empty filter, the sole
// top-level query otherwise. It may be called once.
func (a *Assembler) Result() (queryir.Query, error) {
	if a.err != nil {
		return nil, a.err
	}
	if a.done {
		return nil, NewMalformedStructureError("", "result already taken")
	}
	a.done = true

	if err := a.counts.check(); err != nil {
		a.err = err
		return nil, err
	}
	if len(a.pending) > 0 {
		a.err = NewInternalInconsistencyError(
			fmt.Sprintf("%d combinators never completed", len(a.pending)),
			map[string]string{"pending": fmt.Sprintf("%d", len(a.pending))},
		)
		return nil, a.err
	}

	root := a.root
	a.root, a.pending = nil, nil

	switch len(root) {
	case 0:
		return queryir.All{}, nil
	case 1:
		return root[0], nil
	default:
		a.err = NewMalformedStructureError("", fmt.Sprintf("expected one top-level expression, found %d", len(root)))
		return nil, a.err
	}
}
