package syntax

import (
	"fmt"
	"strings"
)

// NodeKind identifies a syntax production.
//
// Add new kinds at the end; tests and golden files refer to the numbering
// through String only, but external tools may persist the numbers.
type NodeKind uint8

const (
	NodeFilter NodeKind = iota // root; zero or one child
	NodeGroup                  // ( expr )

	// Combinators
	NodeAnd
	NodeOr
	NodeNot

	// Predicates: children are an attribute name then parameters.
	NodeEqual
	NodeNotEqual
	NodeLessThan
	NodeLessThanOrEqual
	NodeGreaterThan
	NodeGreaterThanOrEqual
	NodeBetween
	NodeNotBetween
	NodeIn
	NodeNotIn
	NodeStartsWith
	NodeEndsWith
	NodeContains
	NodeHas
	NodeNotHas

	// Leaves
	NodeAttributeName
	NodeParameter
)

var nodeKinds = [...]struct {
	name string
	op   string
}{
	NodeFilter:             {"Filter", ""},
	NodeGroup:              {"Group", ""},
	NodeAnd:                {"And", "AND"},
	NodeOr:                 {"Or", "OR"},
	NodeNot:                {"Not", "NOT"},
	NodeEqual:              {"Equal", "="},
	NodeNotEqual:           {"NotEqual", "!="},
	NodeLessThan:           {"LessThan", "<"},
	NodeLessThanOrEqual:    {"LessThanOrEqual", "<="},
	NodeGreaterThan:        {"GreaterThan", ">"},
	NodeGreaterThanOrEqual: {"GreaterThanOrEqual", ">="},
	NodeBetween:            {"Between", "BETWEEN"},
	NodeNotBetween:         {"NotBetween", "NOT BETWEEN"},
	NodeIn:                 {"In", "IN"},
	NodeNotIn:              {"NotIn", "NOT IN"},
	NodeStartsWith:         {"StartsWith", "STARTS WITH"},
	NodeEndsWith:           {"EndsWith", "ENDS WITH"},
	NodeContains:           {"Contains", "CONTAINS"},
	NodeHas:                {"Has", "HAS"},
	NodeNotHas:             {"NotHas", "NOT HAS"},
	NodeAttributeName:      {"AttributeName", ""},
	NodeParameter:          {"Parameter", ""},
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKinds) {
		return nodeKinds[k].name
	}
	return fmt.Sprintf("NodeKind(%d)", k)
}

// Operator returns the filter-language spelling of a combinator or
// predicate kind, or "" for structural kinds.
func (k NodeKind) Operator() string {
	if int(k) < len(nodeKinds) {
		return nodeKinds[k].op
	}
	return ""
}

// IsCombinator reports whether k is AND, OR, or NOT.
func (k NodeKind) IsCombinator() bool {
	return k == NodeAnd || k == NodeOr || k == NodeNot
}

// IsPredicate reports whether k is a comparison, range, membership,
// pattern, or presence production.
func (k NodeKind) IsPredicate() bool {
	return k >= NodeEqual && k <= NodeNotHas
}

// IsQuery reports whether completing a node of kind k yields a query.
func (k NodeKind) IsQuery() bool {
	return k.IsCombinator() || k.IsPredicate()
}

// Node is one syntax tree node. Parent is nil only for the root.
// Node identity (the pointer) is stable for the lifetime of the tree.
type Node struct {
	Kind     NodeKind
	Parent   *Node
	Children []*Node
	// Text is the attribute name for NodeAttributeName and the raw literal
	// for NodeParameter; empty otherwise.
	Text string
	Pos  Pos
}

func newNode(kind NodeKind, pos Pos, children ...*Node) *Node {
	n := &Node{Kind: kind, Pos: pos}
	n.adopt(children...)
	return n
}

func (n *Node) adopt(children ...*Node) {
	for _, c := range children {
		c.Parent = n
		n.Children = append(n.Children, c)
	}
}

// Attribute returns the attribute name of a predicate node.
func (n *Node) Attribute() string {
	for _, c := range n.Children {
		if c.Kind == NodeAttributeName {
			return c.Text
		}
	}
	return ""
}

// Parameters returns the parameter children of a predicate node, in
// source order.
func (n *Node) Parameters() []*Node {
	var params []*Node
	for _, c := range n.Children {
		if c.Kind == NodeParameter {
			params = append(params, c)
		}
	}
	return params
}

// String renders the subtree as an s-expression, e.g.
// (Filter (And (Equal a 5) (Has b))). Leaves render as their text.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n.Kind == NodeAttributeName || n.Kind == NodeParameter {
		b.WriteString(n.Text)
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Kind.String())
	for _, c := range n.Children {
		b.WriteByte(' ')
		c.write(b)
	}
	b.WriteByte(')')
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}
