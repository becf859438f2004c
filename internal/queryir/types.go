package queryir

import (
	"slices"

	"github.com/roach88/filterql/internal/ir"
	"github.com/roach88/filterql/internal/schema"
)

// Query is a node of an assembled filter tree.
//
// This is a sealed interface; see the package documentation.
type Query interface {
	queryNode()
}

// All matches every object.
type All struct{}

// And matches when every child matches.
type And struct {
	Children []Query
}

// Or matches when any child matches.
type Or struct {
	Children []Query
}

// Not matches when its child does not.
type Not struct {
	Child Query
}

// Equal matches attribute = value.
type Equal struct {
	Attribute schema.Attribute
	Value     ir.IRValue
}

// LessThan matches attribute < value.
type LessThan struct {
	Attribute schema.Attribute
	Value     ir.IRValue
}

// LessThanOrEqual matches attribute <= value.
type LessThanOrEqual struct {
	Attribute schema.Attribute
	Value     ir.IRValue
}

// GreaterThan matches attribute > value.
type GreaterThan struct {
	Attribute schema.Attribute
	Value     ir.IRValue
}

// GreaterThanOrEqual matches attribute >= value.
type GreaterThanOrEqual struct {
	Attribute schema.Attribute
	Value     ir.IRValue
}

// Between matches Lower <= attribute <= Upper.
type Between struct {
	Attribute schema.Attribute
	Lower     ir.IRValue
	Upper     ir.IRValue
}

// In matches when the attribute equals any of Values. Values keep
// declaration order; duplicates are retained.
type In struct {
	Attribute schema.Attribute
	Values    []ir.IRValue
}

// StartsWith matches text attributes with the prefix Text.
type StartsWith struct {
	Attribute schema.Attribute
	Text      string
}

// EndsWith matches text attributes with the suffix Text.
type EndsWith struct {
	Attribute schema.Attribute
	Text      string
}

// Contains matches text attributes containing Text.
type Contains struct {
	Attribute schema.Attribute
	Text      string
}

// Has matches objects where the attribute is present.
type Has struct {
	Attribute schema.Attribute
}

func (All) queryNode()                {}
func (And) queryNode()                {}
func (Or) queryNode()                 {}
func (Not) queryNode()                {}
func (Equal) queryNode()              {}
func (LessThan) queryNode()           {}
func (LessThanOrEqual) queryNode()    {}
func (GreaterThan) queryNode()        {}
func (GreaterThanOrEqual) queryNode() {}
func (Between) queryNode()            {}
func (In) queryNode()                 {}
func (StartsWith) queryNode()         {}
func (EndsWith) queryNode()           {}
func (Contains) queryNode()           {}
func (Has) queryNode()                {}

// NewAnd returns an And over a copy of children.
func NewAnd(children ...Query) And {
	return And{Children: slices.Clone(children)}
}

// NewOr returns an Or over a copy of children.
func NewOr(children ...Query) Or {
	return Or{Children: slices.Clone(children)}
}

// NewIn returns an In over a copy of values.
func NewIn(attr schema.Attribute, values ...ir.IRValue) In {
	return In{Attribute: attr, Values: slices.Clone(values)}
}

// AttributeOf returns the attribute a predicate tests, and false for
// combinators and All.
func AttributeOf(q Query) (schema.Attribute, bool) {
	switch n := q.(type) {
	case Equal:
		return n.Attribute, true
	case LessThan:
		return n.Attribute, true
	case LessThanOrEqual:
		return n.Attribute, true
	case GreaterThan:
		return n.Attribute, true
	case GreaterThanOrEqual:
		return n.Attribute, true
	case Between:
		return n.Attribute, true
	case In:
		return n.Attribute, true
	case StartsWith:
		return n.Attribute, true
	case EndsWith:
		return n.Attribute, true
	case Contains:
		return n.Attribute, true
	case Has:
		return n.Attribute, true
	default:
		return schema.Attribute{}, false
	}
}

// KindOf returns the node type name used by Format, ToIR, and errors.
func KindOf(q Query) string {
	switch q.(type) {
	case All:
		return "All"
	case And:
		return "And"
	case Or:
		return "Or"
	case Not:
		return "Not"
	case Equal:
		return "Equal"
	case LessThan:
		return "LessThan"
	case LessThanOrEqual:
		return "LessThanOrEqual"
	case GreaterThan:
		return "GreaterThan"
	case GreaterThanOrEqual:
		return "GreaterThanOrEqual"
	case Between:
		return "Between"
	case In:
		return "In"
	case StartsWith:
		return "StartsWith"
	case EndsWith:
		return "EndsWith"
	case Contains:
		return "Contains"
	case Has:
		return "Has"
	case nil:
		return "nil"
	default:
		return "unknown"
	}
}
