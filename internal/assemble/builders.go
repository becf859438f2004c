package assemble

import (
	"fmt"

	"github.com/roach88/filterql/internal/ir"
	"github.com/roach88/filterql/internal/queryir"
	"github.com/roach88/filterql/internal/schema"
	"github.com/roach88/filterql/internal/syntax"
)

// builder turns a completed node into a query without registering it.
type builder func(a *Assembler, n *syntax.Node) (queryir.Query, error)

// builders maps every query node kind to its handler. Negated source
// operators wrap the positive builder in Not.
var builders = map[syntax.NodeKind]handler{
	syntax.NodeAnd: buildAnd,
	syntax.NodeOr:  buildOr,
	syntax.NodeNot: buildNot,

	syntax.NodeEqual:              emits(comparison(0, equal)),
	syntax.NodeNotEqual:           emits(negate(comparison(0, equal))),
	syntax.NodeLessThan:           emits(comparison(schema.Orderable, lessThan)),
	syntax.NodeLessThanOrEqual:    emits(comparison(schema.Orderable, lessThanOrEqual)),
	syntax.NodeGreaterThan:        emits(comparison(schema.Orderable, greaterThan)),
	syntax.NodeGreaterThanOrEqual: emits(comparison(schema.Orderable, greaterThanOrEqual)),

	syntax.NodeBetween:    emits(between),
	syntax.NodeNotBetween: emits(negate(between)),
	syntax.NodeIn:         emits(in),
	syntax.NodeNotIn:      emits(negate(in)),

	syntax.NodeStartsWith: emits(pattern(startsWith)),
	syntax.NodeEndsWith:   emits(pattern(endsWith)),
	syntax.NodeContains:   emits(pattern(contains)),

	syntax.NodeHas:    emits(has),
	syntax.NodeNotHas: emits(negate(has)),
}

// emits adapts a builder to a handler that registers its result.
func emits(b builder) handler {
	return func(a *Assembler, n *syntax.Node) error {
		q, err := b(a, n)
		if err != nil {
			return err
		}
		a.emit(n, q)
		return nil
	}
}

func negate(b builder) builder {
	return func(a *Assembler, n *syntax.Node) (queryir.Query, error) {
		q, err := b(a, n)
		if err != nil {
			return nil, err
		}
		return queryir.Not{Child: q}, nil
	}
}

func buildAnd(a *Assembler, n *syntax.Node) error {
	children := a.takeChildren(n)
	if len(children) == 0 {
		return NewMalformedStructureError("AND", "AND requires at least one operand")
	}
	a.emit(n, queryir.NewAnd(children...))
	return nil
}

func buildOr(a *Assembler, n *syntax.Node) error {
	children := a.takeChildren(n)
	if len(children) == 0 {
		return NewMalformedStructureError("OR", "OR requires at least one operand")
	}
	a.emit(n, queryir.NewOr(children...))
	return nil
}

func buildNot(a *Assembler, n *syntax.Node) error {
	children := a.takeChildren(n)
	if len(children) != 1 {
		return NewMalformedStructureError("NOT", fmt.Sprintf("NOT requires exactly one operand, got %d", len(children)))
	}
	a.emit(n, queryir.Not{Child: children[0]})
	return nil
}

func equal(attr schema.Attribute, v ir.IRValue) queryir.Query {
	return queryir.Equal{Attribute: attr, Value: v}
}

func lessThan(attr schema.Attribute, v ir.IRValue) queryir.Query {
	return queryir.LessThan{Attribute: attr, Value: v}
}

func lessThanOrEqual(attr schema.Attribute, v ir.IRValue) queryir.Query {
	return queryir.LessThanOrEqual{Attribute: attr, Value: v}
}

func greaterThan(attr schema.Attribute, v ir.IRValue) queryir.Query {
	return queryir.GreaterThan{Attribute: attr, Value: v}
}

func greaterThanOrEqual(attr schema.Attribute, v ir.IRValue) queryir.Query {
	return queryir.GreaterThanOrEqual{Attribute: attr, Value: v}
}

// comparison builds a single-operand predicate on an attribute carrying
// the required capabilities.
func comparison(requires schema.Capability, build func(schema.Attribute, ir.IRValue) queryir.Query) builder {
	return func(a *Assembler, n *syntax.Node) (queryir.Query, error) {
		attr, err := a.resolve(n, requires)
		if err != nil {
			return nil, err
		}
		params := n.Parameters()
		if len(params) != 1 {
			return nil, NewArityError(attr.Name, n.Kind.Operator(), len(params), "exactly 1 parameter")
		}
		v, err := a.coerce(n, attr, params[0])
		if err != nil {
			return nil, err
		}
		return build(attr, v), nil
	}
}

func between(a *Assembler, n *syntax.Node) (queryir.Query, error) {
	attr, err := a.resolve(n, schema.Orderable)
	if err != nil {
		return nil, err
	}
	params := n.Parameters()
	if len(params) != 2 {
		return nil, NewArityError(attr.Name, n.Kind.Operator(), len(params), "exactly 2 parameters")
	}
	values, err := a.coerceAll(n, attr, params)
	if err != nil {
		return nil, err
	}
	return queryir.Between{Attribute: attr, Lower: values[0], Upper: values[1]}, nil
}

func in(a *Assembler, n *syntax.Node) (queryir.Query, error) {
	attr, err := a.resolve(n, 0)
	if err != nil {
		return nil, err
	}
	params := n.Parameters()
	if len(params) == 0 {
		return nil, NewArityError(attr.Name, n.Kind.Operator(), 0, "at least 1 parameter")
	}
	values, err := a.coerceAll(n, attr, params)
	if err != nil {
		return nil, err
	}
	return queryir.NewIn(attr, values...), nil
}

func startsWith(attr schema.Attribute, text string) queryir.Query {
	return queryir.StartsWith{Attribute: attr, Text: text}
}

func endsWith(attr schema.Attribute, text string) queryir.Query {
	return queryir.EndsWith{Attribute: attr, Text: text}
}

func contains(attr schema.Attribute, text string) queryir.Query {
	return queryir.Contains{Attribute: attr, Text: text}
}

// pattern builds a text predicate. The parameter is coerced first and the
// wildcard markers stripped from the parsed value.
func pattern(build func(schema.Attribute, string) queryir.Query) builder {
	return func(a *Assembler, n *syntax.Node) (queryir.Query, error) {
		attr, err := a.resolve(n, schema.TextValued)
		if err != nil {
			return nil, err
		}
		params := n.Parameters()
		if len(params) != 1 {
			return nil, NewArityError(attr.Name, n.Kind.Operator(), len(params), "exactly 1 parameter")
		}
		v, err := a.coerce(n, attr, params[0])
		if err != nil {
			return nil, err
		}
		text, ok := v.(ir.IRString)
		if !ok {
			return nil, NewValueParseError(attr, n.Kind.Operator(), params[0].Text,
				fmt.Errorf("pattern operand must be a string, got %s", ir.TypeName(v)))
		}
		return build(attr, stripPattern(n.Kind, string(text))), nil
	}
}

func has(a *Assembler, n *syntax.Node) (queryir.Query, error) {
	attr, err := a.resolve(n, 0)
	if err != nil {
		return nil, err
	}
	if params := n.Parameters(); len(params) != 0 {
		return nil, NewArityError(attr.Name, n.Kind.Operator(), len(params), "no parameters")
	}
	return queryir.Has{Attribute: attr}, nil
}
