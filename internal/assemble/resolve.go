package assemble

import (
	"fmt"
	"strings"

	"github.com/roach88/filterql/internal/ir"
	"github.com/roach88/filterql/internal/schema"
	"github.com/roach88/filterql/internal/syntax"
)

// maxSuggestions bounds "did you mean" candidates on unknown attributes.
const maxSuggestions = 3

// suggester is implemented by resolvers that can propose near matches,
// such as *schema.Registry.
type suggester interface {
	Suggest(name string, limit int) []string
}

// resolve looks up the attribute of predicate node n and checks that it
// carries every capability in requires.
func (a *Assembler) resolve(n *syntax.Node, requires schema.Capability) (schema.Attribute, error) {
	name := n.Attribute()
	attr, err := a.resolver.Resolve(name)
	if err != nil {
		var suggestions []string
		if s, ok := a.resolver.(suggester); ok {
			suggestions = s.Suggest(name, maxSuggestions)
		}
		return schema.Attribute{}, NewUnknownAttributeError(name, suggestions, err)
	}
	if !attr.Caps.Has(requires) {
		return schema.Attribute{}, NewTypeMismatchError(attr, n.Kind.Operator(), requires)
	}
	return attr, nil
}

// coerce parses a parameter with the parser registered for attr's type.
// The parser must return a value of that type.
func (a *Assembler) coerce(n *syntax.Node, attr schema.Attribute, param *syntax.Node) (ir.IRValue, error) {
	op := n.Kind.Operator()
	parser, err := a.parsers.ParserFor(attr.Type)
	if err != nil {
		return nil, NewValueParseError(attr, op, param.Text, err)
	}
	v, err := parser.Parse(param.Text)
	if err != nil {
		return nil, NewValueParseError(attr, op, param.Text, err)
	}
	if v == nil {
		return nil, NewValueParseError(attr, op, param.Text, fmt.Errorf("parser returned no value"))
	}
	if got := ir.TypeName(v); got != string(attr.Type) {
		return nil, NewValueParseError(attr, op, param.Text, fmt.Errorf("parser for %s returned %s", attr.Type, got))
	}
	return v, nil
}

// coerceAll parses every parameter of n, keeping source order.
func (a *Assembler) coerceAll(n *syntax.Node, attr schema.Attribute, params []*syntax.Node) ([]ir.IRValue, error) {
	values := make([]ir.IRValue, 0, len(params))
	for _, p := range params {
		v, err := a.coerce(n, attr, p)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// stripPattern removes the wildcard markers of a pattern operator: one
// trailing % for STARTS WITH, one leading % for ENDS WITH, one of each
// for CONTAINS.
func stripPattern(kind syntax.NodeKind, text string) string {
	switch kind {
	case syntax.NodeStartsWith:
		return strings.TrimSuffix(text, "%")
	case syntax.NodeEndsWith:
		return strings.TrimPrefix(text, "%")
	case syntax.NodeContains:
		return strings.TrimSuffix(strings.TrimPrefix(text, "%"), "%")
	default:
		return text
	}
}
