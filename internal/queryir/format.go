package queryir

import (
	"fmt"
	"strings"

	"github.com/roach88/filterql/internal/ir"
	"github.com/roach88/filterql/internal/syntax"
)

// Format renders q as filter text that parses back to an equal tree.
// And and Or are always parenthesized; All renders as the empty string.
func Format(q Query) string {
	var b strings.Builder
	writeQuery(&b, q)
	return b.String()
}

func writeQuery(b *strings.Builder, q Query) {
	switch n := q.(type) {
	case All:
	case And:
		writeChain(b, "AND", n.Children)
	case Or:
		writeChain(b, "OR", n.Children)
	case Not:
		b.WriteString("NOT ")
		writeQuery(b, n.Child)
	case Equal:
		writeComparison(b, n.Attribute.Name, "=", n.Value)
	case LessThan:
		writeComparison(b, n.Attribute.Name, "<", n.Value)
	case LessThanOrEqual:
		writeComparison(b, n.Attribute.Name, "<=", n.Value)
	case GreaterThan:
		writeComparison(b, n.Attribute.Name, ">", n.Value)
	case GreaterThanOrEqual:
		writeComparison(b, n.Attribute.Name, ">=", n.Value)
	case Between:
		fmt.Fprintf(b, "%s BETWEEN %s AND %s",
			syntax.QuoteIdent(n.Attribute.Name), ir.FormatLiteral(n.Lower), ir.FormatLiteral(n.Upper))
	case In:
		fmt.Fprintf(b, "%s IN %s", syntax.QuoteIdent(n.Attribute.Name), ir.FormatLiteral(ir.IRArray(n.Values)))
	case StartsWith:
		writeComparison(b, n.Attribute.Name, "STARTS WITH", ir.IRString(n.Text+"%"))
	case EndsWith:
		writeComparison(b, n.Attribute.Name, "ENDS WITH", ir.IRString("%"+n.Text))
	case Contains:
		writeComparison(b, n.Attribute.Name, "CONTAINS", ir.IRString("%"+n.Text+"%"))
	case Has:
		b.WriteString("HAS ")
		b.WriteString(syntax.QuoteIdent(n.Attribute.Name))
	default:
		fmt.Fprintf(b, "<%s>", KindOf(q))
	}
}

func writeChain(b *strings.Builder, op string, children []Query) {
	b.WriteByte('(')
	for i, c := range children {
		if i > 0 {
			b.WriteString(" " + op + " ")
		}
		writeQuery(b, c)
	}
	b.WriteByte(')')
}

func writeComparison(b *strings.Builder, name, op string, v ir.IRValue) {
	b.WriteString(syntax.QuoteIdent(name))
	b.WriteString(" " + op + " ")
	b.WriteString(ir.FormatLiteral(v))
}
