package queryir

import (
	"fmt"

	"github.com/roach88/filterql/internal/ir"
	"github.com/roach88/filterql/internal/schema"
)

// ValidationResult lists structural problems found in a tree.
type ValidationResult struct {
	// Valid is true when Problems is empty.
	Valid bool

	// Problems describes each violation, in traversal order.
	Problems []string
}

// Validate checks that q is a well-formed tree:
//  1. No nil nodes, and All only as the whole tree
//  2. And/Or have at least one child; Not has exactly one
//  3. Predicates name an attribute and carry non-nil values of its type
//  4. Ordering predicates use orderable attributes; pattern predicates
//     use text attributes
//  5. In has at least one value
//
// Trees built by the assembler always validate; Validate exists for trees
// built by hand or decoded from elsewhere. It is a pure function.
func Validate(q Query) ValidationResult {
	v := &validator{problems: []string{}}
	if _, ok := q.(All); !ok {
		v.validateQuery(q, "root")
	}
	return ValidationResult{
		Valid:    len(v.problems) == 0,
		Problems: v.problems,
	}
}

type validator struct {
	problems []string
}

func (v *validator) addProblem(path, format string, args ...any) {
	v.problems = append(v.problems, path+": "+fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query, path string) {
	switch n := q.(type) {
	case nil:
		v.addProblem(path, "nil query")
	case All:
		v.addProblem(path, "All may only appear as the whole tree")
	case And:
		v.validateChildren(n.Children, path, "And")
	case Or:
		v.validateChildren(n.Children, path, "Or")
	case Not:
		v.validateQuery(n.Child, path+".child")
	case Equal:
		v.validateValue(n.Attribute, n.Value, path, "value")
	case LessThan:
		v.validateOrdering(n.Attribute, path, n.Value)
	case LessThanOrEqual:
		v.validateOrdering(n.Attribute, path, n.Value)
	case GreaterThan:
		v.validateOrdering(n.Attribute, path, n.Value)
	case GreaterThanOrEqual:
		v.validateOrdering(n.Attribute, path, n.Value)
	case Between:
		v.validateOrdering(n.Attribute, path, n.Lower, n.Upper)
	case In:
		if len(n.Values) == 0 {
			v.addProblem(path, "In on %q has no values", n.Attribute.Name)
		}
		for i, val := range n.Values {
			v.validateValue(n.Attribute, val, path, fmt.Sprintf("values[%d]", i))
		}
	case StartsWith:
		v.validatePattern(n.Attribute, path)
	case EndsWith:
		v.validatePattern(n.Attribute, path)
	case Contains:
		v.validatePattern(n.Attribute, path)
	case Has:
		v.validateAttribute(n.Attribute, path)
	default:
		v.addProblem(path, "unknown query type %T", q)
	}
}

func (v *validator) validateChildren(children []Query, path, kind string) {
	if len(children) == 0 {
		v.addProblem(path, "%s has no children", kind)
	}
	for i, c := range children {
		v.validateQuery(c, fmt.Sprintf("%s.children[%d]", path, i))
	}
}

func (v *validator) validateAttribute(attr schema.Attribute, path string) bool {
	if attr.Name == "" {
		v.addProblem(path, "predicate has no attribute name")
		return false
	}
	return true
}

func (v *validator) validateOrdering(attr schema.Attribute, path string, values ...ir.IRValue) {
	if !v.validateAttribute(attr, path) {
		return
	}
	if !attr.Caps.Has(schema.Orderable) {
		v.addProblem(path, "attribute %q is not orderable", attr.Name)
	}
	for i, val := range values {
		v.validateValue(attr, val, path, fmt.Sprintf("operand[%d]", i))
	}
}

func (v *validator) validatePattern(attr schema.Attribute, path string) {
	if v.validateAttribute(attr, path) && !attr.Caps.Has(schema.TextValued) {
		v.addProblem(path, "attribute %q is not text valued", attr.Name)
	}
}

// validateValue checks that val is present and matches the attribute's
// declared type.
func (v *validator) validateValue(attr schema.Attribute, val ir.IRValue, path, field string) {
	if !v.validateAttribute(attr, path) {
		return
	}
	if val == nil {
		v.addProblem(path, "%s for %q is nil", field, attr.Name)
		return
	}
	if got := ir.TypeName(val); got != string(attr.Type) {
		v.addProblem(path, "%s for %q has type %s, attribute is %s", field, attr.Name, got, attr.Type)
	}
}
