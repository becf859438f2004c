package queryir

import (
	"fmt"

	"github.com/roach88/filterql/internal/ir"
)

// ToIR encodes q as an IRObject. Every node has a "kind" field; predicates
// add "attribute" plus their operands, combinators add "children" or
// "child". The encoding is what Fingerprint hashes.
func ToIR(q Query) (ir.IRObject, error) {
	obj := ir.IRObject{"kind": ir.IRString(KindOf(q))}

	switch n := q.(type) {
	case All:
	case And:
		children, err := encodeChildren(n.Children)
		if err != nil {
			return nil, err
		}
		obj["children"] = children
	case Or:
		children, err := encodeChildren(n.Children)
		if err != nil {
			return nil, err
		}
		obj["children"] = children
	case Not:
		child, err := ToIR(n.Child)
		if err != nil {
			return nil, fmt.Errorf("child: %w", err)
		}
		obj["child"] = child
	case Equal:
		return predicate(obj, n.Attribute.Name, "value", n.Value)
	case LessThan:
		return predicate(obj, n.Attribute.Name, "value", n.Value)
	case LessThanOrEqual:
		return predicate(obj, n.Attribute.Name, "value", n.Value)
	case GreaterThan:
		return predicate(obj, n.Attribute.Name, "value", n.Value)
	case GreaterThanOrEqual:
		return predicate(obj, n.Attribute.Name, "value", n.Value)
	case Between:
		return predicate(obj, n.Attribute.Name, "lower", n.Lower, "upper", n.Upper)
	case In:
		return predicate(obj, n.Attribute.Name, "values", ir.IRArray(n.Values))
	case StartsWith:
		return predicate(obj, n.Attribute.Name, "text", ir.IRString(n.Text))
	case EndsWith:
		return predicate(obj, n.Attribute.Name, "text", ir.IRString(n.Text))
	case Contains:
		return predicate(obj, n.Attribute.Name, "text", ir.IRString(n.Text))
	case Has:
		return predicate(obj, n.Attribute.Name)
	default:
		return nil, fmt.Errorf("cannot encode query node %T", q)
	}
	return obj, nil
}

func encodeChildren(children []Query) (ir.IRArray, error) {
	out := make(ir.IRArray, len(children))
	for i, c := range children {
		enc, err := ToIR(c)
		if err != nil {
			return nil, fmt.Errorf("children[%d]: %w", i, err)
		}
		out[i] = enc
	}
	return out, nil
}

// predicate fills obj with the attribute name and key/value operand pairs.
func predicate(obj ir.IRObject, attr string, operands ...any) (ir.IRObject, error) {
	obj["attribute"] = ir.IRString(attr)
	for i := 0; i+1 < len(operands); i += 2 {
		key := operands[i].(string)
		v, _ := operands[i+1].(ir.IRValue)
		if v == nil {
			return nil, fmt.Errorf("%s on %q: %s is nil", obj["kind"], attr, key)
		}
		if arr, ok := v.(ir.IRArray); ok {
			for j, elem := range arr {
				if elem == nil {
					return nil, fmt.Errorf("%s on %q: %s[%d] is nil", obj["kind"], attr, key, j)
				}
			}
		}
		obj[key] = v
	}
	return obj, nil
}

// Fingerprint returns a domain-separated SHA-256 hash of q's canonical
// encoding. Structurally equal trees have equal fingerprints.
func Fingerprint(q Query) (string, error) {
	obj, err := ToIR(q)
	if err != nil {
		return "", err
	}
	return ir.Hash(ir.DomainQuery, obj)
}
