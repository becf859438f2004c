package schema

import (
	"fmt"
	"strings"
)

// ValueType is the declared type of an attribute's values.
type ValueType string

// Supported value types. Floats are forbidden (non-deterministic comparison).
const (
	TypeString ValueType = "string"
	TypeInt    ValueType = "int"
	TypeBool   ValueType = "bool"
)

// ValidValueTypes lists every type a schema may declare.
var ValidValueTypes = map[ValueType]bool{
	TypeString: true,
	TypeInt:    true,
	TypeBool:   true,
}

// ParseValueType converts a schema type name to a ValueType.
func ParseValueType(s string) (ValueType, error) {
	t := ValueType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case "float", "number", "float64", "decimal":
		return "", fmt.Errorf("float types are forbidden - use int instead")
	}
	if !ValidValueTypes[t] {
		return "", fmt.Errorf("unsupported type %q, must be one of string, int, bool", s)
	}
	return t, nil
}

// Capability is a bit set of traits gating which operators apply.
type Capability uint8

const (
	// Orderable values support <, <=, >, >=, BETWEEN.
	Orderable Capability = 1 << iota
	// TextValued values support STARTS WITH, ENDS WITH, CONTAINS.
	TextValued
)

// Has reports whether every bit of want is set.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

func (c Capability) String() string {
	var parts []string
	if c.Has(Orderable) {
		parts = append(parts, "orderable")
	}
	if c.Has(TextValued) {
		parts = append(parts, "text")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// DefaultCapabilities returns the capabilities a type carries unless a
// schema narrows them.
func DefaultCapabilities(t ValueType) Capability {
	switch t {
	case TypeString:
		return Orderable | TextValued
	case TypeInt:
		return Orderable
	default:
		return 0
	}
}

// Attribute describes one filterable attribute.
// Attributes are values; copying one never aliases registry state.
type Attribute struct {
	Name string
	Type ValueType
	Caps Capability
}

// Definition is the loader-neutral form of an attribute declaration.
// Nil capability overrides keep the type's default.
type Definition struct {
	Name       string
	Type       string
	Orderable  *bool
	TextValued *bool
}

// NewAttribute creates an Attribute with the default capabilities for t.
func NewAttribute(name string, t ValueType) Attribute {
	return Attribute{Name: name, Type: t, Caps: DefaultCapabilities(t)}
}

// Attribute converts a definition into an Attribute.
// Overrides may only remove capabilities the type has.
func (d Definition) Attribute() (Attribute, error) {
	if strings.TrimSpace(d.Name) == "" {
		return Attribute{}, fmt.Errorf("attribute name is required")
	}
	t, err := ParseValueType(d.Type)
	if err != nil {
		return Attribute{}, fmt.Errorf("attribute %q: %w", d.Name, err)
	}

	attr := NewAttribute(d.Name, t)
	if attr.Caps, err = applyOverride(attr.Caps, Orderable, d.Orderable, t); err != nil {
		return Attribute{}, fmt.Errorf("attribute %q: %w", d.Name, err)
	}
	if attr.Caps, err = applyOverride(attr.Caps, TextValued, d.TextValued, t); err != nil {
		return Attribute{}, fmt.Errorf("attribute %q: %w", d.Name, err)
	}
	return attr, nil
}

func applyOverride(caps, bit Capability, override *bool, t ValueType) (Capability, error) {
	if override == nil {
		return caps, nil
	}
	if *override {
		if !DefaultCapabilities(t).Has(bit) {
			return caps, fmt.Errorf("type %s cannot be %s", t, bit)
		}
		return caps | bit, nil
	}
	return caps &^ bit, nil
}
