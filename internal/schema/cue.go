package schema

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

// CompileCUESource compiles CUE source text into a Registry.
func CompileCUESource(filename string, src []byte) (*Registry, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	return CompileCUE(v)
}

// CompileCUE parses the "attribute" struct of a CUE value into a Registry.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// Each field is either a bare kind or a struct with explicit options:
//
//	attribute: {
//	    name:  string
//	    doors: int
//	    code:  {type: "string", orderable: false}
//	}
func CompileCUE(v cue.Value) (*Registry, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	attrsVal := v.LookupPath(cue.ParsePath("attribute"))
	if !attrsVal.Exists() {
		return nil, &LoadError{
			Field:   "attribute",
			Message: "attribute struct is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := attrsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var defs []Definition
	for iter.Next() {
		def, err := parseCUEAttribute(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	reg, err := Build(defs)
	if err != nil {
		return nil, &LoadError{Field: "attribute", Message: err.Error(), Pos: attrsVal.Pos()}
	}
	return reg, nil
}

// parseCUEAttribute extracts one attribute declaration.
func parseCUEAttribute(name string, v cue.Value) (Definition, error) {
	def := Definition{Name: name}

	if v.IncompleteKind() != cue.StructKind {
		typeName, err := extractTypeName(v)
		if err != nil {
			return def, err
		}
		def.Type = typeName
		return def, nil
	}

	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return def, &LoadError{
			Field:   fmt.Sprintf("attribute.%s.type", name),
			Message: "type is required",
			Pos:     v.Pos(),
		}
	}
	typeName, err := typeVal.String()
	if err != nil {
		return def, formatCUEError(err)
	}
	def.Type = typeName

	if def.Orderable, err = optionalBool(v, "orderable"); err != nil {
		return def, err
	}
	if def.TextValued, err = optionalBool(v, "text"); err != nil {
		return def, err
	}
	return def, nil
}

func optionalBool(v cue.Value, field string) (*bool, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	b, err := fv.Bool()
	if err != nil {
		return nil, formatCUEError(err)
	}
	return &b, nil
}

// extractTypeName converts a CUE kind to a schema type name.
// Floats are forbidden.
func extractTypeName(v cue.Value) (string, error) {
	switch v.IncompleteKind() {
	case cue.StringKind:
		return string(TypeString), nil
	case cue.IntKind:
		return string(TypeInt), nil
	case cue.BoolKind:
		return string(TypeBool), nil
	case cue.FloatKind, cue.NumberKind:
		return "", &LoadError{
			Field:   "type",
			Message: "float types are forbidden - use int instead",
			Pos:     v.Pos(),
		}
	default:
		return "", &LoadError{
			Field:   "type",
			Message: fmt.Sprintf("unsupported type kind: %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &LoadError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
