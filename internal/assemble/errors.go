package assemble

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/filterql/internal/schema"
	"github.com/roach88/filterql/internal/syntax"
)

// FilterError represents an error detected while assembling a query tree.
//
// Filter errors include:
//   - Unknown attribute: the name is not in the registry
//   - Type mismatch: the operator needs a capability the attribute lacks
//   - Arity: wrong number of parameters for BETWEEN or IN
//   - Value parse: a literal does not parse as the attribute's type
//   - Malformed structure: combinator or root arity violated
//   - Internal inconsistency: a completed node was never registered
//
// Every FilterError aborts the parse; no partial tree is returned.
type FilterError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Attribute is the attribute name involved, if any.
	Attribute string

	// Operator is the filter operator involved, e.g. "BETWEEN".
	Operator string

	// Token is the offending literal text, for value parse errors.
	Token string

	// Pos locates the syntax node being completed when the error occurred.
	Pos syntax.Pos

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause.
	Err error
}

// ErrorCode categorizes filter errors.
type ErrorCode string

const (
	// ErrCodeUnknownAttribute indicates an attribute name is not registered.
	ErrCodeUnknownAttribute ErrorCode = "UNKNOWN_ATTRIBUTE"

	// ErrCodeTypeMismatch indicates an operator is not applicable to the
	// attribute's type.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// ErrCodeArity indicates a wrong parameter count.
	ErrCodeArity ErrorCode = "ARITY"

	// ErrCodeValueParse indicates a literal could not be parsed.
	ErrCodeValueParse ErrorCode = "VALUE_PARSE"

	// ErrCodeMalformedStructure indicates combinator or root arity was violated.
	ErrCodeMalformedStructure ErrorCode = "MALFORMED_STRUCTURE"

	// ErrCodeInternalInconsistency indicates assembly bookkeeping disagrees
	// with the events observed.
	ErrCodeInternalInconsistency ErrorCode = "INTERNAL_INCONSISTENCY"
)

// Error implements the error interface.
func (e *FilterError) Error() string {
	var ctx []string
	if e.Attribute != "" {
		ctx = append(ctx, "attribute="+e.Attribute)
	}
	if e.Operator != "" {
		ctx = append(ctx, "operator="+e.Operator)
	}
	if e.Pos.Line > 0 {
		ctx = append(ctx, "at="+e.Pos.String())
	}

	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if len(ctx) > 0 {
		msg += " (" + strings.Join(ctx, ", ") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *FilterError) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the FilterError in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var fe *FilterError
	if errors.As(err, &fe) {
		return fe.Code, true
	}
	return "", false
}

func hasCode(err error, code ErrorCode) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

// IsUnknownAttribute returns true if err is an unknown attribute error.
// Uses errors.As to handle wrapped errors.
func IsUnknownAttribute(err error) bool { return hasCode(err, ErrCodeUnknownAttribute) }

// IsTypeMismatch returns true if err is a type mismatch error.
func IsTypeMismatch(err error) bool { return hasCode(err, ErrCodeTypeMismatch) }

// IsArity returns true if err is an arity error.
func IsArity(err error) bool { return hasCode(err, ErrCodeArity) }

// IsValueParse returns true if err is a value parse error.
func IsValueParse(err error) bool { return hasCode(err, ErrCodeValueParse) }

// IsMalformedStructure returns true if err is a malformed structure error.
func IsMalformedStructure(err error) bool { return hasCode(err, ErrCodeMalformedStructure) }

// IsInternalInconsistency returns true if err is an internal inconsistency error.
func IsInternalInconsistency(err error) bool { return hasCode(err, ErrCodeInternalInconsistency) }

// NewUnknownAttributeError creates a FilterError for an unregistered name.
// Suggestions, if any, are listed in the message and in Details.
func NewUnknownAttributeError(name string, suggestions []string, cause error) *FilterError {
	e := &FilterError{
		Code:      ErrCodeUnknownAttribute,
		Message:   fmt.Sprintf("unknown attribute %q", name),
		Attribute: name,
		Err:       cause,
	}
	if len(suggestions) > 0 {
		e.Message += fmt.Sprintf(", did you mean %s?", strings.Join(suggestions, ", "))
		e.Details = map[string]string{"suggestions": strings.Join(suggestions, ",")}
	}
	return e
}

// NewTypeMismatchError creates a FilterError for an operator applied to an
// attribute lacking the capability it requires.
func NewTypeMismatchError(attr schema.Attribute, operator string, required schema.Capability) *FilterError {
	return &FilterError{
		Code:      ErrCodeTypeMismatch,
		Message:   fmt.Sprintf("operator %s requires %s, %q (%s) is %s", operator, required, attr.Name, attr.Type, attr.Caps),
		Attribute: attr.Name,
		Operator:  operator,
		Details: map[string]string{
			"type":     string(attr.Type),
			"required": required.String(),
			"has":      attr.Caps.String(),
		},
	}
}

// NewArityError creates a FilterError for a wrong parameter count.
func NewArityError(attribute, operator string, got int, want string) *FilterError {
	return &FilterError{
		Code:      ErrCodeArity,
		Message:   fmt.Sprintf("operator %s takes %s, got %d", operator, want, got),
		Attribute: attribute,
		Operator:  operator,
		Details: map[string]string{
			"got":  fmt.Sprintf("%d", got),
			"want": want,
		},
	}
}

// NewValueParseError creates a FilterError for a literal that does not
// parse as the attribute's type.
func NewValueParseError(attr schema.Attribute, operator, token string, cause error) *FilterError {
	return &FilterError{
		Code:      ErrCodeValueParse,
		Message:   fmt.Sprintf("cannot parse %s as %s", token, attr.Type),
		Attribute: attr.Name,
		Operator:  operator,
		Token:     token,
		Details:   map[string]string{"type": string(attr.Type)},
		Err:       cause,
	}
}

// NewMalformedStructureError creates a FilterError for a structural violation.
func NewMalformedStructureError(operator, message string) *FilterError {
	return &FilterError{
		Code:     ErrCodeMalformedStructure,
		Message:  message,
		Operator: operator,
	}
}

// NewInternalInconsistencyError creates a FilterError for bookkeeping
// that disagrees with the observed events.
func NewInternalInconsistencyError(message string, details map[string]string) *FilterError {
	return &FilterError{
		Code:    ErrCodeInternalInconsistency,
		Message: message,
		Details: details,
	}
}
