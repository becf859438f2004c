package schema

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/roach88/filterql/internal/ir"
)

// ValueParser turns the raw text of a literal token into a typed value.
// Implementations must be pure and safe for concurrent use.
type ValueParser interface {
	Parse(text string) (ir.IRValue, error)
}

// ParserFunc adapts a function to the ValueParser interface.
type ParserFunc func(text string) (ir.IRValue, error)

// Parse calls f(text).
func (f ParserFunc) Parse(text string) (ir.IRValue, error) {
	return f(text)
}

// ParserSource looks up the parser for a value type.
type ParserSource interface {
	ParserFor(t ValueType) (ValueParser, error)
}

// Parsers is a registry of value parsers keyed by type.
//
// Thread-safety: Parsers is safe for concurrent use.
type Parsers struct {
	mu      sync.RWMutex
	parsers map[ValueType]ValueParser
}

// DefaultParsers returns a registry with the built-in string, int, and
// bool parsers.
func DefaultParsers() *Parsers {
	p := &Parsers{parsers: make(map[ValueType]ValueParser, 3)}
	p.Set(TypeString, ParserFunc(ParseString))
	p.Set(TypeInt, ParserFunc(ParseInt))
	p.Set(TypeBool, ParserFunc(ParseBool))
	return p
}

// Set registers (or replaces) the parser for t.
func (p *Parsers) Set(t ValueType, parser ValueParser) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.parsers == nil {
		p.parsers = make(map[ValueType]ValueParser)
	}
	p.parsers[t] = parser
}

// ParserFor returns the parser registered for t.
func (p *Parsers) ParserFor(t ValueType) (ValueParser, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	parser, ok := p.parsers[t]
	if !ok {
		return nil, fmt.Errorf("no value parser registered for type %q", t)
	}
	return parser, nil
}

// ParseString parses a quoted string literal. Both 'single' and "double"
// quotes are accepted; the enclosing quote character escapes itself by
// doubling ('O''Brien').
func ParseString(text string) (ir.IRValue, error) {
	if len(text) < 2 {
		return nil, fmt.Errorf("invalid string literal %q: must be quoted", text)
	}
	quote := text[0]
	if (quote != '\'' && quote != '"') || text[len(text)-1] != quote {
		return nil, fmt.Errorf("invalid string literal %q: must be quoted", text)
	}

	body := text[1 : len(text)-1]
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == quote {
			if i+1 >= len(body) || body[i+1] != quote {
				return nil, fmt.Errorf("invalid string literal %q: unescaped quote at offset %d", text, i+1)
			}
			i++
		}
		b.WriteByte(c)
	}
	return ir.IRString(b.String()), nil
}

// ParseInt parses a base-10 int64 literal with an optional sign.
func ParseInt(text string) (ir.IRValue, error) {
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid int literal %q: %w", text, err)
	}
	return ir.IRInt(n), nil
}

// ParseBool parses true or false, case-insensitively.
func ParseBool(text string) (ir.IRValue, error) {
	switch {
	case strings.EqualFold(text, "true"):
		return ir.IRBool(true), nil
	case strings.EqualFold(text, "false"):
		return ir.IRBool(false), nil
	default:
		return nil, fmt.Errorf("invalid bool literal %q: must be true or false", text)
	}
}
