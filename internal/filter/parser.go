package filter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/filterql/internal/assemble"
	"github.com/roach88/filterql/internal/queryir"
	"github.com/roach88/filterql/internal/schema"
	"github.com/roach88/filterql/internal/syntax"
)

// CodeSyntax is the ErrorCode of malformed filter text.
const CodeSyntax = "SYNTAX"

// Parser converts filter text to query trees against one schema.
//
// Thread-safety: Parser is safe for concurrent use provided its resolver
// and value parsers are (schema.Registry and schema.Parsers are).
type Parser struct {
	resolver schema.Resolver
	parsers  schema.ParserSource
	logger   *slog.Logger
	ids      IDGenerator
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithParsers replaces the built-in value parsers.
func WithParsers(parsers schema.ParserSource) ParserOption {
	return func(p *Parser) {
		p.parsers = parsers
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) ParserOption {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithIDGenerator sets the parse ID source. The default is UUIDv7Generator.
func WithIDGenerator(ids IDGenerator) ParserOption {
	return func(p *Parser) {
		p.ids = ids
	}
}

// NewParser creates a Parser resolving attributes through resolver.
func NewParser(resolver schema.Resolver, opts ...ParserOption) *Parser {
	p := &Parser{
		resolver: resolver,
		parsers:  schema.DefaultParsers(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		ids:      UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is a successfully assembled filter.
type Result struct {
	// ID identifies this parse in logs.
	ID string

	// Filter is the input text.
	Filter string

	// Query is the assembled tree.
	Query queryir.Query

	// Nodes is the number of syntax nodes walked.
	Nodes int
}

// Parse converts text into a query tree. The context is checked once
// before work starts; a parse is short and runs to completion.
func (p *Parser) Parse(ctx context.Context, text string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := p.ids.Generate()
	root, err := syntax.Parse(text)
	if err != nil {
		return nil, p.reject(ctx, id, text, err)
	}

	q, err := assemble.Assemble(root, p.resolver, p.parsers)
	if err != nil {
		return nil, p.reject(ctx, id, text, err)
	}

	nodes := root.Count()
	p.logger.DebugContext(ctx, "filter parsed",
		"parse_id", id,
		"filter", text,
		"nodes", nodes,
		"kind", queryir.KindOf(q),
	)
	return &Result{ID: id, Filter: text, Query: q, Nodes: nodes}, nil
}

func (p *Parser) reject(ctx context.Context, id, text string, err error) error {
	p.logger.WarnContext(ctx, "filter rejected",
		"parse_id", id,
		"filter", text,
		"code", ErrorCode(err),
		"error", err,
	)
	return &RejectError{ID: id, Filter: text, Err: err}
}

// RejectError is returned by Parse for filters that fail to parse or
// assemble. It carries the parse ID so callers can correlate output with
// logs.
type RejectError struct {
	ID     string
	Filter string
	Err    error
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.ID, e.Err)
}

func (e *RejectError) Unwrap() error {
	return e.Err
}

// ParseID returns the parse ID of a rejected filter, or "" if err is not
// a rejection.
func ParseID(err error) string {
	var rej *RejectError
	if errors.As(err, &rej) {
		return rej.ID
	}
	return ""
}

// ErrorCode returns the category of a Parse error: CodeSyntax for
// malformed text, the assemble.ErrorCode for assembly errors, or "" for
// anything else (such as a cancelled context).
func ErrorCode(err error) string {
	if syntax.IsSyntaxError(err) {
		return CodeSyntax
	}
	if code, ok := assemble.CodeOf(err); ok {
		return string(code)
	}
	return ""
}
