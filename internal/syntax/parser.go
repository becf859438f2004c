package syntax

import "strings"

// MaxDepth bounds parenthesis and NOT nesting.
const MaxDepth = 128

// reserved words cannot be bare attribute names or parameters.
var reserved = map[string]bool{
	"AND": true, "OR": true, "NOT": true,
	"BETWEEN": true, "IN": true,
	"STARTS": true, "ENDS": true, "WITH": true, "CONTAINS": true,
	"HAS": true, "WHERE": true,
}

type parser struct {
	toks  []Token
	at    int
	depth int
}

// Parse parses filter text into a tree rooted at a NodeFilter node.
// Empty or whitespace-only text yields a root with no children.
//
// Grammar (keywords case-insensitive):
//
//	filter    = [ "WHERE" ] [ or ]
//	or        = and { "OR" and }
//	and       = unary { "AND" unary }
//	unary     = "NOT" "HAS" attr | "NOT" unary | primary
//	primary   = "(" or ")" | "HAS" attr | predicate
//	predicate = attr ( cmp param
//	                 | [ "NOT" ] "BETWEEN" param { "AND" param }
//	                 | [ "NOT" ] "IN" "(" [ param { "," param } ] ")"
//	                 | "STARTS" "WITH" string | "ENDS" "WITH" string
//	                 | "CONTAINS" string )
func Parse(src string) (*Node, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	root := newNode(NodeFilter, Pos{Line: 1, Column: 1})

	if p.atKeyword("WHERE") {
		where := p.advance()
		if p.peek().Kind == TokenEOF {
			return nil, errorf(where.Pos, "expected expression after WHERE")
		}
	}
	if p.peek().Kind == TokenEOF {
		return root, nil
	}

	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != TokenEOF {
		return nil, errorf(tok.Pos, "unexpected %s", tok.describe())
	}
	root.adopt(expr)
	return root, nil
}

func (p *parser) peek() Token {
	return p.peekAt(0)
}

func (p *parser) peekAt(n int) Token {
	if p.at+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.at+n]
}

func (p *parser) advance() Token {
	tok := p.peek()
	if tok.Kind != TokenEOF {
		p.at++
	}
	return tok
}

func isKeyword(tok Token, word string) bool {
	return tok.Kind == TokenIdent && strings.EqualFold(tok.Text, word)
}

func isReserved(tok Token) bool {
	return tok.Kind == TokenIdent && reserved[strings.ToUpper(tok.Text)]
}

func (p *parser) atKeyword(word string) bool {
	return isKeyword(p.peek(), word)
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return tok, errorf(tok.Pos, "expected %q, found %s", kind.String(), tok.describe())
	}
	return p.advance(), nil
}

func (p *parser) expectKeyword(word string) error {
	tok := p.peek()
	if !isKeyword(tok, word) {
		return errorf(tok.Pos, "expected %s, found %s", word, tok.describe())
	}
	p.advance()
	return nil
}

func (p *parser) enter(pos Pos) error {
	p.depth++
	if p.depth > MaxDepth {
		return errorf(pos, "expression nested deeper than %d levels", MaxDepth)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) parseOr() (*Node, error) {
	return p.parseChain("OR", NodeOr, p.parseAnd)
}

func (p *parser) parseAnd() (*Node, error) {
	return p.parseChain("AND", NodeAnd, p.parseUnary)
}

// parseChain parses operand { word operand }. A single operand is returned
// as is; two or more become one n-ary node.
func (p *parser) parseChain(word string, kind NodeKind, operand func() (*Node, error)) (*Node, error) {
	first, err := operand()
	if err != nil {
		return nil, err
	}
	if !p.atKeyword(word) {
		return first, nil
	}

	n := newNode(kind, first.Pos, first)
	for p.atKeyword(word) {
		p.advance()
		next, err := operand()
		if err != nil {
			return nil, err
		}
		n.adopt(next)
	}
	return n, nil
}

func (p *parser) parseUnary() (*Node, error) {
	if !p.atKeyword("NOT") {
		return p.parsePrimary()
	}
	not := p.advance()

	if p.atKeyword("HAS") {
		p.advance()
		attr, err := p.parseAttribute()
		if err != nil {
			return nil, err
		}
		return newNode(NodeNotHas, not.Pos, attr), nil
	}

	if err := p.enter(not.Pos); err != nil {
		return nil, err
	}
	defer p.leave()
	child, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return newNode(NodeNot, not.Pos, child), nil
}

func (p *parser) parsePrimary() (*Node, error) {
	tok := p.peek()
	switch {
	case tok.Kind == TokenLParen:
		p.advance()
		if err := p.enter(tok.Pos); err != nil {
			return nil, err
		}
		defer p.leave()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return newNode(NodeGroup, tok.Pos, inner), nil
	case isKeyword(tok, "HAS"):
		p.advance()
		attr, err := p.parseAttribute()
		if err != nil {
			return nil, err
		}
		return newNode(NodeHas, tok.Pos, attr), nil
	default:
		return p.parsePredicate()
	}
}

func (p *parser) parseAttribute() (*Node, error) {
	tok := p.peek()
	switch {
	case tok.Kind == TokenQuotedIdent, tok.Kind == TokenIdent && !isReserved(tok):
		p.advance()
		return &Node{Kind: NodeAttributeName, Text: tok.Text, Pos: tok.Pos}, nil
	default:
		return nil, errorf(tok.Pos, "expected attribute name, found %s", tok.describe())
	}
}

func (p *parser) parseParameter() (*Node, error) {
	tok := p.peek()
	switch {
	case tok.Kind == TokenString, tok.Kind == TokenNumber, tok.Kind == TokenIdent && !isReserved(tok):
		p.advance()
		return &Node{Kind: NodeParameter, Text: tok.Text, Pos: tok.Pos}, nil
	default:
		return nil, errorf(tok.Pos, "expected literal, found %s", tok.describe())
	}
}

var comparisons = map[TokenKind]NodeKind{
	TokenEq:    NodeEqual,
	TokenNotEq: NodeNotEqual,
	TokenLt:    NodeLessThan,
	TokenLtEq:  NodeLessThanOrEqual,
	TokenGt:    NodeGreaterThan,
	TokenGtEq:  NodeGreaterThanOrEqual,
}

func (p *parser) parsePredicate() (*Node, error) {
	attr, err := p.parseAttribute()
	if err != nil {
		return nil, err
	}

	op := p.peek()
	if kind, ok := comparisons[op.Kind]; ok {
		p.advance()
		param, err := p.parseParameter()
		if err != nil {
			return nil, err
		}
		return newNode(kind, attr.Pos, attr, param), nil
	}

	switch {
	case isKeyword(op, "BETWEEN"):
		return p.parseBetween(NodeBetween, attr)
	case isKeyword(op, "IN"):
		return p.parseIn(NodeIn, attr)
	case isKeyword(op, "NOT"):
		p.advance()
		switch next := p.peek(); {
		case isKeyword(next, "BETWEEN"):
			return p.parseBetween(NodeNotBetween, attr)
		case isKeyword(next, "IN"):
			return p.parseIn(NodeNotIn, attr)
		default:
			return nil, errorf(next.Pos, "expected BETWEEN or IN after NOT, found %s", next.describe())
		}
	case isKeyword(op, "STARTS"):
		p.advance()
		if err := p.expectKeyword("WITH"); err != nil {
			return nil, err
		}
		return p.parsePattern(NodeStartsWith, attr)
	case isKeyword(op, "ENDS"):
		p.advance()
		if err := p.expectKeyword("WITH"); err != nil {
			return nil, err
		}
		return p.parsePattern(NodeEndsWith, attr)
	case isKeyword(op, "CONTAINS"):
		p.advance()
		return p.parsePattern(NodeContains, attr)
	default:
		return nil, errorf(op.Pos, "expected operator after attribute %q, found %s", attr.Text, op.describe())
	}
}

// parseBetween collects parameters greedily: every AND followed by a
// literal that does not start a new predicate extends the list. The
// assembler, not the parser, enforces the two-parameter arity.
func (p *parser) parseBetween(kind NodeKind, attr *Node) (*Node, error) {
	p.advance()
	first, err := p.parseParameter()
	if err != nil {
		return nil, err
	}
	n := newNode(kind, attr.Pos, attr, first)
	for p.atKeyword("AND") && p.continuesBetween() {
		p.advance()
		param, err := p.parseParameter()
		if err != nil {
			return nil, err
		}
		n.adopt(param)
	}
	return n, nil
}

// continuesBetween reports whether the token after the current AND is
// another BETWEEN parameter rather than the start of a new operand.
func (p *parser) continuesBetween() bool {
	next := p.peekAt(1)
	switch {
	case next.Kind == TokenString, next.Kind == TokenNumber:
		return true
	case next.Kind == TokenIdent && !isReserved(next):
		after := p.peekAt(2)
		return after.Kind == TokenEOF || after.Kind == TokenRParen ||
			isKeyword(after, "AND") || isKeyword(after, "OR")
	default:
		return false
	}
}

func (p *parser) parseIn(kind NodeKind, attr *Node) (*Node, error) {
	p.advance()
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	n := newNode(kind, attr.Pos, attr)
	if p.peek().Kind == TokenRParen {
		p.advance()
		return n, nil
	}
	for {
		param, err := p.parseParameter()
		if err != nil {
			return nil, err
		}
		n.adopt(param)
		if p.peek().Kind != TokenComma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(TokenRParen); err != nil {
		return nil, err
	}
	return n, nil
}

// parsePattern requires a quoted literal carrying the '%' markers of its
// operator: trailing for STARTS WITH, leading for ENDS WITH, both for
// CONTAINS.
func (p *parser) parsePattern(kind NodeKind, attr *Node) (*Node, error) {
	tok := p.peek()
	if tok.Kind != TokenString {
		return nil, errorf(tok.Pos, "%s requires a quoted pattern, found %s", kind.Operator(), tok.describe())
	}
	body := tok.Text[1 : len(tok.Text)-1]

	var ok bool
	switch kind {
	case NodeStartsWith:
		ok = strings.HasSuffix(body, "%")
	case NodeEndsWith:
		ok = strings.HasPrefix(body, "%")
	case NodeContains:
		ok = len(body) >= 2 && strings.HasPrefix(body, "%") && strings.HasSuffix(body, "%")
	}
	if !ok {
		return nil, errorf(tok.Pos, "%s pattern %s is missing its %% marker", kind.Operator(), tok.Text)
	}

	p.advance()
	param := &Node{Kind: NodeParameter, Text: tok.Text, Pos: tok.Pos}
	return newNode(kind, attr.Pos, attr, param), nil
}

// QuoteIdent renders an attribute name so that Parse reads it back as the
// same name: bare when it lexes as a single non-reserved identifier, back
// quoted otherwise.
func QuoteIdent(name string) string {
	if name != "" && !reserved[strings.ToUpper(name)] {
		toks, err := Lex(name)
		if err == nil && len(toks) == 2 && toks[0].Kind == TokenIdent && toks[0].Text == name {
			return name
		}
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
