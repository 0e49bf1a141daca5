package internal

import (
	"fmt"
	"strconv"
	"strings"
)

// Matcher is an immutable boolean query over a message record and the
// object table of its connection. Matchers are freely shared across
// evaluations; Evaluate never mutates the tree or the table.
//
// A negated interface-scoped atom reads vacuously true for objects whose
// interface is unknown: "!wl_surface" matches a message on an unresolved
// object, because the atom itself never matches interface "?".
type Matcher interface {
	// Evaluate reports whether the record matches. The table is used to
	// resolve the record's target object to its interface name.
	Evaluate(rec *MessageRecord, table *ObjectTable) bool

	// Simplify returns a semantically equivalent, structurally reduced
	// tree. Simplify is idempotent.
	Simplify() Matcher

	// String renders the canonical textual form; parsing it back yields
	// an equivalent tree.
	String() string

	precedence() int
}

// The two matcher identities: Always matches every record and is the
// default filter, Never matches none and is the default stop condition.
var (
	Always Matcher = constantMatcher(true)
	Never  Matcher = constantMatcher(false)
)

type constantMatcher bool

func (c constantMatcher) Evaluate(*MessageRecord, *ObjectTable) bool { return bool(c) }
func (c constantMatcher) Simplify() Matcher                          { return c }
func (c constantMatcher) precedence() int                            { return 4 }

func (c constantMatcher) String() string {
	if c {
		return "always"
	}
	return "never"
}

// atomMatcher matches a single interface/message/object pattern. iface is
// "*" for the wildcard; message is "" when the atom carries no message
// filter; object is -1 when the atom is not scoped to an id.
type atomMatcher struct {
	iface   string
	message string
	object  int64
}

func (a atomMatcher) Evaluate(rec *MessageRecord, table *ObjectTable) bool {
	if a.object >= 0 && ObjectID(a.object) != rec.Object {
		return false
	}
	if a.iface != "*" {
		iface := UnknownInterface
		if table != nil {
			if obj, err := table.Resolve(rec.Object); err == nil {
				iface = obj.Interface
			}
		}
		if iface != a.iface {
			return false
		}
	}
	if a.message != "" && a.message != rec.Name {
		return false
	}
	return true
}

func (a atomMatcher) Simplify() Matcher { return a }
func (a atomMatcher) precedence() int   { return 4 }

func (a atomMatcher) String() string {
	var b strings.Builder
	b.WriteString(a.iface)
	if a.object >= 0 {
		fmt.Fprintf(&b, "@%d", a.object)
	}
	if a.message != "" {
		b.WriteByte('.')
		b.WriteString(a.message)
	}
	return b.String()
}

type notMatcher struct {
	operand Matcher
}

func (n notMatcher) Evaluate(rec *MessageRecord, table *ObjectTable) bool {
	return !n.operand.Evaluate(rec, table)
}

func (n notMatcher) Simplify() Matcher {
	switch inner := n.operand.Simplify().(type) {
	case notMatcher:
		return inner.operand
	case constantMatcher:
		return constantMatcher(!inner)
	default:
		return notMatcher{inner}
	}
}

func (n notMatcher) precedence() int { return 3 }

func (n notMatcher) String() string {
	return "!" + parenthesize(n.operand, n.precedence())
}

type andMatcher struct {
	left, right Matcher
}

func (a andMatcher) Evaluate(rec *MessageRecord, table *ObjectTable) bool {
	return a.left.Evaluate(rec, table) && a.right.Evaluate(rec, table)
}

func (a andMatcher) Simplify() Matcher {
	left, right := a.left.Simplify(), a.right.Simplify()
	switch {
	case left == Never || right == Never:
		return Never
	case left == Always:
		return right
	case right == Always:
		return left
	case left == right:
		return left
	default:
		return andMatcher{left, right}
	}
}

func (a andMatcher) precedence() int { return 2 }

func (a andMatcher) String() string {
	return parenthesize(a.left, a.precedence()) + " & " + parenthesize(a.right, a.precedence())
}

type orMatcher struct {
	left, right Matcher
}

func (o orMatcher) Evaluate(rec *MessageRecord, table *ObjectTable) bool {
	return o.left.Evaluate(rec, table) || o.right.Evaluate(rec, table)
}

func (o orMatcher) Simplify() Matcher {
	left, right := o.left.Simplify(), o.right.Simplify()
	switch {
	case left == Always || right == Always:
		return Always
	case left == Never:
		return right
	case right == Never:
		return left
	case left == right:
		return left
	default:
		return orMatcher{left, right}
	}
}

func (o orMatcher) precedence() int { return 1 }

func (o orMatcher) String() string {
	return parenthesize(o.left, o.precedence()) + " | " + parenthesize(o.right, o.precedence())
}

// parenthesize renders a child expression, wrapping it when its operator
// binds looser than the parent's.
func parenthesize(m Matcher, parent int) string {
	if m.precedence() < parent {
		return "(" + m.String() + ")"
	}
	return m.String()
}

// Token kinds for the matcher lexer.
type tokenKind int

const (
	tokIdent tokenKind = iota
	tokNumber
	tokStar
	tokAt
	tokDot
	tokNot
	tokAnd
	tokOr
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// ParseMatcher compiles a textual query into a Matcher. The grammar, in
// order of loosest to tightest binding:
//
//	expr  := term  ('|' term)*          "or" is an alias for '|'
//	term  := unary ('&' unary)*         "and" is an alias for '&'
//	unary := '!' unary | primary        "not" is an alias for '!'
//	primary := '(' expr ')' | 'always' | 'never' | atom
//	atom  := pattern ('@' number)? ('.' (name | '*'))?
//	pattern := name | '*' | '@' number | number
//
// A bare name matches every message on objects of that interface;
// "name.message" narrows to a single message; '*' is the interface
// wildcard; '@N' or a bare number scopes the atom to object id N.
func ParseMatcher(query string) (Matcher, error) {
	tokens, err := lexMatcher(query)
	if err != nil {
		return nil, err
	}
	p := &matcherParser{query: query, tokens: tokens}
	m, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, p.errorf(p.peek().pos, "unexpected %q", p.peek().text)
	}
	return m, nil
}

func lexMatcher(query string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(query); {
		c := query[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '*':
			tokens = append(tokens, token{tokStar, "*", i})
			i++
		case c == '@':
			tokens = append(tokens, token{tokAt, "@", i})
			i++
		case c == '.':
			tokens = append(tokens, token{tokDot, ".", i})
			i++
		case c == '!':
			tokens = append(tokens, token{tokNot, "!", i})
			i++
		case c == '&':
			tokens = append(tokens, token{tokAnd, "&", i})
			i++
		case c == '|':
			tokens = append(tokens, token{tokOr, "|", i})
			i++
		case c == '(':
			tokens = append(tokens, token{tokLParen, "(", i})
			i++
		case c == ')':
			tokens = append(tokens, token{tokRParen, ")", i})
			i++
		case c >= '0' && c <= '9':
			start := i
			for i < len(query) && query[i] >= '0' && query[i] <= '9' {
				i++
			}
			tokens = append(tokens, token{tokNumber, query[start:i], start})
		case isIdentByte(c):
			start := i
			for i < len(query) && isIdentByte(query[i]) {
				i++
			}
			word := query[start:i]
			switch word {
			case "and":
				tokens = append(tokens, token{tokAnd, word, start})
			case "or":
				tokens = append(tokens, token{tokOr, word, start})
			case "not":
				tokens = append(tokens, token{tokNot, word, start})
			default:
				tokens = append(tokens, token{tokIdent, word, start})
			}
		default:
			return nil, &SyntaxError{Query: query, Pos: i, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	return tokens, nil
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}

type matcherParser struct {
	query  string
	tokens []token
	pos    int
}

func (p *matcherParser) done() bool { return p.pos >= len(p.tokens) }

func (p *matcherParser) peek() token { return p.tokens[p.pos] }

func (p *matcherParser) next() token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

func (p *matcherParser) errorf(pos int, format string, args ...interface{}) error {
	return &SyntaxError{Query: p.query, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *matcherParser) parseOr() (Matcher, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for !p.done() && p.peek().kind == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orMatcher{left, right}
	}
	return left, nil
}

func (p *matcherParser) parseAnd() (Matcher, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for !p.done() && p.peek().kind == tokAnd {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = andMatcher{left, right}
	}
	return left, nil
}

func (p *matcherParser) parseUnary() (Matcher, error) {
	if !p.done() && p.peek().kind == tokNot {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notMatcher{operand}, nil
	}
	return p.parsePrimary()
}

func (p *matcherParser) parsePrimary() (Matcher, error) {
	if p.done() {
		return nil, p.errorf(len(p.query), "unexpected end of expression")
	}
	t := p.peek()
	switch t.kind {
	case tokLParen:
		open := p.next()
		m, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.done() || p.peek().kind != tokRParen {
			return nil, p.errorf(open.pos, "unbalanced parenthesis")
		}
		p.next()
		return m, nil
	case tokIdent:
		if t.text == "always" {
			p.next()
			return Always, nil
		}
		if t.text == "never" {
			p.next()
			return Never, nil
		}
		return p.parseAtom()
	case tokStar, tokAt, tokNumber:
		return p.parseAtom()
	default:
		return nil, p.errorf(t.pos, "unexpected %q", t.text)
	}
}

func (p *matcherParser) parseAtom() (Matcher, error) {
	atom := atomMatcher{iface: "*", object: -1}

	switch t := p.peek(); t.kind {
	case tokIdent:
		atom.iface = p.next().text
	case tokStar:
		p.next()
	case tokNumber:
		// A bare number is an object-id atom.
		id, err := strconv.ParseInt(p.next().text, 10, 64)
		if err != nil {
			return nil, p.errorf(t.pos, "bad object id %q", t.text)
		}
		atom.object = id
	case tokAt:
		// handled below
	default:
		return nil, p.errorf(t.pos, "unexpected %q", t.text)
	}

	if !p.done() && p.peek().kind == tokAt {
		at := p.next()
		if p.done() {
			return nil, p.errorf(at.pos, "expected object id after '@'")
		}
		if p.peek().kind != tokNumber {
			return nil, p.errorf(p.peek().pos, "expected object id after '@', got %q", p.peek().text)
		}
		t := p.next()
		id, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return nil, p.errorf(t.pos, "bad object id %q", t.text)
		}
		atom.object = id
	}

	if !p.done() && p.peek().kind == tokDot {
		dot := p.next()
		if p.done() {
			return nil, p.errorf(dot.pos, "expected message name after '.'")
		}
		switch t := p.next(); t.kind {
		case tokIdent:
			atom.message = t.text
		case tokStar:
			// "iface.*" is the same as "iface".
		default:
			return nil, p.errorf(t.pos, "expected message name after '.', got %q", t.text)
		}
	}

	return atom, nil
}
