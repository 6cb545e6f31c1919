package predicate

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hupe1980/tabledb/types"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokFloat
	tokString
	tokOp
	tokAnd
	tokOr
	tokTrue
	tokFalse
	tokLBracket
	tokRBracket
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	src string
	pos int
}

func isIdentRune(r rune, first bool) bool {
	if r == '_' || unicode.IsLetter(r) {
		return true
	}
	return !first && unicode.IsDigit(r)
}

func (l *lexer) errorf(pos int, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) && unicode.IsSpace(rune(l.src[l.pos])) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}

	start := l.pos
	c := l.src[l.pos]

	switch {
	case c == '[':
		l.pos++
		return token{kind: tokLBracket, text: "[", pos: start}, nil
	case c == ']':
		l.pos++
		return token{kind: tokRBracket, text: "]", pos: start}, nil
	case c == ',':
		l.pos++
		return token{kind: tokComma, text: ",", pos: start}, nil
	case c == '\'':
		return l.quoted('\'', tokString)
	case c == '"':
		return l.quoted('"', tokIdent)
	case c == '=' || c == '!' || c == '<' || c == '>':
		return l.operator()
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return l.number()
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	if !isIdentRune(r, true) {
		return token{}, l.errorf(start, "unexpected character %q", r)
	}
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !isIdentRune(r, false) {
			break
		}
		l.pos += size
	}
	text := l.src[start:l.pos]
	switch strings.ToLower(text) {
	case "and":
		return token{kind: tokAnd, text: text, pos: start}, nil
	case "or":
		return token{kind: tokOr, text: text, pos: start}, nil
	case "true":
		return token{kind: tokTrue, text: text, pos: start}, nil
	case "false":
		return token{kind: tokFalse, text: text, pos: start}, nil
	}
	return token{kind: tokIdent, text: text, pos: start}, nil
}

func (l *lexer) quoted(q byte, kind tokenKind) (token, error) {
	start := l.pos
	l.pos++
	var sb strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == q {
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == q {
				sb.WriteByte(q)
				l.pos += 2
				continue
			}
			l.pos++
			return token{kind: kind, text: sb.String(), pos: start}, nil
		}
		sb.WriteByte(c)
		l.pos++
	}
	return token{}, l.errorf(start, "unterminated quoted text")
}

func (l *lexer) operator() (token, error) {
	start := l.pos
	two := ""
	if l.pos+1 < len(l.src) {
		two = l.src[l.pos : l.pos+2]
	}
	switch two {
	case "!=", "<>":
		l.pos += 2
		return token{kind: tokOp, text: string(OpNotEqual), pos: start}, nil
	case "<=", ">=", "==":
		l.pos += 2
		if two == "==" {
			two = "="
		}
		return token{kind: tokOp, text: two, pos: start}, nil
	}
	c := l.src[l.pos]
	if c == '!' {
		return token{}, l.errorf(start, "unexpected '!'")
	}
	l.pos++
	return token{kind: tokOp, text: string(c), pos: start}, nil
}

func (l *lexer) number() (token, error) {
	start := l.pos
	if c := l.src[l.pos]; c == '-' || c == '+' {
		l.pos++
	}
	isFloat := false
	digits := 0
	for ; l.pos < len(l.src); l.pos++ {
		c := l.src[l.pos]
		if c >= '0' && c <= '9' {
			digits++
			continue
		}
		if c == '.' {
			isFloat = true
			continue
		}
		if c == 'e' || c == 'E' {
			isFloat = true
			if l.pos+1 < len(l.src) && (l.src[l.pos+1] == '-' || l.src[l.pos+1] == '+') {
				l.pos++
			}
			continue
		}
		break
	}
	if digits == 0 {
		return token{}, l.errorf(start, "malformed number %q", l.src[start:l.pos])
	}
	kind := tokInt
	if isFloat {
		kind = tokFloat
	}
	return token{kind: kind, text: l.src[start:l.pos], pos: start}, nil
}

type parser struct {
	lex lexer
	tok token
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

// Parse parses predicate text. Blank input yields the empty expression,
// which matches every row.
func Parse(src string) (Expr, error) {
	p := &parser{lex: lexer{src: src}}
	if err := p.advance(); err != nil {
		return Expr{}, err
	}
	if p.tok.kind == tokEOF {
		return Expr{}, nil
	}

	first, err := p.comparison()
	if err != nil {
		return Expr{}, err
	}
	e := Where(first)

	for p.tok.kind != tokEOF {
		var conn Conjunction
		switch p.tok.kind {
		case tokAnd:
			conn = And
		case tokOr:
			conn = Or
		default:
			return Expr{}, p.lex.errorf(p.tok.pos, "expected AND or OR, got %q", p.tok.text)
		}
		if err := p.advance(); err != nil {
			return Expr{}, err
		}
		c, err := p.comparison()
		if err != nil {
			return Expr{}, err
		}
		e = e.append(conn, c)
	}
	return e, nil
}

// MustParse is like Parse but panics on error.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

func (p *parser) comparison() (Comparison, error) {
	if p.tok.kind != tokIdent {
		return Comparison{}, p.lex.errorf(p.tok.pos, "expected column name, got %q", p.tok.text)
	}
	col := p.tok.text
	if err := p.advance(); err != nil {
		return Comparison{}, err
	}

	if p.tok.kind != tokOp {
		return Comparison{}, p.lex.errorf(p.tok.pos, "expected comparison operator, got %q", p.tok.text)
	}
	op := Operator(p.tok.text)
	if !op.valid() {
		return Comparison{}, p.lex.errorf(p.tok.pos, "unknown operator %q", p.tok.text)
	}
	if err := p.advance(); err != nil {
		return Comparison{}, err
	}

	v, err := p.literal()
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{Column: col, Op: op, Value: v}, nil
}

func (p *parser) literal() (types.Value, error) {
	t := p.tok
	var v types.Value
	switch t.kind {
	case tokInt:
		i, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			// Beyond int64: bind accepts it only against float columns.
			f, ferr := strconv.ParseFloat(t.text, 64)
			if ferr != nil {
				return types.Value{}, p.lex.errorf(t.pos, "malformed number %q", t.text)
			}
			v = types.Float(f)
		} else {
			v = types.Int(i)
		}
	case tokFloat:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return types.Value{}, p.lex.errorf(t.pos, "malformed number %q", t.text)
		}
		v = types.Float(f)
	case tokString:
		v = types.String(t.text)
	case tokTrue:
		v = types.Bool(true)
	case tokFalse:
		v = types.Bool(false)
	case tokLBracket:
		return p.vector()
	default:
		return types.Value{}, p.lex.errorf(t.pos, "expected literal, got %q", t.text)
	}
	if err := p.advance(); err != nil {
		return types.Value{}, err
	}
	return v, nil
}

func (p *parser) vector() (types.Value, error) {
	start := p.tok.pos
	if err := p.advance(); err != nil {
		return types.Value{}, err
	}
	var elems []types.Value
	for p.tok.kind != tokRBracket {
		if len(elems) > 0 {
			if p.tok.kind != tokComma {
				return types.Value{}, p.lex.errorf(p.tok.pos, "expected ',' or ']' in vector literal")
			}
			if err := p.advance(); err != nil {
				return types.Value{}, err
			}
		}
		if p.tok.kind != tokInt && p.tok.kind != tokFloat {
			return types.Value{}, p.lex.errorf(p.tok.pos, "vector elements must be numeric")
		}
		e, err := p.literal()
		if err != nil {
			return types.Value{}, err
		}
		elems = append(elems, e)
	}
	if len(elems) == 0 {
		return types.Value{}, p.lex.errorf(start, "empty vector literal")
	}
	if err := p.advance(); err != nil {
		return types.Value{}, err
	}
	return types.Vector(elems), nil
}
