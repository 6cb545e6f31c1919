// Package predicate implements row filters of the form
//
//	column op literal [AND|OR column op literal ...]
//
// Connectives are evaluated strictly left to right without precedence:
// "a AND b OR c" means "(a AND b) OR c". Evaluation short-circuits.
package predicate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/tabledb/types"
)

var (
	// ErrPredicateType is returned when a literal cannot be compared with
	// its column, or the operator is not defined for the column type.
	ErrPredicateType = errors.New("predicate type error")

	// ErrSyntax is returned for malformed predicate text.
	ErrSyntax = errors.New("predicate syntax error")
)

// Operator is a comparison operator.
type Operator string

const (
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
	OpLessThan     Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreaterThan  Operator = ">"
	OpGreaterEqual Operator = ">="
)

// Ordering reports whether the operator requires an ordered type.
func (op Operator) Ordering() bool {
	return op != OpEqual && op != OpNotEqual
}

func (op Operator) valid() bool {
	switch op {
	case OpEqual, OpNotEqual, OpLessThan, OpLessEqual, OpGreaterThan, OpGreaterEqual:
		return true
	}
	return false
}

// Conjunction joins two comparisons.
type Conjunction uint8

const (
	And Conjunction = iota
	Or
)

func (c Conjunction) String() string {
	if c == Or {
		return "OR"
	}
	return "AND"
}

// Comparison is a single "column op literal" term.
type Comparison struct {
	Column string
	Op     Operator
	Value  types.Value
}

func (c Comparison) String() string {
	return quoteIdent(c.Column) + " " + string(c.Op) + " " + c.Value.String()
}

// Compare builds a comparison. value may be any Go value accepted by
// types.ValueOf; unsupported values surface as ErrPredicateType at Bind.
func Compare(column string, op Operator, value any) Comparison {
	v, err := types.ValueOf(value)
	if err != nil {
		v = types.Value{}
	}
	return Comparison{Column: column, Op: op, Value: v}
}

// Expr is a flat chain of comparisons. The zero Expr matches every row.
type Expr struct {
	terms []Comparison
	conns []Conjunction
}

// Where starts an expression with a single comparison.
func Where(c Comparison) Expr {
	return Expr{terms: []Comparison{c}}
}

// And appends "AND c".
func (e Expr) And(c Comparison) Expr { return e.append(And, c) }

// Or appends "OR c".
func (e Expr) Or(c Comparison) Expr { return e.append(Or, c) }

func (e Expr) append(conn Conjunction, c Comparison) Expr {
	if len(e.terms) == 0 {
		return Where(c)
	}
	out := Expr{
		terms: make([]Comparison, len(e.terms), len(e.terms)+1),
		conns: make([]Conjunction, len(e.conns), len(e.conns)+1),
	}
	copy(out.terms, e.terms)
	copy(out.conns, e.conns)
	out.terms = append(out.terms, c)
	out.conns = append(out.conns, conn)
	return out
}

// Empty reports whether the expression has no terms.
func (e Expr) Empty() bool { return len(e.terms) == 0 }

// Terms returns the comparisons in order.
func (e Expr) Terms() []Comparison {
	out := make([]Comparison, len(e.terms))
	copy(out, e.terms)
	return out
}

// Columns returns the distinct column names referenced, in first-use order.
func (e Expr) Columns() []string {
	seen := make(map[string]struct{}, len(e.terms))
	var out []string
	for _, t := range e.terms {
		if _, ok := seen[t.Column]; ok {
			continue
		}
		seen[t.Column] = struct{}{}
		out = append(out, t.Column)
	}
	return out
}

// String renders the expression in the syntax accepted by Parse.
func (e Expr) String() string {
	var sb strings.Builder
	for i, t := range e.terms {
		if i > 0 {
			sb.WriteString(" " + e.conns[i-1].String() + " ")
		}
		sb.WriteString(t.String())
	}
	return sb.String()
}

func quoteIdent(s string) string {
	if isPlainIdent(s) && !isKeyword(s) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func isPlainIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if !isIdentRune(r, i == 0) {
			return false
		}
	}
	return true
}

func isKeyword(s string) bool {
	switch strings.ToLower(s) {
	case "and", "or", "true", "false":
		return true
	}
	return false
}

// SyntaxError describes a parse failure.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v at offset %d: %s", ErrSyntax, e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }
