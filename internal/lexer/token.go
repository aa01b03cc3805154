// Package lexer turns a source character buffer into a flat,
// position-tagged token vector. It never backtracks: each call to next
// consumes exactly the runes that make up one token.
package lexer

import "github.com/golangee/feic/internal/source"

// Kind is the lexical category of a Token.
type Kind int

const (
	Ident Kind = iota
	Keyword
	Number
	String
	Operator
	Punct
	EOF
)

func (k Kind) String() string {
	switch k {
	case Ident:
		return "identifier"
	case Keyword:
		return "keyword"
	case Number:
		return "number"
	case String:
		return "string"
	case Operator:
		return "operator"
	case Punct:
		return "punctuator"
	case EOF:
		return "eof"
	default:
		return "unknown"
	}
}

// Token is a single lexeme. Text carries the category-specific payload:
// the bare name for Ident/Keyword, the literal digits plus any type
// suffix verbatim for Number, the escape-decoded value for String, and
// the matched symbol for Operator/Punct.
type Token struct {
	Kind Kind
	Text string
	Pos  source.Position
}

func (t Token) Begin() source.Pos { return t.Pos.BeginPos }
func (t Token) End() source.Pos   { return t.Pos.EndPos }

// Is reports whether this token is a Keyword or Punct/Operator with the
// given literal text. It is the usual way the parser checks for a fixed
// token such as the "#if" keyword or the "->" operator.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// operators lists multi-character operators in longest-match-first
// order, per the spec's "multi-character operators take precedence
// over their prefixes" rule.
var operators = []string{"->", "=>", "::", ".*", "<-", "=", ".", "@"}

// punctuators is the fixed, single-rune punctuator set.
var punctuators = map[rune]bool{
	'(': true, ')': true, '{': true, '}': true, ',': true, ';': true, ':': true,
}
