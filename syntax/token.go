// Package syntax provides the scanner and parser for the exceptexpr
// expression language.
package syntax

import "fmt"

// Kind identifies a token class.
type Kind int

const (
	EOF Kind = iota

	// Literals and names
	Int
	Float
	String
	Ident

	// Keywords
	Except
	As
	True
	False
	Nil

	// Punctuation and operators
	Newline
	Semicolon
	LParen
	RParen
	LBracket
	RBracket
	Comma
	Colon
	Assign
	Plus
	Minus
	Star
	Slash
	Percent
	Eq
	NotEq
	Less
	Greater
	LessEq
	GreaterEq
)

var kindNames = map[Kind]string{
	EOF:       "end of input",
	Int:       "integer literal",
	Float:     "float literal",
	String:    "string literal",
	Ident:     "identifier",
	Except:    "'except'",
	As:        "'as'",
	True:      "'true'",
	False:     "'false'",
	Nil:       "'nil'",
	Newline:   "newline",
	Semicolon: "';'",
	LParen:    "'('",
	RParen:    "')'",
	LBracket:  "'['",
	RBracket:  "']'",
	Comma:     "','",
	Colon:     "':'",
	Assign:    "'='",
	Plus:      "'+'",
	Minus:     "'-'",
	Star:      "'*'",
	Slash:     "'/'",
	Percent:   "'%'",
	Eq:        "'=='",
	NotEq:     "'!='",
	Less:      "'<'",
	Greater:   "'>'",
	LessEq:    "'<='",
	GreaterEq: "'>='",
}

// String returns a human-readable name for the kind, used in error messages.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var keywords = map[string]Kind{
	"except": Except,
	"as":     As,
	"true":   True,
	"false":  False,
	"nil":    Nil,
}

// Pos is a source position (1-based line, 1-based column).
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Token is a single lexical token with its source position.
type Token struct {
	Kind  Kind
	Value string
	Pos   Pos
}
