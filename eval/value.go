package eval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/evalkit/exceptexpr/syntax"
)

// Value is any runtime value of the expression language.
type Value interface {
	// Type returns the value's type name, used in failure messages.
	Type() string
	// String renders the value the way print does.
	String() string
}

// Nil is the absence of a value.
type Nil struct{}

// Bool is a boolean value.
type Bool bool

// Int is a 64-bit integer value.
type Int int64

// Float is a 64-bit floating-point value.
type Float float64

// Str is a string value.
type Str string

// List is an ordered sequence of values.
type List struct {
	Elems []Value
}

// Builtin is a native function exposed to the language.
type Builtin struct {
	Name string
	Fn   func(args []Value, pos syntax.Pos) (Value, *Failure)
}

func (Nil) Type() string      { return "nil" }
func (Bool) Type() string     { return "bool" }
func (Int) Type() string      { return "int" }
func (Float) Type() string    { return "float" }
func (Str) Type() string      { return "string" }
func (*List) Type() string    { return "list" }
func (*Builtin) Type() string { return "builtin" }
func (*Class) Type() string   { return "class" }
func (*ClassSet) Type() string {
	return "class set"
}
func (*Failure) Type() string { return "failure" }

func (Nil) String() string { return "nil" }

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (i Int) String() string   { return strconv.FormatInt(int64(i), 10) }
func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (s Str) String() string   { return string(s) }

func (l *List) String() string {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		parts[i] = Repr(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (b *Builtin) String() string { return fmt.Sprintf("<builtin %s>", b.Name) }

func (c *Class) String() string { return c.Name }

func (s *ClassSet) String() string {
	parts := make([]string, len(s.Classes))
	for i, c := range s.Classes {
		parts[i] = c.Name
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// String renders the failure as the bound `as` value sees it.
func (f *Failure) String() string { return f.Error() }

// Repr renders a value in source-like form: strings are quoted, containers
// recurse.
func Repr(v Value) string {
	if s, ok := v.(Str); ok {
		return strconv.Quote(string(s))
	}
	return v.String()
}
