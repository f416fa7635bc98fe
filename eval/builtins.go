package eval

import (
	"fmt"
	"strings"

	"github.com/evalkit/exceptexpr/syntax"
)

func (i *Interp) registerBuiltins() {
	i.defineBuiltin("len", builtinLen)
	i.defineBuiltin("str", builtinStr)
	i.defineBuiltin("repr", builtinRepr)
	i.defineBuiltin("print", i.builtinPrint)
}

func (i *Interp) defineBuiltin(name string, fn func(args []Value, pos syntax.Pos) (Value, *Failure)) {
	i.globals.Define(name, &Builtin{Name: name, Fn: fn})
}

func arity(name string, args []Value, want int, pos syntax.Pos) *Failure {
	if len(args) != want {
		return NewFailure(TypeError, pos, "%s() takes %d argument(s), got %d", name, want, len(args))
	}
	return nil
}

func builtinLen(args []Value, pos syntax.Pos) (Value, *Failure) {
	if f := arity("len", args, 1, pos); f != nil {
		return nil, f
	}
	switch v := args[0].(type) {
	case Str:
		return Int(len([]rune(string(v)))), nil
	case *List:
		return Int(len(v.Elems)), nil
	}
	return nil, NewFailure(TypeError, pos, "len() requires a string or list, not %s", args[0].Type())
}

func builtinStr(args []Value, pos syntax.Pos) (Value, *Failure) {
	if f := arity("str", args, 1, pos); f != nil {
		return nil, f
	}
	return Str(args[0].String()), nil
}

func builtinRepr(args []Value, pos syntax.Pos) (Value, *Failure) {
	if f := arity("repr", args, 1, pos); f != nil {
		return nil, f
	}
	return Str(Repr(args[0])), nil
}

func (i *Interp) builtinPrint(args []Value, pos syntax.Pos) (Value, *Failure) {
	parts := make([]string, len(args))
	for n, a := range args {
		parts[n] = a.String()
	}
	fmt.Fprintln(i.stdout, strings.Join(parts, " "))
	return Nil{}, nil
}
