// Package eval implements the fallback-evaluation rule for
// except-expressions and a tree-walking evaluator for the exceptexpr
// expression language built on top of it.
//
// Evaluation is single-threaded, sequential and synchronous: each call is a
// self-contained tree walk over the primary and at most one fallback.
package eval

import (
	"fmt"
	"io"
	"os"

	"github.com/evalkit/exceptexpr/syntax"
)

// Interp evaluates parsed expressions and programs.
type Interp struct {
	globals *Env
	stdout  io.Writer
}

// Option configures an Interp.
type Option func(*Interp)

// WithStdout redirects print output, mainly for tests.
func WithStdout(w io.Writer) Option {
	return func(i *Interp) { i.stdout = w }
}

// New creates an interpreter with the builtin classes and functions defined.
func New(opts ...Option) *Interp {
	i := &Interp{globals: NewEnv(nil), stdout: os.Stdout}
	for _, opt := range opts {
		opt(i)
	}
	for _, c := range BuiltinClasses {
		i.globals.Define(c.Name, c)
	}
	i.registerBuiltins()
	return i
}

// EvalString parses and evaluates a single expression.
func (i *Interp) EvalString(src string) (Value, error) {
	expr, err := syntax.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	v, f := i.Eval(expr)
	if f != nil {
		return nil, f
	}
	return v, nil
}

// RunString parses and executes a program, returning the value of its last
// expression statement (Nil when the program ends with an assignment or is
// empty).
func (i *Interp) RunString(src string) (Value, error) {
	prog, err := syntax.ParseProgram(src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return i.Run(prog)
}

// Run executes a parsed program against the interpreter's global scope.
func (i *Interp) Run(prog *syntax.Program) (Value, error) {
	var last Value = Nil{}
	for _, stmt := range prog.Stmts {
		switch s := stmt.(type) {
		case *syntax.AssignStmt:
			v, f := i.eval(s.Value, i.globals)
			if f != nil {
				return nil, f
			}
			i.globals.Define(s.Name, v)
			last = Nil{}
		case *syntax.ExprStmt:
			v, f := i.eval(s.X, i.globals)
			if f != nil {
				return nil, f
			}
			last = v
		}
	}
	return last, nil
}

// Eval evaluates an expression against the interpreter's global scope.
func (i *Interp) Eval(expr syntax.Expr) (Value, *Failure) {
	return i.eval(expr, i.globals)
}

func (i *Interp) eval(expr syntax.Expr, env *Env) (Value, *Failure) {
	switch e := expr.(type) {
	case *syntax.IntLit:
		return Int(e.Value), nil
	case *syntax.FloatLit:
		return Float(e.Value), nil
	case *syntax.StringLit:
		return Str(e.Value), nil
	case *syntax.BoolLit:
		return Bool(e.Value), nil
	case *syntax.NilLit:
		return Nil{}, nil
	case *syntax.Name:
		v, ok := env.Get(e.Ident)
		if !ok {
			return nil, NewFailure(NameError, e.Pos, "name %q is not defined", e.Ident)
		}
		return v, nil
	case *syntax.ListLit:
		elems := make([]Value, 0, len(e.Elems))
		for _, el := range e.Elems {
			v, f := i.eval(el, env)
			if f != nil {
				return nil, f
			}
			elems = append(elems, v)
		}
		return &List{Elems: elems}, nil
	case *syntax.Tuple:
		return i.evalTuple(e, env)
	case *syntax.Unary:
		return i.evalUnary(e, env)
	case *syntax.Binary:
		return i.evalBinary(e, env)
	case *syntax.Index:
		return i.evalIndex(e, env)
	case *syntax.Call:
		return i.evalCall(e, env)
	case *syntax.ExceptExpr:
		return i.evalExcept(e, env)
	}
	return nil, NewFailure(TypeError, expr.Position(), "cannot evaluate %T", expr)
}

// evalExcept lowers the AST node onto the fallback-evaluation rule. Each
// side becomes a Computation closing over the current environment; the class
// expression thunk is only run by Evaluate after the primary has failed.
func (i *Interp) evalExcept(e *syntax.ExceptExpr, env *Env) (Value, *Failure) {
	primary := func() (Value, *Failure) {
		return i.eval(e.Primary, env)
	}

	clauses := make([]Clause, 0, len(e.Clauses))
	for _, c := range e.Clauses {
		clause := c
		var class func() (Matcher, *Failure)
		if clause.Class == nil {
			class = func() (Matcher, *Failure) { return AnyFailure, nil }
		} else {
			class = func() (Matcher, *Failure) {
				v, f := i.eval(clause.Class, env)
				if f != nil {
					return nil, f
				}
				return i.matcherFrom(v, clause.Class.Position())
			}
		}

		fallback := func(f *Failure) (Value, *Failure) {
			scope := env
			if clause.Alias != "" {
				// The failure is bound in a child scope that exists only for
				// the fallback evaluation; once the fallback completes the
				// binding is unreachable.
				scope = NewEnv(env)
				scope.Define(clause.Alias, f)
			}
			return i.eval(clause.Fallback, scope)
		}

		clauses = append(clauses, Clause{Class: class, Fallback: fallback})
	}

	return Evaluate(primary, clauses)
}

// matcherFrom converts an evaluated class expression into a Matcher.
func (i *Interp) matcherFrom(v Value, pos syntax.Pos) (Matcher, *Failure) {
	switch m := v.(type) {
	case *Class:
		return m, nil
	case *ClassSet:
		return m, nil
	}
	return nil, NewFailure(TypeError, pos, "except clause requires a failure class, not %s", v.Type())
}

func (i *Interp) evalTuple(e *syntax.Tuple, env *Env) (Value, *Failure) {
	set := &ClassSet{Classes: make([]*Class, 0, len(e.Elems))}
	for _, el := range e.Elems {
		v, f := i.eval(el, env)
		if f != nil {
			return nil, f
		}
		c, ok := v.(*Class)
		if !ok {
			return nil, NewFailure(TypeError, el.Position(), "tuple elements must be failure classes, not %s", v.Type())
		}
		set.Classes = append(set.Classes, c)
	}
	return set, nil
}

func (i *Interp) evalUnary(e *syntax.Unary, env *Env) (Value, *Failure) {
	v, f := i.eval(e.Operand, env)
	if f != nil {
		return nil, f
	}
	switch n := v.(type) {
	case Int:
		return -n, nil
	case Float:
		return -n, nil
	}
	return nil, NewFailure(TypeError, e.Pos, "bad operand type for unary -: %s", v.Type())
}

func (i *Interp) evalIndex(e *syntax.Index, env *Env) (Value, *Failure) {
	target, f := i.eval(e.Target, env)
	if f != nil {
		return nil, f
	}
	sub, f := i.eval(e.Sub, env)
	if f != nil {
		return nil, f
	}
	idx, ok := sub.(Int)
	if !ok {
		return nil, NewFailure(TypeError, e.Pos, "indices must be integers, not %s", sub.Type())
	}

	switch t := target.(type) {
	case *List:
		n := int64(len(t.Elems))
		j := int64(idx)
		if j < 0 {
			j += n
		}
		if j < 0 || j >= n {
			return nil, NewFailure(IndexError, e.Pos, "list index out of range")
		}
		return t.Elems[j], nil
	case Str:
		runes := []rune(string(t))
		n := int64(len(runes))
		j := int64(idx)
		if j < 0 {
			j += n
		}
		if j < 0 || j >= n {
			return nil, NewFailure(IndexError, e.Pos, "string index out of range")
		}
		return Str(runes[j]), nil
	}
	return nil, NewFailure(TypeError, e.Pos, "%s is not subscriptable", target.Type())
}

func (i *Interp) evalCall(e *syntax.Call, env *Env) (Value, *Failure) {
	fn, f := i.eval(e.Fn, env)
	if f != nil {
		return nil, f
	}
	builtin, ok := fn.(*Builtin)
	if !ok {
		return nil, NewFailure(TypeError, e.Pos, "%s is not callable", fn.Type())
	}
	args := make([]Value, 0, len(e.Args))
	for _, a := range e.Args {
		v, f := i.eval(a, env)
		if f != nil {
			return nil, f
		}
		args = append(args, v)
	}
	return builtin.Fn(args, e.Pos)
}
