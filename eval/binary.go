package eval

import (
	"github.com/evalkit/exceptexpr/syntax"
)

func (i *Interp) evalBinary(e *syntax.Binary, env *Env) (Value, *Failure) {
	left, f := i.eval(e.Left, env)
	if f != nil {
		return nil, f
	}
	right, f := i.eval(e.Right, env)
	if f != nil {
		return nil, f
	}

	switch e.Op {
	case syntax.Eq:
		return Bool(valueEq(left, right)), nil
	case syntax.NotEq:
		return Bool(!valueEq(left, right)), nil
	case syntax.Plus:
		return evalAdd(left, right, e.Pos)
	case syntax.Minus, syntax.Star, syntax.Slash, syntax.Percent:
		return evalArith(e.Op, left, right, e.Pos)
	case syntax.Less, syntax.Greater, syntax.LessEq, syntax.GreaterEq:
		return evalCompare(e.Op, left, right, e.Pos)
	}
	return nil, NewFailure(TypeError, e.Pos, "unsupported operator %s", e.Op)
}

// evalAdd handles +, which concatenates strings and lists in addition to
// numeric addition.
func evalAdd(left, right Value, pos syntax.Pos) (Value, *Failure) {
	switch l := left.(type) {
	case Str:
		if r, ok := right.(Str); ok {
			return l + r, nil
		}
	case *List:
		if r, ok := right.(*List); ok {
			elems := make([]Value, 0, len(l.Elems)+len(r.Elems))
			elems = append(elems, l.Elems...)
			elems = append(elems, r.Elems...)
			return &List{Elems: elems}, nil
		}
	}
	return evalArith(syntax.Plus, left, right, pos)
}

func evalArith(op syntax.Kind, left, right Value, pos syntax.Pos) (Value, *Failure) {
	// Integer arithmetic stays integral; any float operand promotes both
	// sides to float.
	if l, ok := left.(Int); ok {
		if r, ok := right.(Int); ok {
			return intArith(op, l, r, pos)
		}
	}
	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if !lok || !rok {
		return nil, NewFailure(TypeError, pos,
			"unsupported operand types for %s: %s and %s", op, left.Type(), right.Type())
	}
	return floatArith(op, lf, rf, pos)
}

func intArith(op syntax.Kind, l, r Int, pos syntax.Pos) (Value, *Failure) {
	switch op {
	case syntax.Plus:
		return l + r, nil
	case syntax.Minus:
		return l - r, nil
	case syntax.Star:
		return l * r, nil
	case syntax.Slash:
		if r == 0 {
			return nil, NewFailure(ZeroDivisionError, pos, "division by zero")
		}
		return l / r, nil
	case syntax.Percent:
		if r == 0 {
			return nil, NewFailure(ZeroDivisionError, pos, "modulo by zero")
		}
		return l % r, nil
	}
	return nil, NewFailure(TypeError, pos, "unsupported operator %s", op)
}

func floatArith(op syntax.Kind, l, r float64, pos syntax.Pos) (Value, *Failure) {
	switch op {
	case syntax.Plus:
		return Float(l + r), nil
	case syntax.Minus:
		return Float(l - r), nil
	case syntax.Star:
		return Float(l * r), nil
	case syntax.Slash:
		if r == 0 {
			return nil, NewFailure(ZeroDivisionError, pos, "division by zero")
		}
		return Float(l / r), nil
	}
	return nil, NewFailure(TypeError, pos, "unsupported operator %s for floats", op)
}

func evalCompare(op syntax.Kind, left, right Value, pos syntax.Pos) (Value, *Failure) {
	if l, ok := left.(Str); ok {
		if r, ok := right.(Str); ok {
			return orderResult(op, compareStrings(string(l), string(r))), nil
		}
	}
	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if !lok || !rok {
		return nil, NewFailure(TypeError, pos,
			"cannot order %s and %s", left.Type(), right.Type())
	}
	switch {
	case lf < rf:
		return orderResult(op, -1), nil
	case lf > rf:
		return orderResult(op, 1), nil
	default:
		return orderResult(op, 0), nil
	}
}

func compareStrings(l, r string) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

func orderResult(op syntax.Kind, cmp int) Bool {
	switch op {
	case syntax.Less:
		return cmp < 0
	case syntax.Greater:
		return cmp > 0
	case syntax.LessEq:
		return cmp <= 0
	case syntax.GreaterEq:
		return cmp >= 0
	}
	return false
}

func asFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true
	case Float:
		return float64(n), true
	}
	return 0, false
}

// valueEq is structural equality. Numbers compare across int/float; lists
// compare element-wise; everything else compares by type and value.
func valueEq(left, right Value) bool {
	if lf, ok := asFloat(left); ok {
		if rf, ok := asFloat(right); ok {
			return lf == rf
		}
		return false
	}
	switch l := left.(type) {
	case Nil:
		_, ok := right.(Nil)
		return ok
	case Bool:
		r, ok := right.(Bool)
		return ok && l == r
	case Str:
		r, ok := right.(Str)
		return ok && l == r
	case *List:
		r, ok := right.(*List)
		if !ok || len(l.Elems) != len(r.Elems) {
			return false
		}
		for i := range l.Elems {
			if !valueEq(l.Elems[i], r.Elems[i]) {
				return false
			}
		}
		return true
	case *Class:
		return left == right
	case *Failure:
		return left == right
	}
	return false
}
