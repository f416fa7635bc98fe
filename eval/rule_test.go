package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evalkit/exceptexpr/syntax"
)

func value(v Value) Computation {
	return func() (Value, *Failure) { return v, nil }
}

func failing(f *Failure) Computation {
	return func() (Value, *Failure) { return nil, f }
}

func classThunk(m Matcher, evaluated *bool) func() (Matcher, *Failure) {
	return func() (Matcher, *Failure) {
		if evaluated != nil {
			*evaluated = true
		}
		return m, nil
	}
}

func plainFallback(c Computation) func(*Failure) (Value, *Failure) {
	return func(*Failure) (Value, *Failure) { return c() }
}

func TestEvaluate_SuccessShortCircuits(t *testing.T) {
	classEvaluated := false
	fallbackRan := false

	v, f := Evaluate(value(Int(42)), []Clause{{
		Class: classThunk(ErrorClass, &classEvaluated),
		Fallback: func(*Failure) (Value, *Failure) {
			fallbackRan = true
			return Int(0), nil
		},
	}})

	require.Nil(t, f)
	assert.Equal(t, Int(42), v)
	assert.False(t, classEvaluated, "class expressions must not be resolved on success")
	assert.False(t, fallbackRan)
}

func TestEvaluate_MatchedClauseRunsFallback(t *testing.T) {
	failure := NewFailure(IndexError, syntax.Pos{}, "out of range")

	v, f := Evaluate(failing(failure), []Clause{{
		Class:    classThunk(IndexError, nil),
		Fallback: plainFallback(value(Str("No value"))),
	}})

	require.Nil(t, f)
	assert.Equal(t, Str("No value"), v)
}

func TestEvaluate_UnmatchedFailurePreservesIdentity(t *testing.T) {
	cause := NewFailure(ValueError, syntax.Pos{}, "inner")
	failure := NewFailure(ZeroDivisionError, syntax.Pos{}, "division by zero")
	failure.Cause = cause

	_, f := Evaluate(failing(failure), []Clause{{
		Class:    classThunk(IndexError, nil),
		Fallback: plainFallback(value(Int(0))),
	}})

	require.NotNil(t, f)
	assert.Same(t, failure, f, "the original failure must be re-surfaced unchanged")
	assert.Same(t, cause, f.Cause)
}

func TestEvaluate_FirstMatchWins(t *testing.T) {
	failure := NewFailure(IndexError, syntax.Pos{}, "out of range")
	secondRan := false

	// Both clauses match: IndexError directly, and through the Error root.
	v, f := Evaluate(failing(failure), []Clause{
		{
			Class:    classThunk(ErrorClass, nil),
			Fallback: plainFallback(value(Str("first"))),
		},
		{
			Class: classThunk(IndexError, nil),
			Fallback: func(*Failure) (Value, *Failure) {
				secondRan = true
				return Str("second"), nil
			},
		},
	})

	require.Nil(t, f)
	assert.Equal(t, Str("first"), v)
	assert.False(t, secondRan, "only the first matching clause's fallback may run")
}

func TestEvaluate_FallbackFailureEscapesConstruct(t *testing.T) {
	failureA := NewFailure(IndexError, syntax.Pos{}, "A")
	failureB := NewFailure(KeyError, syntax.Pos{}, "B")
	laterConsulted := false

	_, f := Evaluate(failing(failureA), []Clause{
		{
			Class:    classThunk(IndexError, nil),
			Fallback: plainFallback(failing(failureB)),
		},
		{
			// Would match B, but clauses of the same construct never see a
			// failure raised by a sibling fallback.
			Class:    classThunk(KeyError, &laterConsulted),
			Fallback: plainFallback(value(Str("never"))),
		},
	})

	require.NotNil(t, f)
	assert.Same(t, failureB, f)
	assert.False(t, laterConsulted)
}

func TestEvaluate_NestedConstructCatchesInnerFallbackFailure(t *testing.T) {
	k1 := NewFailure(IndexError, syntax.Pos{}, "K1")
	k2 := NewFailure(KeyError, syntax.Pos{}, "K2")

	inner := func() (Value, *Failure) {
		return Evaluate(failing(k1), []Clause{{
			Class:    classThunk(IndexError, nil),
			Fallback: plainFallback(failing(k2)),
		}})
	}

	v, f := Evaluate(inner, []Clause{{
		Class:    classThunk(KeyError, nil),
		Fallback: plainFallback(value(Str("caught"))),
	}})

	require.Nil(t, f)
	assert.Equal(t, Str("caught"), v)
}

func TestEvaluate_ClassResolvedLazilyAndInOrder(t *testing.T) {
	failure := NewFailure(IndexError, syntax.Pos{}, "out of range")
	firstResolved := false
	secondResolved := false

	v, f := Evaluate(failing(failure), []Clause{
		{
			Class:    classThunk(IndexError, &firstResolved),
			Fallback: plainFallback(value(Int(1))),
		},
		{
			Class:    classThunk(KeyError, &secondResolved),
			Fallback: plainFallback(value(Int(2))),
		},
	})

	require.Nil(t, f)
	assert.Equal(t, Int(1), v)
	assert.True(t, firstResolved)
	assert.False(t, secondResolved, "classes after the first match must stay unresolved")
}

func TestEvaluate_ClassExpressionFailurePropagates(t *testing.T) {
	failure := NewFailure(IndexError, syntax.Pos{}, "out of range")
	classFailure := NewFailure(NameError, syntax.Pos{}, "no such class")

	_, f := Evaluate(failing(failure), []Clause{{
		Class:    func() (Matcher, *Failure) { return nil, classFailure },
		Fallback: plainFallback(value(Int(0))),
	}})

	require.NotNil(t, f)
	assert.Same(t, classFailure, f)
}

func TestEvaluate_NoClauses(t *testing.T) {
	failure := NewFailure(ValueError, syntax.Pos{}, "boom")

	v, f := Evaluate(value(Int(7)), nil)
	require.Nil(t, f)
	assert.Equal(t, Int(7), v)

	_, f = Evaluate(failing(failure), nil)
	assert.Same(t, failure, f)
}

func TestMatchers(t *testing.T) {
	idx := NewFailure(IndexError, syntax.Pos{}, "x")

	assert.True(t, IndexError.Matches(idx))
	assert.True(t, ErrorClass.Matches(idx), "root class matches every failure")
	assert.False(t, KeyError.Matches(idx))

	set := &ClassSet{Classes: []*Class{KeyError, IndexError}}
	assert.True(t, set.Matches(idx))

	assert.True(t, AnyFailure.Matches(idx))
}
