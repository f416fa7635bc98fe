package eval

// Computation is a zero-argument deferred operation. It either produces a
// value or terminates abnormally with a classified failure. Computations are
// single-shot: create a fresh one per evaluation attempt.
type Computation func() (Value, *Failure)

// Clause is one fallback arm of an except-expression: a failure-class
// computation paired with a fallback computation. The class side is a thunk
// so that class expressions are resolved lazily, only after a failure has
// actually occurred. The fallback receives the matched failure so a binding
// mechanism (the `as` form) can scope it to the fallback's evaluation; the
// rule itself never retains the failure after the fallback returns.
type Clause struct {
	Class    func() (Matcher, *Failure)
	Fallback func(f *Failure) (Value, *Failure)
}

// Evaluate applies the fallback-evaluation rule.
//
// The primary runs first; on success its value is returned and no clause is
// touched. On a failure f, clauses are scanned strictly in declaration order
// and the first whose class matches f has its fallback evaluated; the
// fallback's result (or its own failure, unintercepted) is the result of the
// whole construct. When no clause matches, f itself is returned, preserving
// identity and cause metadata.
//
// There are no retries and no logging here; one fallback attempt at most.
func Evaluate(primary Computation, clauses []Clause) (Value, *Failure) {
	v, f := primary()
	if f == nil {
		return v, nil
	}

	for _, clause := range clauses {
		matcher, cf := clause.Class()
		if cf != nil {
			// A failure while resolving the class expression is not
			// matched against this construct's own clauses.
			return nil, cf
		}
		if matcher.Matches(f) {
			return clause.Fallback(f)
		}
	}

	return nil, f
}
