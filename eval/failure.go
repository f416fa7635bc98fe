package eval

import (
	"fmt"
	"strings"

	"github.com/evalkit/exceptexpr/syntax"
)

// Class is a named failure class. Classes form a single-rooted hierarchy
// under Error; membership follows the ancestor chain.
type Class struct {
	Name   string
	Parent *Class
}

// Builtin failure classes. Error is the root of the hierarchy.
var (
	ErrorClass        = &Class{Name: "Error"}
	IndexError        = &Class{Name: "IndexError", Parent: ErrorClass}
	KeyError          = &Class{Name: "KeyError", Parent: ErrorClass}
	ZeroDivisionError = &Class{Name: "ZeroDivisionError", Parent: ErrorClass}
	TypeError         = &Class{Name: "TypeError", Parent: ErrorClass}
	ValueError        = &Class{Name: "ValueError", Parent: ErrorClass}
	NameError         = &Class{Name: "NameError", Parent: ErrorClass}
)

// BuiltinClasses lists every predefined class, in a stable order.
var BuiltinClasses = []*Class{
	ErrorClass, IndexError, KeyError, ZeroDivisionError, TypeError, ValueError, NameError,
}

// Is reports whether c is d or a descendant of d.
func (c *Class) Is(d *Class) bool {
	for cur := c; cur != nil; cur = cur.Parent {
		if cur == d {
			return true
		}
	}
	return false
}

// Matches reports whether the failure's class is a member of c.
func (c *Class) Matches(f *Failure) bool {
	return f.Class.Is(c)
}

// ClassSet is an ordered set of classes (the tuple form). It matches a
// failure when any member does.
type ClassSet struct {
	Classes []*Class
}

// Matches reports whether any member class matches the failure.
func (s *ClassSet) Matches(f *Failure) bool {
	for _, c := range s.Classes {
		if c.Matches(f) {
			return true
		}
	}
	return false
}

// catchAll matches every failure. It backs the bare `except:` clause: an
// explicit, clearly distinguished variant rather than an implicit default.
type catchAll struct{}

func (catchAll) Matches(*Failure) bool { return true }

// AnyFailure is the matcher used by a bare clause.
var AnyFailure Matcher = catchAll{}

// Matcher is the membership test a clause applies to an actual failure.
type Matcher interface {
	Matches(f *Failure) bool
}

// Failure is a classified abnormal termination. Failures are compared by
// identity: an unmatched failure propagates as the same *Failure value, cause
// chain and all.
type Failure struct {
	Class *Class
	Msg   string
	Cause *Failure
	Pos   syntax.Pos
}

// NewFailure creates a failure of the given class.
func NewFailure(class *Class, pos syntax.Pos, format string, args ...any) *Failure {
	return &Failure{Class: class, Msg: fmt.Sprintf(format, args...), Pos: pos}
}

// Error implements the error interface so unmatched failures surface to Go
// callers unchanged.
func (f *Failure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", f.Class.Name, f.Msg)
	if f.Pos.Line > 0 {
		fmt.Fprintf(&b, " (at %s)", f.Pos)
	}
	if f.Cause != nil {
		fmt.Fprintf(&b, ": %s", f.Cause.Error())
	}
	return b.String()
}
