package eval

// Env is a lexical environment. Lookups walk the parent chain; definitions
// always land in the innermost scope.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates an environment with the given parent (nil for the root).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Define binds a name in this scope, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Get resolves a name through the scope chain.
func (e *Env) Get(name string) (Value, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if v, ok := cur.table[name]; ok {
			return v, true
		}
	}
	return nil, false
}
