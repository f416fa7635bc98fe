package syntax

// Expr is implemented by every expression node.
type Expr interface {
	// Position returns the node's source position.
	Position() Pos
	expr()
}

// IntLit is an integer literal.
type IntLit struct {
	Value int64
	Pos   Pos
}

// FloatLit is a floating-point literal.
type FloatLit struct {
	Value float64
	Pos   Pos
}

// StringLit is a string literal.
type StringLit struct {
	Value string
	Pos   Pos
}

// BoolLit is `true` or `false`.
type BoolLit struct {
	Value bool
	Pos   Pos
}

// NilLit is `nil`.
type NilLit struct {
	Pos Pos
}

// ListLit is a list literal `[a, b, c]`.
type ListLit struct {
	Elems []Expr
	Pos   Pos
}

// Tuple is a parenthesized comma list `(a, b)`. Its only evaluable use is as
// a failure-class set in an except clause.
type Tuple struct {
	Elems []Expr
	Pos   Pos
}

// Name is an identifier reference.
type Name struct {
	Ident string
	Pos   Pos
}

// Unary is a prefix operation, currently only negation.
type Unary struct {
	Op      Kind
	Operand Expr
	Pos     Pos
}

// Binary is an infix operation.
type Binary struct {
	Op    Kind
	Left  Expr
	Right Expr
	Pos   Pos
}

// Index is a subscript access `list[i]`.
type Index struct {
	Target Expr
	Sub    Expr
	Pos    Pos
}

// Call is a function call `f(a, b)`.
type Call struct {
	Fn   Expr
	Args []Expr
	Pos  Pos
}

// ExceptClause is one `except Class [as name]: fallback` arm. A nil Class is
// the bare form, matching every failure.
type ExceptClause struct {
	Class    Expr
	Alias    string
	Fallback Expr
	Pos      Pos
}

// ExceptExpr is the except-expression: a primary with an ordered clause list.
// Clauses are tried in declaration order; the first matching clause wins.
type ExceptExpr struct {
	Primary Expr
	Clauses []ExceptClause
	Pos     Pos
}

func (e *IntLit) Position() Pos     { return e.Pos }
func (e *FloatLit) Position() Pos   { return e.Pos }
func (e *StringLit) Position() Pos  { return e.Pos }
func (e *BoolLit) Position() Pos    { return e.Pos }
func (e *NilLit) Position() Pos     { return e.Pos }
func (e *ListLit) Position() Pos    { return e.Pos }
func (e *Tuple) Position() Pos      { return e.Pos }
func (e *Name) Position() Pos       { return e.Pos }
func (e *Unary) Position() Pos      { return e.Pos }
func (e *Binary) Position() Pos     { return e.Pos }
func (e *Index) Position() Pos      { return e.Pos }
func (e *Call) Position() Pos       { return e.Pos }
func (e *ExceptExpr) Position() Pos { return e.Pos }

func (*IntLit) expr()     {}
func (*FloatLit) expr()   {}
func (*StringLit) expr()  {}
func (*BoolLit) expr()    {}
func (*NilLit) expr()     {}
func (*ListLit) expr()    {}
func (*Tuple) expr()      {}
func (*Name) expr()       {}
func (*Unary) expr()      {}
func (*Binary) expr()     {}
func (*Index) expr()      {}
func (*Call) expr()       {}
func (*ExceptExpr) expr() {}

// Stmt is implemented by every statement node.
type Stmt interface {
	stmt()
}

// AssignStmt binds the value of an expression to a name.
type AssignStmt struct {
	Name  string
	Value Expr
	Pos   Pos
}

// ExprStmt evaluates an expression for its value or effect.
type ExprStmt struct {
	X Expr
}

func (*AssignStmt) stmt() {}
func (*ExprStmt) stmt()   {}

// Program is a parsed script: an ordered list of statements.
type Program struct {
	Stmts []Stmt
}
