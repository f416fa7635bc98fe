package syntax

import (
	"strconv"
)

// Parser builds an AST from a token stream.
type Parser struct {
	toks []Token
	pos  int
}

// ParseExpr parses a single expression from source text. Trailing input after
// the expression is an error.
func ParseExpr(src string) (Expr, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	p.skipNewlines()
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipNewlines()
	if tok := p.peek(); tok.Kind != EOF {
		return nil, errorAt(tok.Pos, "unexpected %s after expression", tok.Kind)
	}
	return expr, nil
}

// ParseProgram parses a script: statements separated by newlines or
// semicolons.
func ParseProgram(src string) (*Program, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	prog := &Program{}
	for {
		p.skipTerminators()
		if p.peek().Kind == EOF {
			return prog, nil
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
		if tok := p.peek(); tok.Kind != Newline && tok.Kind != Semicolon && tok.Kind != EOF {
			return nil, errorAt(tok.Pos, "unexpected %s after statement", tok.Kind)
		}
	}
}

func newParser(src string) (*Parser, error) {
	toks, err := ScanAll(src)
	if err != nil {
		return nil, err
	}
	return &Parser{toks: toks}, nil
}

func (p *Parser) parseStmt() (Stmt, error) {
	if p.peek().Kind == Ident && p.peekAt(1).Kind == Assign {
		name := p.next()
		p.next() // '='
		p.skipNewlines()
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &AssignStmt{Name: name.Value, Value: value, Pos: name.Pos}, nil
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ExprStmt{X: expr}, nil
}

// parseExpr parses at the lowest precedence level, the except-expression.
// Consecutive clauses attach to the same construct as a flat, ordered list;
// nesting requires explicit parentheses.
func (p *Parser) parseExpr() (Expr, error) {
	primary, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	if p.peek().Kind != Except {
		return primary, nil
	}

	expr := &ExceptExpr{Primary: primary, Pos: primary.Position()}
	for p.peek().Kind == Except {
		clause, err := p.parseClause()
		if err != nil {
			return nil, err
		}
		expr.Clauses = append(expr.Clauses, clause)
	}
	return expr, nil
}

func (p *Parser) parseClause() (ExceptClause, error) {
	kw := p.next() // 'except'
	clause := ExceptClause{Pos: kw.Pos}
	p.skipNewlines()

	// Bare `except:` matches everything; the explicit broad catch.
	if p.peek().Kind != Colon {
		class, err := p.parseComparison()
		if err != nil {
			return ExceptClause{}, err
		}
		clause.Class = class
		if p.peek().Kind == As {
			p.next()
			p.skipNewlines()
			alias, err := p.expect(Ident)
			if err != nil {
				return ExceptClause{}, err
			}
			clause.Alias = alias.Value
		}
	}

	if _, err := p.expect(Colon); err != nil {
		return ExceptClause{}, err
	}
	p.skipNewlines()

	fallback, err := p.parseComparison()
	if err != nil {
		return ExceptClause{}, err
	}
	clause.Fallback = fallback
	return clause, nil
}

func (p *Parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		switch op.Kind {
		case Eq, NotEq, Less, Greater, LessEq, GreaterEq:
			p.next()
			p.skipNewlines()
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			left = &Binary{Op: op.Kind, Left: left, Right: right, Pos: op.Pos}
		default:
			return left, nil
		}
	}
}

func (p *Parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		switch op.Kind {
		case Plus, Minus:
			p.next()
			p.skipNewlines()
			right, err := p.parseMultiplicative()
			if err != nil {
				return nil, err
			}
			left = &Binary{Op: op.Kind, Left: left, Right: right, Pos: op.Pos}
		default:
			return left, nil
		}
	}
}

func (p *Parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peek()
		switch op.Kind {
		case Star, Slash, Percent:
			p.next()
			p.skipNewlines()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &Binary{Op: op.Kind, Left: left, Right: right, Pos: op.Pos}
		default:
			return left, nil
		}
	}
}

func (p *Parser) parseUnary() (Expr, error) {
	if op := p.peek(); op.Kind == Minus {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: Minus, Operand: operand, Pos: op.Pos}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch tok := p.peek(); tok.Kind {
		case LBracket:
			p.next()
			p.skipNewlines()
			sub, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			p.skipNewlines()
			if _, err := p.expect(RBracket); err != nil {
				return nil, err
			}
			expr = &Index{Target: expr, Sub: sub, Pos: tok.Pos}
		case LParen:
			p.next()
			args, err := p.parseExprList(RParen)
			if err != nil {
				return nil, err
			}
			expr = &Call{Fn: expr, Args: args, Pos: tok.Pos}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case Int:
		p.next()
		v, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, errorAt(tok.Pos, "invalid integer literal %q", tok.Value)
		}
		return &IntLit{Value: v, Pos: tok.Pos}, nil
	case Float:
		p.next()
		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, errorAt(tok.Pos, "invalid float literal %q", tok.Value)
		}
		return &FloatLit{Value: v, Pos: tok.Pos}, nil
	case String:
		p.next()
		return &StringLit{Value: tok.Value, Pos: tok.Pos}, nil
	case True, False:
		p.next()
		return &BoolLit{Value: tok.Kind == True, Pos: tok.Pos}, nil
	case Nil:
		p.next()
		return &NilLit{Pos: tok.Pos}, nil
	case Ident:
		p.next()
		return &Name{Ident: tok.Value, Pos: tok.Pos}, nil
	case LBracket:
		p.next()
		elems, err := p.parseExprList(RBracket)
		if err != nil {
			return nil, err
		}
		return &ListLit{Elems: elems, Pos: tok.Pos}, nil
	case LParen:
		p.next()
		p.skipNewlines()
		first, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		p.skipNewlines()
		if p.peek().Kind != Comma {
			if _, err := p.expect(RParen); err != nil {
				return nil, err
			}
			return first, nil
		}
		// A comma turns the group into a tuple, usable as a class set.
		elems := []Expr{first}
		for p.peek().Kind == Comma {
			p.next()
			p.skipNewlines()
			if p.peek().Kind == RParen {
				break
			}
			elem, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
			p.skipNewlines()
		}
		if _, err := p.expect(RParen); err != nil {
			return nil, err
		}
		return &Tuple{Elems: elems, Pos: tok.Pos}, nil
	}
	return nil, errorAt(tok.Pos, "unexpected %s", tok.Kind)
}

// parseExprList parses a comma-separated expression list up to the closing
// token, which is consumed. The opening token has already been consumed.
func (p *Parser) parseExprList(close Kind) ([]Expr, error) {
	var elems []Expr
	p.skipNewlines()
	for p.peek().Kind != close {
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		p.skipNewlines()
		if p.peek().Kind != Comma {
			break
		}
		p.next()
		p.skipNewlines()
	}
	if _, err := p.expect(close); err != nil {
		return nil, err
	}
	return elems, nil
}

func (p *Parser) peek() Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos+n]
}

func (p *Parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind Kind) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return Token{}, errorAt(tok.Pos, "expected %s, found %s", kind, tok.Kind)
	}
	return p.next(), nil
}

func (p *Parser) skipNewlines() {
	for p.peek().Kind == Newline {
		p.next()
	}
}

func (p *Parser) skipTerminators() {
	for {
		switch p.peek().Kind {
		case Newline, Semicolon:
			p.next()
		default:
			return
		}
	}
}
