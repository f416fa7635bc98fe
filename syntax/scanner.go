package syntax

import (
	"strings"
	"unicode"
)

// Scanner converts source text into a token stream.
type Scanner struct {
	src  []rune
	pos  int
	line int
	col  int
}

// NewScanner creates a scanner over the given source text.
func NewScanner(src string) *Scanner {
	return &Scanner{src: []rune(src), line: 1, col: 1}
}

// ScanAll reads every token in the source, terminated by an EOF token.
func ScanAll(src string) ([]Token, error) {
	s := NewScanner(src)
	var toks []Token
	for {
		tok, err := s.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

// Next returns the next token in the stream. After the source is exhausted it
// returns EOF tokens indefinitely.
func (s *Scanner) Next() (Token, error) {
	s.skipSpaceAndComments()
	start := Pos{Line: s.line, Col: s.col}

	if s.eof() {
		return Token{Kind: EOF, Pos: start}, nil
	}

	r := s.peek()
	if r == '\n' {
		// Collapse runs of blank lines into a single Newline token.
		for !s.eof() {
			r = s.peek()
			if r == '\n' || r == ' ' || r == '\t' || r == '\r' {
				s.advance()
				continue
			}
			break
		}
		return Token{Kind: Newline, Value: "\n", Pos: start}, nil
	}
	switch {
	case isIdentStart(r):
		return s.scanWord(start), nil
	case unicode.IsDigit(r):
		return s.scanNumber(start)
	case r == '"':
		return s.scanString(start)
	}

	// Operators and punctuation.
	s.advance()
	switch r {
	case '(':
		return Token{Kind: LParen, Value: "(", Pos: start}, nil
	case ')':
		return Token{Kind: RParen, Value: ")", Pos: start}, nil
	case '[':
		return Token{Kind: LBracket, Value: "[", Pos: start}, nil
	case ']':
		return Token{Kind: RBracket, Value: "]", Pos: start}, nil
	case ',':
		return Token{Kind: Comma, Value: ",", Pos: start}, nil
	case ':':
		return Token{Kind: Colon, Value: ":", Pos: start}, nil
	case ';':
		return Token{Kind: Semicolon, Value: ";", Pos: start}, nil
	case '+':
		return Token{Kind: Plus, Value: "+", Pos: start}, nil
	case '-':
		return Token{Kind: Minus, Value: "-", Pos: start}, nil
	case '*':
		return Token{Kind: Star, Value: "*", Pos: start}, nil
	case '/':
		return Token{Kind: Slash, Value: "/", Pos: start}, nil
	case '%':
		return Token{Kind: Percent, Value: "%", Pos: start}, nil
	case '=':
		if s.match('=') {
			return Token{Kind: Eq, Value: "==", Pos: start}, nil
		}
		return Token{Kind: Assign, Value: "=", Pos: start}, nil
	case '!':
		if s.match('=') {
			return Token{Kind: NotEq, Value: "!=", Pos: start}, nil
		}
		return Token{}, errorAt(start, "unexpected character %q", '!')
	case '<':
		if s.match('=') {
			return Token{Kind: LessEq, Value: "<=", Pos: start}, nil
		}
		return Token{Kind: Less, Value: "<", Pos: start}, nil
	case '>':
		if s.match('=') {
			return Token{Kind: GreaterEq, Value: ">=", Pos: start}, nil
		}
		return Token{Kind: Greater, Value: ">", Pos: start}, nil
	}

	return Token{}, errorAt(start, "unexpected character %q", r)
}

func (s *Scanner) scanWord(start Pos) Token {
	begin := s.pos
	for !s.eof() && isIdentPart(s.peek()) {
		s.advance()
	}
	word := string(s.src[begin:s.pos])
	if kind, ok := keywords[word]; ok {
		return Token{Kind: kind, Value: word, Pos: start}
	}
	return Token{Kind: Ident, Value: word, Pos: start}
}

func (s *Scanner) scanNumber(start Pos) (Token, error) {
	begin := s.pos
	for !s.eof() && unicode.IsDigit(s.peek()) {
		s.advance()
	}
	kind := Int
	// A '.' followed by a digit extends the literal into a float; a bare '.'
	// is a syntax error since the language has no attribute access.
	if !s.eof() && s.peek() == '.' {
		kind = Float
		s.advance()
		if s.eof() || !unicode.IsDigit(s.peek()) {
			return Token{}, errorAt(start, "malformed number %q", string(s.src[begin:s.pos]))
		}
		for !s.eof() && unicode.IsDigit(s.peek()) {
			s.advance()
		}
	}
	return Token{Kind: kind, Value: string(s.src[begin:s.pos]), Pos: start}, nil
}

func (s *Scanner) scanString(start Pos) (Token, error) {
	s.advance() // opening quote
	var b strings.Builder
	for {
		if s.eof() {
			return Token{}, errorAt(start, "unterminated string literal")
		}
		r := s.peek()
		if r == '\n' {
			return Token{}, errorAt(start, "newline in string literal")
		}
		s.advance()
		switch r {
		case '"':
			return Token{Kind: String, Value: b.String(), Pos: start}, nil
		case '\\':
			if s.eof() {
				return Token{}, errorAt(start, "unterminated string literal")
			}
			esc := s.peek()
			s.advance()
			switch esc {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case '\\':
				b.WriteRune('\\')
			case '"':
				b.WriteRune('"')
			default:
				return Token{}, errorAt(start, "invalid escape sequence \\%c", esc)
			}
		default:
			b.WriteRune(r)
		}
	}
}

func (s *Scanner) skipSpaceAndComments() {
	for !s.eof() {
		r := s.peek()
		switch {
		case r == '#':
			for !s.eof() && s.peek() != '\n' {
				s.advance()
			}
		case r == ' ' || r == '\t' || r == '\r':
			s.advance()
		default:
			return
		}
	}
}

func (s *Scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *Scanner) peek() rune {
	return s.src[s.pos]
}

func (s *Scanner) advance() {
	if s.src[s.pos] == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	s.pos++
}

func (s *Scanner) match(r rune) bool {
	if s.eof() || s.peek() != r {
		return false
	}
	s.advance()
	return true
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
