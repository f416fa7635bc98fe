package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(t *testing.T, src string) []Kind {
	t.Helper()
	toks, err := ScanAll(src)
	require.NoError(t, err)
	out := make([]Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestScanner_Expression(t *testing.T) {
	got := kinds(t, `lst[2] except IndexError as e: "No value"`)
	want := []Kind{
		Ident, LBracket, Int, RBracket,
		Except, Ident, As, Ident, Colon, String,
		EOF,
	}
	assert.Equal(t, want, got)
}

func TestScanner_OperatorsAndNumbers(t *testing.T) {
	got := kinds(t, `1 + 2.5 * -3 == 4 != 5 <= 6 >= 7 < 8 > 9 % 10 / 11`)
	want := []Kind{
		Int, Plus, Float, Star, Minus, Int, Eq, Int, NotEq, Int,
		LessEq, Int, GreaterEq, Int, Less, Int, Greater, Int,
		Percent, Int, Slash, Int, EOF,
	}
	assert.Equal(t, want, got)
}

func TestScanner_StringEscapes(t *testing.T) {
	toks, err := ScanAll(`"a\nb\t\"c\\"`)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "a\nb\t\"c\\", toks[0].Value)
}

func TestScanner_CommentsAndNewlines(t *testing.T) {
	got := kinds(t, "a = 1 # trailing comment\n\n# full-line comment\nb = 2")
	want := []Kind{Ident, Assign, Int, Newline, Newline, Ident, Assign, Int, EOF}
	assert.Equal(t, want, got)
}

func TestScanner_Positions(t *testing.T) {
	toks, err := ScanAll("a\n  bb")
	require.NoError(t, err)
	require.Len(t, toks, 4) // a, newline, bb, EOF
	assert.Equal(t, Pos{Line: 1, Col: 1}, toks[0].Pos)
	assert.Equal(t, Pos{Line: 2, Col: 3}, toks[2].Pos)
}

func TestScanner_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unterminated string", `"abc`},
		{"newline in string", "\"a\nb\""},
		{"bad escape", `"\q"`},
		{"lone bang", `1 ! 2`},
		{"malformed float", `1.`},
		{"stray character", `a @ b`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ScanAll(tt.src)
			require.Error(t, err)
			var serr *SyntaxError
			assert.ErrorAs(t, err, &serr)
		})
	}
}
