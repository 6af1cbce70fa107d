package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanmorri810/pgschemadiff/go/parser/keywords"
)

func lexAll(t *testing.T, input string) []*Token {
	t.Helper()
	l := NewLexer(input)
	var tokens []*Token
	for {
		tok := l.NextToken()
		if tok.Type == keywords.EOF {
			return tokens
		}
		tokens = append(tokens, tok)
		require.Less(t, len(tokens), 1000, "lexer did not terminate")
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	tokens := lexAll(t, "CREATE TABLE users")
	require.Len(t, tokens, 3)
	assert.Equal(t, keywords.CREATE, tokens[0].Type)
	assert.Equal(t, keywords.TABLE, tokens[1].Type)
	assert.Equal(t, keywords.IDENT, tokens[2].Type)
	assert.Equal(t, "users", tokens[2].Text)
}

func TestKeywordCaseInsensitive(t *testing.T) {
	tokens := lexAll(t, "create TaBlE")
	require.Len(t, tokens, 2)
	assert.Equal(t, keywords.CREATE, tokens[0].Type)
	assert.Equal(t, keywords.TABLE, tokens[1].Type)
	assert.Equal(t, "create", tokens[0].Raw, "raw text keeps input spelling")
}

func TestDelimitedIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", `"My Table"`, "My Table"},
		{"doubled quote escape", `"say ""hi"""`, `say "hi"`},
		{"keyword stays identifier", `"table"`, "table"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := lexAll(t, tt.input)
			require.Len(t, tokens, 1)
			assert.Equal(t, keywords.IDENT, tokens[0].Type)
			assert.Equal(t, tt.want, tokens[0].Text, "quotes stripped, escapes resolved")
		})
	}
}

func TestStringLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "'hello'", "hello"},
		{"doubled quote", "'it''s'", "it's"},
		{"backslash newline", `'a\nb'`, "a\nb"},
		{"backslash other", `'a\qb'`, "aqb"},
		{"empty", "''", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := lexAll(t, tt.input)
			require.Len(t, tokens, 1)
			assert.Equal(t, keywords.SCONST, tokens[0].Type)
			assert.Equal(t, tt.want, tokens[0].Text)
		})
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		typ   keywords.Token
	}{
		{"integer", "42", keywords.ICONST},
		{"decimal", "3.14", keywords.FCONST},
		{"exponent", "1e5", keywords.FCONST},
		{"signed exponent", "2.5E-3", keywords.FCONST},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := lexAll(t, tt.input)
			require.Len(t, tokens, 1)
			assert.Equal(t, tt.typ, tokens[0].Type)
			assert.Equal(t, tt.input, tokens[0].Text)
		})
	}
}

func TestTrailingDotIsNotFraction(t *testing.T) {
	// "3." is an integer followed by punctuation, not a float
	tokens := lexAll(t, "3.foo")
	require.Len(t, tokens, 3)
	assert.Equal(t, keywords.ICONST, tokens[0].Type)
	assert.Equal(t, keywords.Token('.'), tokens[1].Type)
	assert.Equal(t, keywords.IDENT, tokens[2].Type)
}

func TestTypecastOperator(t *testing.T) {
	tokens := lexAll(t, "x::integer")
	require.Len(t, tokens, 3)
	assert.Equal(t, keywords.IDENT, tokens[0].Type)
	assert.Equal(t, keywords.TYPECAST, tokens[1].Type)
	assert.Equal(t, keywords.INTEGER, tokens[2].Type)
}

func TestBareColonIsError(t *testing.T) {
	l := NewLexer("a : b")
	first := l.NextToken()
	assert.Equal(t, keywords.IDENT, first.Type)
	second := l.NextToken()
	assert.Equal(t, keywords.ERROR, second.Type)
	assert.True(t, l.Context().HasErrors())
}

func TestOperators(t *testing.T) {
	tests := []struct {
		input string
		want  []keywords.Token
		raws  []string
	}{
		{"a + b", []keywords.Token{keywords.IDENT, keywords.Token('+'), keywords.IDENT}, []string{"a", "+", "b"}},
		{"a || b", []keywords.Token{keywords.IDENT, keywords.OP, keywords.IDENT}, []string{"a", "||", "b"}},
		{"r1 && r2", []keywords.Token{keywords.IDENT, keywords.OP, keywords.IDENT}, []string{"r1", "&&", "r2"}},
		{"a @> b", []keywords.Token{keywords.IDENT, keywords.OP, keywords.IDENT}, []string{"a", "@>", "b"}},
		{"a <> b", []keywords.Token{keywords.IDENT, keywords.OP, keywords.IDENT}, []string{"a", "<>", "b"}},
		{"a >= 1", []keywords.Token{keywords.IDENT, keywords.OP, keywords.ICONST}, []string{"a", ">=", "1"}},
		{"a > -1", []keywords.Token{keywords.IDENT, keywords.Token('>'), keywords.Token('-'), keywords.ICONST}, []string{"a", ">", "-", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := lexAll(t, tt.input)
			require.Len(t, tokens, len(tt.want))
			for i, typ := range tt.want {
				assert.Equal(t, typ, tokens[i].Type, "token %d of %q", i, tt.input)
				assert.Equal(t, tt.raws[i], tokens[i].Raw)
			}
		})
	}
}

func TestOperatorStopsBeforeComment(t *testing.T) {
	l := NewLexer("a +-- rest\nb")
	tokens := []keywords.Token{
		l.NextToken().Type, l.NextToken().Type, l.NextToken().Type,
	}
	assert.Equal(t, []keywords.Token{keywords.IDENT, keywords.Token('+'), keywords.IDENT}, tokens)
}

func TestUnexpectedCharacter(t *testing.T) {
	l := NewLexer("{")
	tok := l.NextToken()
	assert.Equal(t, keywords.ERROR, tok.Type)
	require.True(t, l.Context().HasErrors())
	assert.Equal(t, 1, l.Context().Errors[0].Line)
	assert.Equal(t, 1, l.Context().Errors[0].Column)
}

func TestBareColonPosition(t *testing.T) {
	l := NewLexer("ab :")
	assert.Equal(t, keywords.IDENT, l.NextToken().Type)
	tok := l.NextToken()
	assert.Equal(t, keywords.ERROR, tok.Type)
	require.True(t, l.Context().HasErrors())
	assert.Equal(t, 1, l.Context().Errors[0].Line)
	assert.Equal(t, 4, l.Context().Errors[0].Column, "error points at the colon itself")
}

func TestComments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []keywords.Token
	}{
		{"line comment", "a -- everything here\nb", []keywords.Token{keywords.IDENT, keywords.IDENT}},
		{"block comment", "a /* skip */ b", []keywords.Token{keywords.IDENT, keywords.IDENT}},
		{"block comment single close", "a /* one /* still one */ b", []keywords.Token{keywords.IDENT, keywords.IDENT}},
		{"comment at end", "a --done", []keywords.Token{keywords.IDENT}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := lexAll(t, tt.input)
			require.Len(t, tokens, len(tt.want))
			for i, typ := range tt.want {
				assert.Equal(t, typ, tokens[i].Type)
			}
		})
	}
}

func TestUnterminatedString(t *testing.T) {
	l := NewLexer("'oops")
	tok := l.NextToken()
	assert.Equal(t, keywords.ERROR, tok.Type)
	assert.True(t, l.Context().HasErrors())
}

func TestLineAndColumnTracking(t *testing.T) {
	tokens := lexAll(t, "CREATE\n  TABLE users")
	require.Len(t, tokens, 3)

	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, 1, tokens[0].Column)
	assert.Equal(t, 2, tokens[1].Line)
	assert.Equal(t, 3, tokens[1].Column)
	assert.Equal(t, 2, tokens[2].Line)
	assert.Equal(t, 9, tokens[2].Column)
}

func TestPunctuation(t *testing.T) {
	tokens := lexAll(t, "(a, b);")
	require.Len(t, tokens, 6)
	assert.Equal(t, keywords.Token('('), tokens[0].Type)
	assert.Equal(t, keywords.Token(','), tokens[2].Type)
	assert.Equal(t, keywords.Token(')'), tokens[4].Type)
	assert.Equal(t, keywords.Token(';'), tokens[5].Type)
}
