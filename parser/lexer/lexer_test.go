// Copyright © 2026 The octls authors

package lexer

import (
	"testing"

	"github.com/octls/octls/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		tokens []*token.Token
	}{
		{"empty", ``, []*token.Token{
			testToken(token.EOF, ""),
		}},
		{"assignment", "msg = 'Hello, world!'\n", []*token.Token{
			testToken(token.IDENT, "msg"),
			testToken(token.ASSIGN, "="),
			testToken(token.STRING, "'Hello, world!'"),
			testToken(token.NEWLINE, "\n"),
			testToken(token.EOF, ""),
		}},
		{"call", "disp(msg)", []*token.Token{
			testToken(token.IDENT, "disp"),
			testToken(token.PAREN_L, "("),
			testToken(token.IDENT, "msg"),
			testToken(token.PAREN_R, ")"),
			testToken(token.EOF, ""),
		}},
		{"transpose", "y = x' + a.' * b(1)'", []*token.Token{
			testToken(token.IDENT, "y"),
			testToken(token.ASSIGN, "="),
			testToken(token.IDENT, "x"),
			testToken(token.TRANSPOSE, "'"),
			testToken(token.OP, "+"),
			testToken(token.IDENT, "a"),
			testToken(token.TRANSPOSE, ".'"),
			testToken(token.OP, "*"),
			testToken(token.IDENT, "b"),
			testToken(token.PAREN_L, "("),
			testToken(token.NUMBER, "1"),
			testToken(token.PAREN_R, ")"),
			testToken(token.TRANSPOSE, "'"),
			testToken(token.EOF, ""),
		}},
		{"matrix strings", "[a 'b' c']", []*token.Token{
			testToken(token.BRACKET_L, "["),
			testToken(token.IDENT, "a"),
			testToken(token.STRING, "'b'"),
			testToken(token.IDENT, "c"),
			testToken(token.TRANSPOSE, "'"),
			testToken(token.BRACKET_R, "]"),
			testToken(token.EOF, ""),
		}},
		{"strings", `"a\"b" 'it''s' ""`, []*token.Token{
			testToken(token.STRING, `"a\"b"`),
			testToken(token.STRING, `'it''s'`),
			testToken(token.STRING, `""`),
			testToken(token.EOF, ""),
		}},
		{"numbers", "1 2.5 .5 1e3 1.5e-3 3i 0x1F 0b101 1./x", []*token.Token{
			testToken(token.NUMBER, "1"),
			testToken(token.NUMBER, "2.5"),
			testToken(token.NUMBER, ".5"),
			testToken(token.NUMBER, "1e3"),
			testToken(token.NUMBER, "1.5e-3"),
			testToken(token.NUMBER, "3i"),
			testToken(token.NUMBER, "0x1F"),
			testToken(token.NUMBER, "0b101"),
			testToken(token.NUMBER, "1"),
			testToken(token.OP, "./"),
			testToken(token.IDENT, "x"),
			testToken(token.EOF, ""),
		}},
		{"operators", "a==b~=c&&d||~e", []*token.Token{
			testToken(token.IDENT, "a"),
			testToken(token.OP, "=="),
			testToken(token.IDENT, "b"),
			testToken(token.OP, "~="),
			testToken(token.IDENT, "c"),
			testToken(token.OP, "&&"),
			testToken(token.IDENT, "d"),
			testToken(token.OP, "||"),
			testToken(token.OP, "~"),
			testToken(token.IDENT, "e"),
			testToken(token.EOF, ""),
		}},
		{"keywords and handles", "function r = f(x)\nendfunction\ng = @f;", []*token.Token{
			testToken(token.KEYWORD, "function"),
			testToken(token.IDENT, "r"),
			testToken(token.ASSIGN, "="),
			testToken(token.IDENT, "f"),
			testToken(token.PAREN_L, "("),
			testToken(token.IDENT, "x"),
			testToken(token.PAREN_R, ")"),
			testToken(token.NEWLINE, "\n"),
			testToken(token.KEYWORD, "endfunction"),
			testToken(token.NEWLINE, "\n"),
			testToken(token.IDENT, "g"),
			testToken(token.ASSIGN, "="),
			testToken(token.AT, "@"),
			testToken(token.IDENT, "f"),
			testToken(token.SEMI, ";"),
			testToken(token.EOF, ""),
		}},
		{"comments", "x = 1 % one\n# two\ny", []*token.Token{
			testToken(token.IDENT, "x"),
			testToken(token.ASSIGN, "="),
			testToken(token.NUMBER, "1"),
			testToken(token.COMMENT, "% one"),
			testToken(token.NEWLINE, "\n"),
			testToken(token.COMMENT, "# two"),
			testToken(token.NEWLINE, "\n"),
			testToken(token.IDENT, "y"),
			testToken(token.EOF, ""),
		}},
		{"block comment", "%{\nx = 1\n  %{\n  %}\n%}\ny", []*token.Token{
			testToken(token.COMMENT, "%{\nx = 1\n  %{\n  %}\n%}"),
			testToken(token.NEWLINE, "\n"),
			testToken(token.IDENT, "y"),
			testToken(token.EOF, ""),
		}},
		{"not a block comment", "%{ x\ny", []*token.Token{
			testToken(token.COMMENT, "%{ x"),
			testToken(token.NEWLINE, "\n"),
			testToken(token.IDENT, "y"),
			testToken(token.EOF, ""),
		}},
		{"continuation", "a = b + ... comment\n  c", []*token.Token{
			testToken(token.IDENT, "a"),
			testToken(token.ASSIGN, "="),
			testToken(token.IDENT, "b"),
			testToken(token.OP, "+"),
			testToken(token.IDENT, "c"),
			testToken(token.EOF, ""),
		}},
		{"command syntax", "hold on\npkg load 'signal', x", []*token.Token{
			testToken(token.IDENT, "hold"),
			testToken(token.COMMAND_WORD, "on"),
			testToken(token.NEWLINE, "\n"),
			testToken(token.IDENT, "pkg"),
			testToken(token.COMMAND_WORD, "load"),
			testToken(token.COMMAND_WORD, "'signal'"),
			testToken(token.COMMA, ","),
			testToken(token.IDENT, "x"),
			testToken(token.EOF, ""),
		}},
		{"not command syntax", "a = 1; a -1\nb + c\nf (1)", []*token.Token{
			testToken(token.IDENT, "a"),
			testToken(token.ASSIGN, "="),
			testToken(token.NUMBER, "1"),
			testToken(token.SEMI, ";"),
			testToken(token.IDENT, "a"),
			testToken(token.OP, "-"),
			testToken(token.NUMBER, "1"),
			testToken(token.NEWLINE, "\n"),
			testToken(token.IDENT, "b"),
			testToken(token.OP, "+"),
			testToken(token.IDENT, "c"),
			testToken(token.NEWLINE, "\n"),
			testToken(token.IDENT, "f"),
			testToken(token.PAREN_L, "("),
			testToken(token.NUMBER, "1"),
			testToken(token.PAREN_R, ")"),
			testToken(token.EOF, ""),
		}},
		{"unterminated string", "s = 'abc\nt", []*token.Token{
			testToken(token.IDENT, "s"),
			testToken(token.ASSIGN, "="),
			testToken(token.ERROR, "unterminated string"),
			testToken(token.NEWLINE, "\n"),
			testToken(token.IDENT, "t"),
			testToken(token.EOF, ""),
		}},
		{"unexpected character", "a = $b", []*token.Token{
			testToken(token.IDENT, "a"),
			testToken(token.ASSIGN, "="),
			testToken(token.ERROR, `unexpected character '$'`),
			testToken(token.IDENT, "b"),
			testToken(token.EOF, ""),
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tokens := lexAll(t, test.input)
			for _, tok := range tokens {
				tok.Source = nil
				tok.Space = false
			}
			assert.Equal(t, test.tokens, tokens)
		})
	}
}

func TestLexer_Locations(t *testing.T) {
	tokens := lexAll(t, "x = 1;\n  y = 'é' + x\n")
	require.Len(t, tokens, 12)
	assert.Equal(t, &token.Location{Pos: 0, Line: 1, Col: 1}, tokens[0].Source)
	assert.Equal(t, "y", tokens[5].Text)
	assert.Equal(t, &token.Location{Pos: 9, Line: 2, Col: 3}, tokens[5].Source)
	assert.Equal(t, "x", tokens[9].Text)
	// Columns count bytes; é takes two.
	assert.Equal(t, &token.Location{Pos: 20, Line: 2, Col: 14}, tokens[9].Source)
	assert.True(t, tokens[1].Space)
	assert.False(t, tokens[0].Space)
}

func TestLexer_EOFRepeats(t *testing.T) {
	lex := New(token.NewScanner("", "x"))
	assert.Equal(t, token.IDENT, lex.ReadToken().Type)
	for i := 0; i < 3; i++ {
		assert.Equal(t, token.EOF, lex.ReadToken().Type)
	}
}

func lexAll(t *testing.T, input string) []*token.Token {
	lex := New(token.NewScanner("", input))
	var tokens []*token.Token
	for {
		tok := lex.ReadToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
		if len(tokens) > 100000 {
			t.Fatalf("apparent infinite scanning loop")
		}
	}
}

func testToken(typ token.Type, text string) *token.Token {
	return &token.Token{
		Type: typ,
		Text: text,
	}
}
