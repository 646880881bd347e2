// Copyright © 2026 The octls authors

package query

import (
	goparser "go/parser"
	"go/token"
	"testing"

	parsec "github.com/prataprc/goparsec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"3:0", Command{Kind: KindPosition, Line: 3, Col: 0}},
		{"  12 : 7  ", Command{Kind: KindPosition, Line: 12, Col: 7}},
		{"def inc", Command{Kind: KindDefinition, Name: "inc"}},
		{"def   get.Value", Command{Kind: KindDefinition, Name: "get.Value"}},
		{"refs x_1", Command{Kind: KindReferences, Name: "x_1"}},
		{"syms", Command{Kind: KindSymbols}},
		{"help", Command{Kind: KindHelp}},
		{"?", Command{Kind: KindHelp}},
		{"quit", Command{Kind: KindQuit}},
		{"exit", Command{Kind: KindQuit}},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			got, err := Parse(test.input)
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, input := range []string{
		"",
		"   ",
		"3",
		"3:",
		":4",
		"3:4:5",
		"def",
		"def 9lives",
		"definc",
		"syms extra",
		"quitter",
		"hover 1:2",
		"99999999999999999999:0",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.Error(t, err)
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "def", KindDefinition.String())
	assert.Equal(t, "syms", KindSymbols.String())
	assert.Equal(t, "invalid", Kind(42).String())
}

func TestGrammar_YieldsCommand(t *testing.T) {
	for _, input := range []string{"3:0", "def inc", "refs x", "syms", "help", "quit"} {
		t.Run(input, func(t *testing.T) {
			root, s := grammar(parsec.NewScanner([]byte(input)))
			require.NotNil(t, root)
			assert.True(t, s.Endof())
			assert.IsType(t, Command{}, root)
		})
	}
}

func TestParse_PositionOverflow(t *testing.T) {
	_, err := Parse("99999999999999999999:0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad line")

	_, err = Parse("0:99999999999999999999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad column")
}

func TestPackageDoc(t *testing.T) {
	f, err := goparser.ParseFile(token.NewFileSet(), "command.go", nil, goparser.ParseComments|goparser.PackageClauseOnly)
	require.NoError(t, err)
	require.NotNil(t, f.Doc)
	doc := f.Doc.Text()
	assert.Contains(t, doc, "name     := <ident> ('.' <ident>)*")
	assert.Contains(t, doc, "Positions are 0-based")
}
