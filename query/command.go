// Copyright © 2026 The octls authors

// Package query implements an interactive explorer for the index of a single
// Octave file.
//
//	command  := position | def | refs | syms | help | quit
//	position := <int> ':' <int>
//	def      := 'def' <name>
//	refs     := 'refs' <name>
//	syms     := 'syms'
//	help     := 'help' | '?'
//	quit     := 'quit' | 'exit'
//	name     := <ident> ('.' <ident>)*
//	ident    := [A-Za-z_][A-Za-z0-9_]*
//
// Positions are 0-based, with columns in UTF-16 code units, exactly as a
// language client would send them.
package query

import (
	"fmt"
	"strconv"
	"strings"

	parsec "github.com/prataprc/goparsec"
)

// Kind identifies a query command.
type Kind int

const (
	KindInvalid Kind = iota
	KindPosition
	KindDefinition
	KindReferences
	KindSymbols
	KindHelp
	KindQuit
)

var kindStrings = []string{
	KindInvalid:    "invalid",
	KindPosition:   "position",
	KindDefinition: "def",
	KindReferences: "refs",
	KindSymbols:    "syms",
	KindHelp:       "help",
	KindQuit:       "quit",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindStrings) {
		return kindStrings[KindInvalid]
	}
	return kindStrings[k]
}

// Command is a parsed query.
type Command struct {
	Kind Kind
	Line int
	Col  int
	Name string
}

// Parse parses one line of input.
func Parse(line string) (Command, error) {
	text := strings.TrimSpace(line)
	if text == "" {
		return Command{}, fmt.Errorf("empty command")
	}
	s := parsec.NewScanner([]byte(text))
	root, s := grammar(s)
	if root == nil || !s.Endof() {
		return Command{}, fmt.Errorf("unrecognized command %q (try help)", text)
	}
	if nodes, ok := root.([]parsec.ParsecNode); ok && len(nodes) == 1 {
		root = nodes[0]
	}
	switch cmd := root.(type) {
	case Command:
		return cmd, nil
	case error:
		return Command{}, cmd
	}
	return Command{}, fmt.Errorf("unrecognized command %q (try help)", text)
}

var grammar = newGrammar()

// Token patterns tolerate leading blanks so values are trimmed in the node
// callbacks.
func newGrammar() parsec.Parser {
	integer := parsec.Token(`^\s*[0-9]+`, "INT")
	colon := parsec.Token(`^\s*:`, "COLON")
	name := parsec.Token(`^\s*[A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*`, "NAME")
	keyword := func(word, nodeName string) parsec.Parser {
		return parsec.Token(`^\s*`+word+`\b`, nodeName)
	}

	position := parsec.And(positionNode, integer, colon, integer)
	def := parsec.And(nameNode(KindDefinition), keyword("def", "DEF"), name)
	refs := parsec.And(nameNode(KindReferences), keyword("refs", "REFS"), name)
	syms := parsec.And(kindNode(KindSymbols), keyword("syms", "SYMS"))
	help := parsec.And(kindNode(KindHelp), parsec.OrdChoice(nil, keyword("help", "HELP"), parsec.Token(`^\s*\?`, "HELP")))
	quit := parsec.And(kindNode(KindQuit), parsec.OrdChoice(nil, keyword("quit", "QUIT"), keyword("exit", "QUIT")))

	return parsec.OrdChoice(firstNode, position, def, refs, syms, help, quit)
}

// firstNode unwraps the single node matched by an OrdChoice.
func firstNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func terminalValue(node parsec.ParsecNode) string {
	if t, ok := node.(*parsec.Terminal); ok {
		return strings.TrimSpace(t.GetValue())
	}
	return ""
}

func positionNode(nodes []parsec.ParsecNode) parsec.ParsecNode {
	line, err := strconv.Atoi(terminalValue(nodes[0]))
	if err != nil {
		return fmt.Errorf("bad line: %w", err)
	}
	col, err := strconv.Atoi(terminalValue(nodes[2]))
	if err != nil {
		return fmt.Errorf("bad column: %w", err)
	}
	return Command{Kind: KindPosition, Line: line, Col: col}
}

func nameNode(kind Kind) parsec.Nodify {
	return func(nodes []parsec.ParsecNode) parsec.ParsecNode {
		return Command{Kind: kind, Name: terminalValue(nodes[1])}
	}
}

func kindNode(kind Kind) parsec.Nodify {
	return func([]parsec.ParsecNode) parsec.ParsecNode {
		return Command{Kind: kind}
	}
}
