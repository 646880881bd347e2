// Copyright © 2026 The octls authors

// Package parser walks Octave source and reports the identifier occurrences
// and name bindings it finds.  It implements analysis.Source.
//
// The walker works one statement at a time and recognizes only the
// constructs that bind names: assignments, function headers, loop
// variables, declarations, anonymous function parameters and class
// definitions.  Every other identifier is reported as a plain occurrence.
// Syntax problems are reported as errors and the walk carries on with the
// next statement.
package parser

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/octls/octls/analysis"
	"github.com/octls/octls/parser/lexer"
	"github.com/octls/octls/parser/token"
)

// Parser is an analysis.Source for Octave text.
type Parser struct {
	file string
}

var _ analysis.Source = (*Parser)(nil)

// New returns a Parser.  The file name only appears in error messages.
func New(file string) *Parser {
	return &Parser{file: file}
}

// Walk implements analysis.Source.
func (p *Parser) Walk(text string) iter.Seq2[analysis.Event, error] {
	return func(yield func(analysis.Event, error) bool) {
		w := &walker{
			lex:     lexer.New(token.NewScanner(p.file, text)),
			yield:   yield,
			defined: make(map[string]bool),
		}
		w.run()
	}
}

type walker struct {
	lex     *lexer.Lexer
	yield   func(analysis.Event, error) bool
	stopped bool
	open    []*token.Token // unclosed delimiters of the current statement
	defined map[string]bool
	eof     bool
}

func (w *walker) run() {
	for !w.stopped && !w.eof {
		stmt := w.readStatement()
		w.statement(stmt)
	}
}

// readStatement returns the tokens of the next statement without its
// terminator.  Comments are dropped and lexical errors are reported as they
// are read.
func (w *walker) readStatement() []*token.Token {
	var stmt []*token.Token
	w.open = w.open[:0]
	for !w.stopped {
		tok := w.lex.ReadToken()
		switch tok.Type {
		case token.EOF:
			w.eof = true
			for _, open := range w.open {
				w.fail(open, "unclosed %q", open.Text)
			}
			return stmt
		case token.ERROR:
			w.report(tok, errors.New(tok.Text))
			continue
		case token.COMMENT:
			continue
		case token.NEWLINE:
			if len(w.open) == 0 {
				return stmt
			}
			if w.inParens() {
				// A newline cannot continue a parenthesized expression.
				for _, open := range w.open {
					w.fail(open, "unclosed %q", open.Text)
				}
				w.open = w.open[:0]
				return stmt
			}
			continue
		case token.SEMI, token.COMMA:
			if len(w.open) == 0 {
				return stmt
			}
		case token.PAREN_L, token.BRACKET_L, token.BRACE_L:
			w.open = append(w.open, tok)
		case token.PAREN_R, token.BRACKET_R, token.BRACE_R:
			if !w.close(tok) {
				continue
			}
		}
		stmt = append(stmt, tok)
	}
	return stmt
}

func (w *walker) inParens() bool {
	for _, open := range w.open {
		if open.Type == token.PAREN_L {
			return true
		}
	}
	return false
}

// close pops the delimiter matched by tok.  It returns false if tok closes
// nothing and should be dropped.
func (w *walker) close(tok *token.Token) bool {
	n := len(w.open)
	if n == 0 {
		w.fail(tok, "unexpected %q", tok.Text)
		return false
	}
	open := w.open[n-1]
	w.open = w.open[:n-1]
	if matching(open.Type) != tok.Type {
		w.fail(tok, "%q does not match %q at %s", tok.Text, open.Text, open.Source)
	}
	return true
}

func matching(typ token.Type) token.Type {
	switch typ {
	case token.PAREN_L:
		return token.PAREN_R
	case token.BRACKET_L:
		return token.BRACKET_R
	case token.BRACE_L:
		return token.BRACE_R
	}
	return token.INVALID
}

func (w *walker) statement(ts []*token.Token) {
	if len(ts) == 0 {
		return
	}
	if ts[0].Type == token.KEYWORD {
		switch ts[0].Text {
		case "function":
			w.function(ts)
		case "for", "parfor":
			w.forLoop(ts)
		case "global", "persistent":
			w.declaration(ts)
		case "classdef":
			w.classdef(ts)
		default:
			// Keywords such as "else" and "try" may share a line with the
			// statement they introduce.
			w.statement(ts[1:])
		}
		return
	}
	eq := findAssign(ts)
	if eq < 0 {
		w.expression(ts)
		return
	}
	w.assignment(ts[:eq])
	w.expression(ts[eq+1:])
}

// assignment binds the targets on the left side of "=".
func (w *walker) assignment(lhs []*token.Token) {
	if len(lhs) == 0 {
		return
	}
	switch {
	case lhs[0].Type == token.BRACKET_L:
		for _, target := range listTargets(lhs) {
			w.target(target.tok, target.indexed)
		}
	case lhs[0].Type == token.IDENT:
		w.target(lhs[0], len(lhs) > 1 && isSelector(lhs[1]))
	default:
		w.fail(lhs[0], "invalid assignment target %q", lhs[0].Text)
	}
	w.expression(lhs)
}

// target binds an assigned name.  An indexed or field assignment only
// introduces the name when it has not been bound before.
func (w *walker) target(tok *token.Token, indexed bool) {
	if indexed && w.defined[tok.Text] {
		return
	}
	w.define(tok.Text, tok)
}

type listTarget struct {
	tok     *token.Token
	indexed bool
}

// listTargets returns the names assigned by a bracketed target list such as
// "[a, b(2), ~]".
func listTargets(ts []*token.Token) []listTarget {
	var targets []listTarget
	depth := 0
	for i := 1; i < len(ts); i++ {
		tok := ts[i]
		switch tok.Type {
		case token.PAREN_L, token.BRACKET_L, token.BRACE_L:
			depth++
		case token.PAREN_R, token.BRACKET_R, token.BRACE_R:
			depth--
		case token.IDENT:
			if depth != 0 || ts[i-1].Type == token.DOT {
				continue
			}
			indexed := i+1 < len(ts) && isSelector(ts[i+1])
			targets = append(targets, listTarget{tok, indexed})
		}
		if depth < 0 {
			break
		}
	}
	return targets
}

func isSelector(tok *token.Token) bool {
	switch tok.Type {
	case token.PAREN_L, token.BRACE_L, token.DOT:
		return true
	}
	return false
}

// function handles a function header:
//
//	function name
//	function name (params)
//	function out = name (params)
//	function [out1, out2] = name (params)
//
// The function is defined at the position of the "function" keyword.
func (w *walker) function(ts []*token.Token) {
	kw := ts[0]
	head := ts[1:]
	var outs []*token.Token
	if eq := findAssign(head); eq >= 0 {
		lhs := head[:eq]
		switch {
		case len(lhs) == 1 && lhs[0].Type == token.IDENT:
			outs = lhs
		case len(lhs) > 0 && lhs[0].Type == token.BRACKET_L:
			for _, target := range listTargets(lhs) {
				outs = append(outs, target.tok)
			}
		default:
			w.fail(kw, "malformed function output list")
		}
		head = head[eq+1:]
	}
	if len(head) == 0 || head[0].Type != token.IDENT {
		w.fail(kw, "missing function name")
		w.bindAll(outs)
		return
	}
	name, n := dottedName(head)
	w.define(name, kw)
	w.occurrence(name, head[0])
	w.bindAll(outs)
	rest := head[n:]
	if len(rest) > 0 && rest[0].Type == token.PAREN_L {
		end := closing(rest, 0)
		w.parameters(rest[1:end])
		if end < len(rest) {
			rest = rest[end+1:]
		} else {
			rest = nil
		}
	}
	w.expression(rest)
}

// dottedName joins a property accessor name such as "get.Value" and returns
// the number of tokens it spans.
func dottedName(ts []*token.Token) (string, int) {
	parts := []string{ts[0].Text}
	n := 1
	for n+1 < len(ts) && ts[n].Type == token.DOT && ts[n+1].Type == token.IDENT && !ts[n].Space {
		parts = append(parts, ts[n+1].Text)
		n += 2
	}
	return strings.Join(parts, "."), n
}

func (w *walker) parameters(ts []*token.Token) {
	for i, tok := range ts {
		if tok.Type != token.IDENT {
			continue
		}
		if i > 0 && ts[i-1].Type == token.DOT {
			continue
		}
		w.bind(tok)
	}
}

func (w *walker) bindAll(ts []*token.Token) {
	for _, tok := range ts {
		w.bind(tok)
	}
}

// bind defines a name at its own position and records the occurrence.
func (w *walker) bind(tok *token.Token) {
	w.define(tok.Text, tok)
	w.occurrence(tok.Text, tok)
}

// forLoop binds the loop variable of "for x = ...", "for (x = ...)" and the
// struct iteration form "for [val, key] = s".
func (w *walker) forLoop(ts []*token.Token) {
	i := 1
	if i < len(ts) && ts[i].Type == token.PAREN_L {
		i++
	}
	switch {
	case i+1 < len(ts) && ts[i].Type == token.IDENT && ts[i+1].Type == token.ASSIGN:
		w.define(ts[i].Text, ts[i])
	case i < len(ts) && ts[i].Type == token.BRACKET_L:
		for _, target := range listTargets(ts[i:]) {
			w.define(target.tok.Text, target.tok)
		}
	default:
		w.fail(ts[0], "missing loop variable")
	}
	w.expression(ts[1:])
}

// declaration binds the names of a global or persistent declaration.  Names
// are separated by blank text and may carry an initializer.
func (w *walker) declaration(ts []*token.Token) {
	init := false
	depth := 0
	for i := 1; i < len(ts); i++ {
		tok := ts[i]
		switch tok.Type {
		case token.PAREN_L, token.BRACKET_L, token.BRACE_L:
			depth++
		case token.PAREN_R, token.BRACKET_R, token.BRACE_R:
			depth--
		case token.ASSIGN:
			init = true
			continue
		case token.IDENT:
			prev := ts[i-1]
			if depth == 0 && (!init || (tok.Space && prev.Type != token.OP && prev.Type != token.ASSIGN)) {
				init = false
				w.bind(tok)
				continue
			}
		}
		w.expression(ts[i : i+1])
	}
}

// classdef binds the class name of "classdef (attrs) Name < Super".
func (w *walker) classdef(ts []*token.Token) {
	i := 1
	if i < len(ts) && ts[i].Type == token.PAREN_L {
		end := closing(ts, i)
		w.expression(ts[i:min(end+1, len(ts))])
		i = end + 1
	}
	if i >= len(ts) || ts[i].Type != token.IDENT {
		w.fail(ts[0], "missing class name")
		return
	}
	w.bind(ts[i])
	w.expression(ts[i+1:])
}

// expression records every identifier in ts as an occurrence, except field
// names, and binds anonymous function parameters.
func (w *walker) expression(ts []*token.Token) {
	for i := 0; i < len(ts) && !w.stopped; i++ {
		tok := ts[i]
		switch tok.Type {
		case token.IDENT:
			if i > 0 && ts[i-1].Type == token.DOT {
				continue
			}
			w.occurrence(tok.Text, tok)
		case token.AT:
			if i+1 < len(ts) && ts[i+1].Type == token.PAREN_L {
				end := closing(ts, i+1)
				w.parameters(ts[i+2 : min(end, len(ts))])
				i = end
			}
		}
	}
}

// findAssign returns the index of the first "=" outside any delimiters, or
// -1.
func findAssign(ts []*token.Token) int {
	depth := 0
	for i, tok := range ts {
		switch tok.Type {
		case token.PAREN_L, token.BRACKET_L, token.BRACE_L:
			depth++
		case token.PAREN_R, token.BRACKET_R, token.BRACE_R:
			depth--
		case token.ASSIGN:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// closing returns the index of the delimiter closing ts[open], or len(ts)
// when it is missing.
func closing(ts []*token.Token, open int) int {
	depth := 0
	for i := open; i < len(ts); i++ {
		switch ts[i].Type {
		case token.PAREN_L, token.BRACKET_L, token.BRACE_L:
			depth++
		case token.PAREN_R, token.BRACKET_R, token.BRACE_R:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(ts)
}

func (w *walker) define(name string, tok *token.Token) {
	w.defined[name] = true
	w.emit(analysis.EventDefinition, name, tok)
}

func (w *walker) occurrence(name string, tok *token.Token) {
	w.emit(analysis.EventOccurrence, name, tok)
}

func (w *walker) emit(kind analysis.EventKind, name string, tok *token.Token) {
	if w.stopped {
		return
	}
	ev := analysis.Event{
		Kind: kind,
		Name: name,
		Line: tok.Source.Line,
		Col:  tok.Source.Col,
	}
	if !w.yield(ev, nil) {
		w.stopped = true
	}
}

func (w *walker) fail(tok *token.Token, format string, v ...any) {
	w.report(tok, fmt.Errorf(format, v...))
}

func (w *walker) report(tok *token.Token, err error) {
	if w.stopped {
		return
	}
	err = &token.LocationError{Err: err, Source: tok.Source}
	if !w.yield(analysis.Event{}, err) {
		w.stopped = true
	}
}
