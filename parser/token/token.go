// Copyright © 2026 The octls authors

// Package token defines the lexical tokens of Octave source text.
package token

import "fmt"

type Token struct {
	Type   Type
	Text   string
	Source *Location
	// Space is true when whitespace separates the token from the previous
	// one on the same line.
	Space bool
}

func (tok *Token) String() string {
	return fmt.Sprintf("%s %q", tok.Type, tok.Text)
}

// Is reports whether tok has type typ and, when text is non-empty, the given
// text.
func (tok *Token) Is(typ Type, text string) bool {
	if tok == nil || tok.Type != typ {
		return false
	}
	return text == "" || tok.Text == text
}

type Type uint

const (
	INVALID Type = iota
	ERROR
	EOF

	IDENT
	KEYWORD
	NUMBER
	STRING
	COMMAND_WORD // argument of a command-syntax call, e.g. "on" in "hold on"
	COMMENT

	// Separators
	NEWLINE
	SEMI
	COMMA

	// Operators
	ASSIGN // "=" only; "==" is an OP
	OP
	TRANSPOSE
	AT
	DOT

	// Delimiters
	PAREN_L
	PAREN_R
	BRACKET_L
	BRACKET_R
	BRACE_L
	BRACE_R

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID:      "invalid",
		ERROR:        "error",
		EOF:          "EOF",
		IDENT:        "identifier",
		KEYWORD:      "keyword",
		NUMBER:       "number",
		STRING:       "string",
		COMMAND_WORD: "command-word",
		COMMENT:      "comment",
		NEWLINE:      "newline",
		SEMI:         ";",
		COMMA:        ",",
		ASSIGN:       "=",
		OP:           "operator",
		TRANSPOSE:    "'",
		AT:           "@",
		DOT:          ".",
		PAREN_L:      "(",
		PAREN_R:      ")",
		BRACKET_L:    "[",
		BRACKET_R:    "]",
		BRACE_L:      "{",
		BRACE_R:      "}",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// keywords are the reserved words of the Octave language.
var keywords = map[string]bool{
	"__FILE__": true, "__LINE__": true,
	"break": true, "case": true, "catch": true, "classdef": true,
	"continue": true, "do": true, "else": true, "elseif": true, "end": true,
	"end_try_catch": true, "end_unwind_protect": true, "endclassdef": true,
	"endenumeration": true, "endevents": true, "endfor": true,
	"endfunction": true, "endif": true, "endmethods": true, "endparfor": true,
	"endproperties": true, "endspmd": true, "endswitch": true,
	"endwhile": true, "enumeration": true, "events": true, "for": true,
	"function": true, "global": true, "if": true, "methods": true,
	"otherwise": true, "parfor": true, "persistent": true, "properties": true,
	"return": true, "spmd": true, "switch": true, "try": true, "until": true,
	"unwind_protect": true, "unwind_protect_cleanup": true, "while": true,
}

// IsKeyword reports whether word is reserved.
func IsKeyword(word string) bool {
	return keywords[word]
}

type Location struct {
	File string // a name representing the source stream
	Pos  int    // byte offset
	Line int    // line number (starting at 1)
	Col  int    // byte column within the line (starting at 1)
}

func (loc *Location) String() string {
	switch {
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

type LocationError struct {
	Err    error
	Source *Location
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Err)
}

func (err *LocationError) Unwrap() error {
	return err.Err
}
