// Copyright © 2026 The octls authors

// Package lexer splits Octave source text into tokens.
//
// Besides the usual token classes the lexer resolves the two context
// sensitive parts of the language: a single quote is either a transpose
// operator or the start of a string, and an identifier at the start of a
// statement followed by a word may begin a command-syntax call whose
// arguments are plain words.
package lexer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/octls/octls/parser/token"
)

// operators lists the multi-character operators before their prefixes.
var operators = []string{
	"==", "~=", "!=", "<=", ">=", "&&", "||", "**",
	"++", "--", "+=", "-=", "*=", "/=", "^=", "|=", "&=",
	"<", ">", "&", "|", "!", "~", "+", "-", "*", "/", "\\", "^", ":",
}

// dotOperators are the element-wise operators that begin with a period.
var dotOperators = []string{".**", ".*", "./", ".\\", ".^"}

type Lexer struct {
	scanner   *token.Scanner
	brackets  []token.Type
	prev      *token.Token // last token other than a comment
	space     bool         // blank text since prev on the same line
	lineStart bool         // nothing but blank text so far on this line
	command   bool         // reading command-syntax words
	vars      map[string]bool
}

func New(s *token.Scanner) *Lexer {
	return &Lexer{
		scanner:   s,
		lineStart: true,
		vars:      make(map[string]bool),
	}
}

// ReadToken returns the next token.  After the end of input every call
// returns an EOF token.  Lexical errors are returned as ERROR tokens whose
// text is the message; scanning resumes after the offending text.
func (lex *Lexer) ReadToken() *token.Token {
	if lex.command {
		if tok := lex.readCommandWord(); tok != nil {
			return tok
		}
	}
	lex.skipBlank()
	if lex.scanner.EOF() {
		return lex.emit(token.EOF)
	}
	s := lex.scanner
	c := s.Peek()
	switch {
	case c == '\n':
		s.ScanRune()
		if lex.inParens() {
			// Parentheses cannot span lines without a continuation.
			lex.brackets = lex.brackets[:0]
		}
		return lex.emit(token.NEWLINE)
	case c == '%' || c == '#':
		if lex.lineStart && isBlockCommentMarker(s.Remaining(), '{') {
			return lex.readBlockComment()
		}
		s.AcceptSeq(func(c rune) bool { return c != '\n' })
		return lex.emit(token.COMMENT)
	case c == '.':
		return lex.readDot()
	case isDigit(c):
		return lex.readNumber()
	case isWordStart(c):
		return lex.readWord()
	case c == '"':
		return lex.readDoubleQuoted()
	case c == '\'':
		if lex.transposeContext() {
			s.ScanRune()
			return lex.emit(token.TRANSPOSE)
		}
		return lex.readSingleQuoted()
	case c == '(':
		return lex.open(token.PAREN_L)
	case c == '[':
		return lex.open(token.BRACKET_L)
	case c == '{':
		return lex.open(token.BRACE_L)
	case c == ')':
		return lex.close(token.PAREN_R)
	case c == ']':
		return lex.close(token.BRACKET_R)
	case c == '}':
		return lex.close(token.BRACE_R)
	case c == ';':
		s.ScanRune()
		return lex.emit(token.SEMI)
	case c == ',':
		s.ScanRune()
		return lex.emit(token.COMMA)
	case c == '@':
		s.ScanRune()
		return lex.emit(token.AT)
	case c == '=':
		if s.AcceptString("==") {
			return lex.emit(token.OP)
		}
		s.ScanRune()
		return lex.emit(token.ASSIGN)
	}
	for _, op := range operators {
		if s.AcceptString(op) {
			return lex.emit(token.OP)
		}
	}
	s.ScanRune()
	return lex.errorf("unexpected character %q", s.Rune())
}

func (lex *Lexer) emit(typ token.Type) *token.Token {
	tok := lex.scanner.EmitToken(typ)
	tok.Space = lex.space
	lex.space = false
	switch typ {
	case token.COMMENT:
		return tok
	case token.NEWLINE:
		lex.lineStart = true
	default:
		lex.lineStart = false
	}
	lex.prev = tok
	return tok
}

func (lex *Lexer) errorf(format string, v ...any) *token.Token {
	tok := lex.emit(token.ERROR)
	tok.Text = fmt.Sprintf(format, v...)
	return tok
}

func (lex *Lexer) skipBlank() {
	for {
		if lex.scanner.AcceptSeqBlank() > 0 {
			lex.space = true
		}
		if !lex.scanner.PeekString("...") {
			break
		}
		// A continuation joins the next line to this one; the rest of the
		// line is ignored.
		lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
		lex.scanner.AcceptRune('\n')
		lex.space = true
	}
	lex.scanner.Ignore()
}

func (lex *Lexer) open(typ token.Type) *token.Token {
	lex.scanner.ScanRune()
	lex.brackets = append(lex.brackets, typ)
	return lex.emit(typ)
}

func (lex *Lexer) close(typ token.Type) *token.Token {
	lex.scanner.ScanRune()
	if n := len(lex.brackets); n > 0 {
		lex.brackets = lex.brackets[:n-1]
	}
	return lex.emit(typ)
}

// inMatrix reports whether the innermost open delimiter is a bracket or a
// brace, where blank text separates elements.
func (lex *Lexer) inMatrix() bool {
	n := len(lex.brackets)
	return n > 0 && lex.brackets[n-1] != token.PAREN_L
}

func (lex *Lexer) inParens() bool {
	for _, typ := range lex.brackets {
		if typ == token.PAREN_L {
			return true
		}
	}
	return false
}

// atStatementStart reports whether the next token begins a statement.
func (lex *Lexer) atStatementStart() bool {
	if len(lex.brackets) > 0 {
		return false
	}
	if lex.prev == nil {
		return true
	}
	switch lex.prev.Type {
	case token.NEWLINE, token.SEMI, token.COMMA:
		return true
	}
	return false
}

// transposeContext reports whether a quote at the current position is a
// transpose operator.
func (lex *Lexer) transposeContext() bool {
	if lex.prev == nil {
		return false
	}
	if lex.space && lex.inMatrix() {
		return false
	}
	switch lex.prev.Type {
	case token.IDENT, token.NUMBER, token.PAREN_R, token.BRACKET_R,
		token.BRACE_R, token.TRANSPOSE:
		return true
	case token.KEYWORD:
		return lex.prev.Text == "end" && len(lex.brackets) > 0
	}
	return false
}

func (lex *Lexer) readDot() *token.Token {
	s := lex.scanner
	if s.AcceptString(".'") {
		return lex.emit(token.TRANSPOSE)
	}
	for _, op := range dotOperators {
		if s.AcceptString(op) {
			return lex.emit(token.OP)
		}
	}
	s.ScanRune()
	if isDigit(s.Peek()) {
		s.AcceptSeqDigit()
		return lex.readExponent()
	}
	return lex.emit(token.DOT)
}

func (lex *Lexer) readNumber() *token.Token {
	s := lex.scanner
	if s.PeekString("0x") || s.PeekString("0X") {
		s.ScanRune()
		s.ScanRune()
		if s.AcceptSeq(isHexDigit) == 0 {
			return lex.errorf("invalid hexadecimal literal %q", s.Text())
		}
		return lex.emit(token.NUMBER)
	}
	if s.PeekString("0b") || s.PeekString("0B") {
		s.ScanRune()
		s.ScanRune()
		if s.AcceptSeq(func(c rune) bool { return c == '0' || c == '1' }) == 0 {
			return lex.errorf("invalid binary literal %q", s.Text())
		}
		return lex.emit(token.NUMBER)
	}
	s.AcceptSeqDigit()
	if s.Peek() == '.' && !isDotOperatorStart(s.Remaining()) {
		s.ScanRune()
		s.AcceptSeqDigit()
	}
	return lex.readExponent()
}

func (lex *Lexer) readExponent() *token.Token {
	s := lex.scanner
	rest := s.Remaining()
	if len(rest) >= 2 && strings.ContainsRune("eEdD", rune(rest[0])) {
		digits := rest[1:]
		if digits[0] == '+' || digits[0] == '-' {
			digits = digits[1:]
		}
		if len(digits) > 0 && isDigit(rune(digits[0])) {
			s.ScanRune()
			s.AcceptAny("+-")
			s.AcceptSeqDigit()
		}
	}
	s.AcceptAny("ijIJ")
	return lex.emit(token.NUMBER)
}

func (lex *Lexer) readWord() *token.Token {
	s := lex.scanner
	start := lex.atStatementStart()
	s.AcceptSeq(isWord)
	word := s.Text()
	if token.IsKeyword(word) {
		return lex.emit(token.KEYWORD)
	}
	if start {
		rest := strings.TrimLeft(s.Remaining(), " \t")
		if strings.HasPrefix(rest, "=") && !strings.HasPrefix(rest, "==") {
			lex.vars[word] = true
		} else if lex.isCommand(word) {
			lex.command = true
		}
	}
	return lex.emit(token.IDENT)
}

// isCommand reports whether word, just scanned at the start of a statement,
// begins a command-syntax call such as "hold on" or "pkg load signal".
func (lex *Lexer) isCommand(word string) bool {
	if lex.vars[word] {
		return false
	}
	rest := lex.scanner.Remaining()
	if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return false
	}
	rest = strings.TrimLeft(rest, " \t")
	if rest == "" || strings.ContainsRune("\r\n;,%#(=", rune(rest[0])) || strings.HasPrefix(rest, "...") {
		return false
	}
	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			after := rest[len(op):]
			return !(after == "" || after[0] == ' ' || after[0] == '\t' || after[0] == '\r' || after[0] == '\n')
		}
	}
	for _, op := range dotOperators {
		if strings.HasPrefix(rest, op) {
			return false
		}
	}
	return true
}

// readCommandWord returns the next command-syntax argument, or nil when the
// command has ended and normal scanning resumes.
func (lex *Lexer) readCommandWord() *token.Token {
	s := lex.scanner
	if s.AcceptSeqBlank() > 0 {
		lex.space = true
	}
	s.Ignore()
	switch c := s.Peek(); {
	case s.EOF() || c == '\n' || c == ';' || c == ',':
		lex.command = false
		return nil
	case c == '%' || c == '#':
		lex.command = false
		s.AcceptSeq(func(c rune) bool { return c != '\n' })
		return lex.emit(token.COMMENT)
	case c == '\'' || c == '"':
		s.ScanRune()
		for {
			if s.EOF() || s.Peek() == '\n' {
				lex.command = false
				return lex.errorf("unterminated string")
			}
			s.ScanRune()
			if s.Rune() == c && !s.AcceptRune(c) {
				return lex.emit(token.COMMAND_WORD)
			}
		}
	}
	s.AcceptSeq(func(c rune) bool {
		return c != ';' && c != ',' && c != '\n' && !unicode.IsSpace(c)
	})
	return lex.emit(token.COMMAND_WORD)
}

func (lex *Lexer) readDoubleQuoted() *token.Token {
	s := lex.scanner
	s.ScanRune()
	for {
		if s.EOF() || s.Peek() == '\n' {
			return lex.errorf("unterminated string")
		}
		s.ScanRune()
		switch s.Rune() {
		case '\\':
			if s.Peek() != '\n' {
				s.ScanRune()
			}
		case '"':
			if !s.AcceptRune('"') {
				return lex.emit(token.STRING)
			}
		}
	}
}

func (lex *Lexer) readSingleQuoted() *token.Token {
	s := lex.scanner
	s.ScanRune()
	for {
		if s.EOF() || s.Peek() == '\n' {
			return lex.errorf("unterminated string")
		}
		s.ScanRune()
		if s.Rune() == '\'' && !s.AcceptRune('\'') {
			return lex.emit(token.STRING)
		}
	}
}

// readBlockComment scans a block comment opened by a line holding only "%{"
// or "#{".  Block comments nest.  The newline ending the closing line is
// left for the next token.
func (lex *Lexer) readBlockComment() *token.Token {
	s := lex.scanner
	depth := 0
	for {
		line := s.Remaining()
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
		}
		switch {
		case isBlockCommentMarker(strings.TrimLeft(line, " \t"), '{'):
			depth++
		case isBlockCommentMarker(strings.TrimLeft(line, " \t"), '}'):
			depth--
		}
		s.AcceptSeq(func(c rune) bool { return c != '\n' })
		if depth == 0 {
			return lex.emit(token.COMMENT)
		}
		if !s.AcceptRune('\n') {
			return lex.errorf("unterminated block comment")
		}
	}
}

// isBlockCommentMarker reports whether line starts with "%" or "#" followed
// by brace and nothing else but blank text before the end of the line.
func isBlockCommentMarker(line string, brace byte) bool {
	if len(line) < 2 || (line[0] != '%' && line[0] != '#') || line[1] != brace {
		return false
	}
	for _, c := range line[2:] {
		switch c {
		case '\n':
			return true
		case ' ', '\t', '\r':
		default:
			return false
		}
	}
	return true
}

func isDotOperatorStart(rest string) bool {
	if strings.HasPrefix(rest, ".'") {
		return true
	}
	for _, op := range dotOperators {
		if strings.HasPrefix(rest, op) {
			return true
		}
	}
	return false
}

func isWordStart(c rune) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isWord(c rune) bool {
	return isWordStart(c) || isDigit(c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

func isHexDigit(c rune) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
