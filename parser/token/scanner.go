// Copyright © 2026 The octls authors

package token

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from in-memory source text.
type Scanner struct {
	file         string
	src          string
	pos          int // offset of the next rune to scan
	line         int // line number at pos
	linePos      int // offset of the first byte of the line containing pos
	start        int // start of the current token
	startLine    int // line number at start
	startLinePos int // linePos at start
	c            rune
}

// NewScanner initializes and returns a new Scanner over src.  The file name
// only appears in token locations.
func NewScanner(file string, src string) *Scanner {
	return &Scanner{
		file:      file,
		src:       src,
		line:      1,
		startLine: 1,
	}
}

// EmitToken returns a token containing the text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.pos
	s.startLine = s.line
	s.startLinePos = s.linePos
}

// Text returns the text scanned since the last call to either EmitToken or
// Ignore.
func (s *Scanner) Text() string {
	return s.src[s.start:s.pos]
}

// Rune returns the most recently scanned rune.
func (s *Scanner) Rune() rune {
	return s.c
}

// Remaining returns the text that has not been scanned yet.
func (s *Scanner) Remaining() string {
	return s.src[s.pos:]
}

// EOF reports whether all input has been scanned.
func (s *Scanner) EOF() bool {
	return s.pos >= len(s.src)
}

// Peek returns the next rune to be scanned, or 0 at the end of input.
func (s *Scanner) Peek() rune {
	if s.EOF() {
		return 0
	}
	c, _ := utf8.DecodeRuneInString(s.src[s.pos:])
	return c
}

// PeekString reports whether the unscanned input begins with prefix.
func (s *Scanner) PeekString(prefix string) bool {
	return strings.HasPrefix(s.src[s.pos:], prefix)
}

// ScanRune scans one rune into the current token.  It returns false at the
// end of input.
func (s *Scanner) ScanRune() bool {
	if s.EOF() {
		return false
	}
	c, n := utf8.DecodeRuneInString(s.src[s.pos:])
	s.c = c
	s.pos += n
	if c == '\n' {
		s.line++
		s.linePos = s.pos
	}
	return true
}

// Accept scans the next rune if fn returns true for it.
func (s *Scanner) Accept(fn func(rune) bool) bool {
	if s.EOF() || !fn(s.Peek()) {
		return false
	}
	return s.ScanRune()
}

// AcceptRune scans the next rune if it is c.
func (s *Scanner) AcceptRune(c rune) bool {
	return s.Accept(func(r rune) bool { return r == c })
}

// AcceptAny scans the next rune if it is contained in chars.
func (s *Scanner) AcceptAny(chars string) bool {
	return s.Accept(func(r rune) bool { return strings.ContainsRune(chars, r) })
}

// AcceptString scans str if the unscanned input begins with it.
func (s *Scanner) AcceptString(str string) bool {
	if !s.PeekString(str) {
		return false
	}
	for range str {
		s.ScanRune()
	}
	return true
}

// AcceptSeq scans runes as long as fn returns true and returns the number of
// runes scanned.
func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	n := 0
	for s.Accept(fn) {
		n++
	}
	return n
}

// AcceptSeqDigit scans a sequence of decimal digits.
func (s *Scanner) AcceptSeqDigit() int {
	return s.AcceptSeq(func(c rune) bool { return '0' <= c && c <= '9' })
}

// AcceptSeqBlank scans spaces and tabs but never a newline.
func (s *Scanner) AcceptSeqBlank() int {
	return s.AcceptSeq(func(c rune) bool { return c != '\n' && unicode.IsSpace(c) })
}

// LocStart returns the location of the first byte of the current token.
func (s *Scanner) LocStart() *Location {
	return &Location{
		File: s.file,
		Pos:  s.start,
		Line: s.startLine,
		Col:  s.start - s.startLinePos + 1,
	}
}

// Loc returns the location of the next rune to be scanned.
func (s *Scanner) Loc() *Location {
	return &Location{
		File: s.file,
		Pos:  s.pos,
		Line: s.line,
		Col:  s.pos - s.linePos + 1,
	}
}
