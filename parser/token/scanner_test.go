// Copyright © 2026 The octls authors

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerEOF(t *testing.T) {
	s := NewScanner("", "xy")
	assert.False(t, s.EOF())
	assert.True(t, s.ScanRune())
	assert.True(t, s.ScanRune())
	assert.True(t, s.EOF())
	assert.False(t, s.ScanRune())
	assert.Equal(t, rune(0), s.Peek())
	tok := s.EmitToken(IDENT)
	assert.Equal(t, "xy", tok.Text)
	assert.Equal(t, "", s.EmitToken(EOF).Text)
}

func TestScannerAcceptSeq(t *testing.T) {
	s := NewScanner("", "123abc")
	assert.Equal(t, 3, s.AcceptSeqDigit())
	assert.Equal(t, "123", s.EmitToken(NUMBER).Text)
	assert.False(t, s.AcceptRune('x'))
	assert.True(t, s.AcceptAny("cba"))
	assert.True(t, s.AcceptString("bc"))
	assert.Equal(t, "abc", s.Text())
	assert.Equal(t, "", s.Remaining())
}

func TestScannerLocations(t *testing.T) {
	s := NewScanner("test.m", "ab\n  π = 1\n")
	s.AcceptString("ab")
	loc := s.EmitToken(IDENT).Source
	assert.Equal(t, &Location{File: "test.m", Pos: 0, Line: 1, Col: 1}, loc)

	require.True(t, s.AcceptRune('\n'))
	s.EmitToken(NEWLINE)
	s.AcceptSeqBlank()
	s.Ignore()
	require.True(t, s.AcceptRune('π'))
	tok := s.EmitToken(IDENT)
	assert.Equal(t, 2, tok.Source.Line)
	assert.Equal(t, 3, tok.Source.Col)
	assert.Equal(t, 5, tok.Source.Pos)

	// Columns count bytes; the two-byte rune moves the column by two.
	loc = s.Loc()
	assert.Equal(t, 5, loc.Col)
	assert.Equal(t, "test.m:2:5", loc.String())
}

func TestScannerBlankStopsAtNewline(t *testing.T) {
	s := NewScanner("", " \t\r\nx")
	assert.Equal(t, 3, s.AcceptSeqBlank())
	assert.Equal(t, '\n', s.Peek())
}
