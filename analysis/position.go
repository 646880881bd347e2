// Copyright © 2026 The octls authors

package analysis

import (
	"strings"
	"unicode/utf8"
)

// LineTable translates walker positions (1-based line, 1-based byte column)
// into protocol positions (0-based line, 0-based UTF-16 code unit).
type LineTable struct {
	lines []string
}

// NewLineTable splits text into lines.  Both "\n" and "\r\n" terminate a
// line; the terminator is not part of the line.
func NewLineTable(text string) *LineTable {
	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimSuffix(ln, "\r")
	}
	return &LineTable{lines: lines}
}

// Lines returns the number of lines in the table.  A trailing newline
// starts an empty final line.
func (t *LineTable) Lines() int {
	return len(t.lines)
}

// Position converts a 1-based line and byte column into a 0-based line and
// UTF-16 column.  Values below 1 are clamped to the first line or column.
func (t *LineTable) Position(line, col int) (int, int) {
	if line > 0 {
		line--
	}
	if col > 0 {
		col--
	}
	return line, t.UTF16Column(line, col)
}

// UTF16Column converts a 0-based byte offset within line into a 0-based
// count of UTF-16 code units.  Offsets past the end of the line are measured
// as if the line were padded with single-unit characters, and lines outside
// the table are treated as empty, so the mapping never loses information for
// positions beyond the known text.
func (t *LineTable) UTF16Column(line, byteCol int) int {
	if byteCol <= 0 {
		return 0
	}
	var ln string
	if line >= 0 && line < len(t.lines) {
		ln = t.lines[line]
	}
	extra := 0
	if byteCol > len(ln) {
		extra = byteCol - len(ln)
		byteCol = len(ln)
	}
	units := 0
	for i := 0; i < byteCol; {
		r, size := utf8.DecodeRuneInString(ln[i:])
		if r >= 0x10000 {
			units += 2
		} else {
			units++
		}
		i += size
	}
	return units + extra
}
