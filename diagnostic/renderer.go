// Copyright © 2026 The octls authors

package diagnostic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
)

// ColorMode controls when ANSI color codes are used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // colors on terminals unless NO_COLOR is set
	ColorAlways                  // always use colors
	ColorNever                   // never use colors
)

type palette struct {
	bold     string
	yellow   string
	boldRed  string
	boldBlue string
	boldCyan string
	reset    string
}

var ansiPalette = palette{
	bold:     "\033[1m",
	yellow:   "\033[33m",
	boldRed:  "\033[1;31m",
	boldBlue: "\033[1;34m",
	boldCyan: "\033[1;36m",
	reset:    "\033[0m",
}

func (m ColorMode) palette(w io.Writer) palette {
	switch m {
	case ColorAlways:
		return ansiPalette
	case ColorNever:
		return palette{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return palette{}
	}
	f, ok := w.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return palette{}
	}
	return ansiPalette
}

// Renderer formats diagnostics as annotated source snippets:
//
//	error: unclosed "("
//	  --> script.m:2:5
//	   |
//	 2 |  y = (x
//	   |      ^
//	   |
type Renderer struct {
	Color ColorMode

	// Source returns the text of a file.  If nil, files are read from disk.
	Source func(file string) ([]byte, error)
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	p := r.Color.palette(w)
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	sevColor := p.boldRed
	switch d.Severity {
	case SeverityWarning:
		sevColor = p.yellow
	case SeverityNote:
		sevColor = p.boldCyan
	}
	ew.printf("%s%s%v%s: %s%s%s\n", sevColor, p.bold, d.Severity, p.reset, p.bold, d.Message, p.reset)
	for _, span := range d.Spans {
		r.writeSpan(ew, span, p)
	}
	for _, note := range d.Notes {
		ew.printf("   %s=%s note: %s\n", p.boldCyan, p.reset, note)
	}
	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes all diagnostics to w separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// errWriter captures the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (r *Renderer) writeSpan(ew *errWriter, span Span, p palette) {
	loc := span.File
	if span.Line > 0 {
		loc += ":" + strconv.Itoa(span.Line)
		if span.Col > 0 {
			loc += ":" + strconv.Itoa(span.Col)
		}
	}
	ew.printf("  %s-->%s %s\n", p.boldBlue, p.reset, loc)

	source, ok := r.line(span.File, span.Line)
	if !ok {
		ew.printf("   %s|%s\n", p.boldBlue, p.reset)
		return
	}
	num := strconv.Itoa(span.Line)
	pad := strings.Repeat(" ", len(num))
	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)
	ew.printf(" %s%s |%s  %s\n", p.boldBlue, num, p.reset, expandTabs(source))

	col := max(span.Col, 1)
	col = min(col, len(source)+1)
	end := span.EndCol
	if end <= 0 {
		end = tokenEnd(source, col)
	}
	end = max(end, col)
	under := displayWidth(source[col-1:min(end, len(source))])
	ew.printf(" %s%s |%s  %s%s%s%s", p.boldBlue, pad, p.reset,
		strings.Repeat(" ", displayWidth(source[:col-1])),
		p.boldRed, strings.Repeat("^", max(under, 1)), p.reset)
	if span.Label != "" {
		ew.printf(" %s%s%s", p.boldRed, span.Label, p.reset)
	}
	ew.printf("\n %s%s |%s\n", p.boldBlue, pad, p.reset)
}

// line returns 1-based line n of file.
func (r *Renderer) line(file string, n int) (string, bool) {
	if n <= 0 || file == "" {
		return "", false
	}
	read := r.Source
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(file)
	if err != nil {
		return "", false
	}
	lines := strings.Split(string(data), "\n")
	if n > len(lines) {
		return "", false
	}
	return strings.TrimSuffix(lines[n-1], "\r"), true
}

// tokenEnd returns the inclusive 1-based byte column where the token
// starting at col ends.
func tokenEnd(source string, col int) int {
	i := col - 1
	for i < len(source) && isWordByte(source[i]) {
		i++
	}
	if i == col-1 {
		return col
	}
	return i
}

func isWordByte(c byte) bool {
	return c == '_' || c == '.' || c >= 0x80 ||
		'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// displayWidth counts runes, with tabs four wide.
func displayWidth(s string) int {
	w := 0
	for _, c := range s {
		if c == '\t' {
			w += 4
		} else {
			w++
		}
	}
	return w
}
