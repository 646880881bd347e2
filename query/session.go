// Copyright © 2026 The octls authors

package query

import (
	"fmt"
	"io"
	"strings"

	"github.com/octls/octls/index"
)

const helpText = `commands:
  LINE:COL    symbol at a 0-based position and its definition
  def NAME    definition of NAME
  refs NAME   occurrences of NAME
  syms        every defined name
  help        this text
  quit        leave
`

// Session answers commands against one index.
type Session struct {
	idx *index.Index
	out io.Writer
}

// NewSession returns a session that writes its answers to out.
func NewSession(idx *index.Index, out io.Writer) *Session {
	return &Session{idx: idx, out: out}
}

// Exec runs cmd and reports whether the session should end.
func (s *Session) Exec(cmd Command) (quit bool) {
	switch cmd.Kind {
	case KindPosition:
		s.position(cmd.Line, cmd.Col)
	case KindDefinition:
		s.definition(cmd.Name)
	case KindReferences:
		s.references(cmd.Name)
	case KindSymbols:
		s.symbols()
	case KindHelp:
		fmt.Fprint(s.out, helpText) //nolint:errcheck // best-effort REPL output
	case KindQuit:
		return true
	default:
		fmt.Fprintf(s.out, "unknown command %v\n", cmd.Kind) //nolint:errcheck // best-effort REPL output
	}
	return false
}

// ExecLine parses and runs one line of input.  Parse errors are written to
// the session output.
func (s *Session) ExecLine(line string) (quit bool) {
	if strings.TrimSpace(line) == "" {
		return false
	}
	cmd, err := Parse(line)
	if err != nil {
		fmt.Fprintln(s.out, err) //nolint:errcheck // best-effort REPL output
		return false
	}
	return s.Exec(cmd)
}

func (s *Session) position(line, col int) {
	occ, ok := s.idx.FindOccurrenceAt(line, col)
	if !ok {
		fmt.Fprintf(s.out, "no symbol at %d:%d\n", line, col) //nolint:errcheck // best-effort REPL output
		return
	}
	def, ok := s.idx.FindDefinitionOf(occ.Name)
	if !ok {
		fmt.Fprintf(s.out, "%s at %d:%d has no definition\n", occ.Name, occ.Line, occ.Column) //nolint:errcheck // best-effort REPL output
		return
	}
	fmt.Fprintf(s.out, "%s at %d:%d defined at %s\n", occ.Name, occ.Line, occ.Column, span(def)) //nolint:errcheck // best-effort REPL output
}

func (s *Session) definition(name string) {
	def, ok := s.idx.FindDefinitionOf(name)
	if !ok {
		fmt.Fprintf(s.out, "no definition of %s\n", name) //nolint:errcheck // best-effort REPL output
		return
	}
	fmt.Fprintf(s.out, "%s defined at %s\n", name, span(def)) //nolint:errcheck // best-effort REPL output
}

func (s *Session) references(name string) {
	n := 0
	for _, occ := range s.idx.Occurrences() {
		if occ.Name != name {
			continue
		}
		fmt.Fprintf(s.out, "%d:%d\n", occ.Line, occ.Column) //nolint:errcheck // best-effort REPL output
		n++
	}
	if n == 0 {
		fmt.Fprintf(s.out, "no occurrences of %s\n", name) //nolint:errcheck // best-effort REPL output
	}
}

func (s *Session) symbols() {
	defs := s.idx.Definitions()
	if len(defs) == 0 {
		fmt.Fprintln(s.out, "no definitions") //nolint:errcheck // best-effort REPL output
		return
	}
	for _, def := range defs {
		fmt.Fprintf(s.out, "%s\t%s\n", def.Name, span(def)) //nolint:errcheck // best-effort REPL output
	}
}

// span formats a definition as "line:start-end".
func span(def index.Definition) string {
	return fmt.Sprintf("%d:%d-%d", def.Line, def.Column, def.End())
}
