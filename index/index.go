// Copyright © 2026 The octls authors

// Package index stores the identifier occurrences and definitions found in a
// single Octave document and answers point queries against them.
//
// All positions are 0-based.  Columns are measured in UTF-16 code units, the
// unit used by the language server protocol, and a token's width is the
// UTF-16 length of its name.
package index

import "sort"

// Occurrence is one place in the source text where a named symbol appears.
type Occurrence struct {
	Line   int
	Column int
	Name   string
}

// End returns the column one past the last code unit of the occurrence.
func (o Occurrence) End() int {
	return o.Column + Width(o.Name)
}

// Contains reports whether col falls inside the occurrence's span.
func (o Occurrence) Contains(col int) bool {
	return o.Column <= col && col < o.End()
}

// Definition records the position where a name is introduced.
type Definition struct {
	Name   string
	Line   int
	Column int
}

// End returns the column one past the last code unit of the defined name.
func (d Definition) End() int {
	return d.Column + Width(d.Name)
}

// Width returns the length of name in UTF-16 code units.
func Width(name string) int {
	n := 0
	for _, r := range name {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// Index is the symbol table of one analyzed document.  The zero value is not
// usable; call New.
//
// Index is not safe for concurrent mutation.  Callers build an Index
// completely before publishing it to readers.
type Index struct {
	lines    map[int][]Occurrence // each slice sorted by Column, unique starts
	defs     map[string]Definition
	degraded error
}

// New returns an empty index.
func New() *Index {
	return &Index{
		lines: make(map[int][]Occurrence),
		defs:  make(map[string]Definition),
	}
}

// AddOccurrence records name at (line, column).  An occurrence already stored
// at exactly that position is overwritten.
func (idx *Index) AddOccurrence(line, column int, name string) {
	occ := Occurrence{Line: line, Column: column, Name: name}
	row := idx.lines[line]
	i := sort.Search(len(row), func(i int) bool { return row[i].Column >= column })
	if i < len(row) && row[i].Column == column {
		row[i] = occ
		return
	}
	row = append(row, Occurrence{})
	copy(row[i+1:], row[i:])
	row[i] = occ
	idx.lines[line] = row
}

// FindOccurrenceAt returns the occurrence whose span contains column on line.
//
// The candidate is the occurrence with the greatest start not after column.
// Well-formed input never has overlapping tokens, but if a candidate does not
// cover column the search continues leftward and returns the nearest
// preceding occurrence that does, so the answer is always deterministic.
func (idx *Index) FindOccurrenceAt(line, column int) (Occurrence, bool) {
	row := idx.lines[line]
	i := sort.Search(len(row), func(i int) bool { return row[i].Column > column }) - 1
	for ; i >= 0; i-- {
		if row[i].Contains(column) {
			return row[i], true
		}
	}
	return Occurrence{}, false
}

// AddDefinition binds name to (line, column), replacing any earlier binding.
func (idx *Index) AddDefinition(name string, line, column int) {
	idx.defs[name] = Definition{Name: name, Line: line, Column: column}
}

// FindDefinitionOf returns the recorded definition of name.
func (idx *Index) FindDefinitionOf(name string) (Definition, bool) {
	def, ok := idx.defs[name]
	return def, ok
}

// Reset removes every occurrence and definition and clears the degraded
// marker.  It is safe to call on an empty index.
func (idx *Index) Reset() {
	clear(idx.lines)
	clear(idx.defs)
	idx.degraded = nil
}

// SetDegraded marks the index as the partial result of a failed analysis.
func (idx *Index) SetDegraded(err error) {
	idx.degraded = err
}

// Degraded returns the analysis failure recorded by SetDegraded, or nil when
// the index is complete.
func (idx *Index) Degraded() error {
	return idx.degraded
}

// Len returns the number of stored occurrences.
func (idx *Index) Len() int {
	n := 0
	for _, row := range idx.lines {
		n += len(row)
	}
	return n
}

// Occurrences returns every occurrence ordered by line, then column.
func (idx *Index) Occurrences() []Occurrence {
	lines := make([]int, 0, len(idx.lines))
	for line := range idx.lines {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	out := make([]Occurrence, 0, idx.Len())
	for _, line := range lines {
		out = append(out, idx.lines[line]...)
	}
	return out
}

// Definitions returns every definition ordered by name.
func (idx *Index) Definitions() []Definition {
	out := make([]Definition, 0, len(idx.defs))
	for _, def := range idx.defs {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
