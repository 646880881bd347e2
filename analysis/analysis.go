// Copyright © 2026 The octls authors

// Package analysis drives a source walker over Octave document text and
// records what it reports in an index.Index.
//
// The walker is a capability (Source) so the index and the language server
// never depend on a particular parser.  Walkers report positions in their own
// convention, 1-based lines and 1-based byte columns, and Analyze translates
// them into the 0-based UTF-16 positions the index and the protocol use.
package analysis

import (
	"fmt"
	"iter"
	"strings"

	"github.com/octls/octls/index"
	"github.com/tliron/commonlog"
	"go.uber.org/multierr"
)

var log = commonlog.GetLogger("octls.analysis")

// EventKind classifies a walker event.
type EventKind int

const (
	EventOccurrence EventKind = iota // identifier token
	EventDefinition                  // binding of a name
)

func (k EventKind) String() string {
	switch k {
	case EventOccurrence:
		return "occurrence"
	case EventDefinition:
		return "definition"
	default:
		return "unknown"
	}
}

// Event is one fact reported by a Source.  Line and Col are 1-based; Col
// counts bytes from the start of the line.
type Event struct {
	Kind EventKind
	Name string
	Line int
	Col  int
}

// Source turns document text into a sequence of events.  Each call to Walk
// starts a new walk over text; the sequence is finite.  A non-nil error in
// the sequence reports a recoverable syntax problem and the walk continues
// after it.
type Source interface {
	Walk(text string) iter.Seq2[Event, error]
}

// SourceFunc adapts an ordinary function to the Source interface.
type SourceFunc func(text string) iter.Seq2[Event, error]

// Walk implements Source.
func (fn SourceFunc) Walk(text string) iter.Seq2[Event, error] {
	return fn(text)
}

// Error is returned by Analyze when the walker reported problems.  The index
// returned alongside it holds whatever was walked and is marked degraded.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	errs := multierr.Errors(e.Err)
	switch len(errs) {
	case 0:
		return "analysis failed"
	case 1:
		return fmt.Sprintf("analysis failed: %v", errs[0])
	default:
		return fmt.Sprintf("analysis failed with %d errors: %v", len(errs), strings.Join(errorStrings(errs), "; "))
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errors returns the individual problems reported during the walk.
func (e *Error) Errors() []error {
	return multierr.Errors(e.Err)
}

func errorStrings(errs []error) []string {
	s := make([]string, len(errs))
	for i, err := range errs {
		s[i] = err.Error()
	}
	return s
}

// Analyze walks text with src and returns a freshly built index.  When the
// walk reports errors, or src panics, Analyze still returns the partial index
// with its degraded marker set and an *Error describing the failure.
func Analyze(src Source, text string) (*index.Index, error) {
	idx := index.New()
	lines := NewLineTable(text)
	errs := walk(src, text, func(ev Event) {
		line, col := lines.Position(ev.Line, ev.Col)
		switch ev.Kind {
		case EventOccurrence:
			idx.AddOccurrence(line, col, ev.Name)
		case EventDefinition:
			idx.AddDefinition(ev.Name, line, col)
		}
	})
	log.Debugf("indexed %d occurrences and %d definitions", idx.Len(), len(idx.Definitions()))
	if errs != nil {
		err := &Error{Err: errs}
		idx.SetDegraded(err)
		return idx, err
	}
	return idx, nil
}

func walk(src Source, text string, fn func(Event)) (errs error) {
	defer func() {
		if r := recover(); r != nil {
			errs = multierr.Append(errs, fmt.Errorf("source walker panic: %v", r))
		}
	}()
	for ev, err := range src.Walk(text) {
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		fn(ev)
	}
	return errs
}
