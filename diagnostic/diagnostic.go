// Copyright © 2026 The octls authors

// Package diagnostic renders analysis problems as annotated source snippets
// for the command line.
package diagnostic

import (
	"errors"

	"github.com/octls/octls/analysis"
	"github.com/octls/octls/parser/token"
	"go.uber.org/multierr"
)

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies a region of one source line.  Line and columns are
// 1-based and columns count bytes, like token.Location.
type Span struct {
	File   string
	Line   int
	Col    int
	EndCol int // inclusive; 0 means the extent of the token at Col
	Label  string
}

// Diagnostic is a single problem with optional source annotations and
// trailing notes.
type Diagnostic struct {
	Severity Severity
	Message  string
	Spans    []Span
	Notes    []string
}

// FromError converts the problems behind err into diagnostics.  An
// *analysis.Error yields one diagnostic per reported problem, and problems
// that carry a token.Location get a span.
func FromError(sev Severity, err error) []Diagnostic {
	if err == nil {
		return nil
	}
	var errs []error
	var aerr *analysis.Error
	if errors.As(err, &aerr) {
		errs = aerr.Errors()
	} else {
		errs = multierr.Errors(err)
	}
	diags := make([]Diagnostic, 0, len(errs))
	for _, e := range errs {
		d := Diagnostic{Severity: sev, Message: e.Error()}
		var lerr *token.LocationError
		if errors.As(e, &lerr) && lerr.Source != nil {
			d.Message = lerr.Err.Error()
			d.Spans = []Span{{File: lerr.Source.File, Line: lerr.Source.Line, Col: lerr.Source.Col}}
		}
		diags = append(diags, d)
	}
	return diags
}
