// Copyright © 2026 The octls authors

package diagnostic

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/octls/octls/analysis"
	"github.com/octls/octls/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRenderer returns a Renderer with colors disabled and in-memory sources.
func testRenderer(sources map[string]string) *Renderer {
	return &Renderer{
		Color: ColorNever,
		Source: func(name string) ([]byte, error) {
			s, ok := sources[name]
			if !ok {
				return nil, fmt.Errorf("not found: %s: %w", name, os.ErrNotExist)
			}
			return []byte(s), nil
		},
	}
}

func render(t *testing.T, r *Renderer, d Diagnostic) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))
	return buf.String()
}

func TestRender(t *testing.T) {
	r := testRenderer(map[string]string{"test.m": "x = 1;\ny = (x\n"})
	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Message:  `unclosed "("`,
		Spans:    []Span{{File: "test.m", Line: 2, Col: 5, Label: "opened here"}},
		Notes:    []string{"parentheses cannot span lines"},
	})
	want := "error: unclosed \"(\"\n" +
		"  --> test.m:2:5\n" +
		"   |\n" +
		" 2 |  y = (x\n" +
		"   |      ^ opened here\n" +
		"   |\n" +
		"   = note: parentheses cannot span lines\n"
	assert.Equal(t, want, got)
}

func TestRender_TokenWidth(t *testing.T) {
	r := testRenderer(map[string]string{"test.m": "s = 'é'; value = s;\n"})
	got := render(t, r, Diagnostic{
		Severity: SeverityWarning,
		Message:  "unused",
		Spans:    []Span{{File: "test.m", Line: 1, Col: 11}},
	})
	assert.Contains(t, got, "warning: unused\n")
	assert.Contains(t, got, " 1 |  s = 'é'; value = s;\n")
	assert.Contains(t, got, "   |           ^^^^^\n")
}

func TestRender_ExplicitEnd(t *testing.T) {
	r := testRenderer(map[string]string{"test.m": "a\tb = 1;\n"})
	got := render(t, r, Diagnostic{
		Severity: SeverityNote,
		Message:  "here",
		Spans:    []Span{{File: "test.m", Line: 1, Col: 3, EndCol: 5}},
	})
	assert.Contains(t, got, "note: here\n")
	assert.Contains(t, got, " 1 |  a    b = 1;\n")
	assert.Contains(t, got, "   |       ^^^\n")
}

func TestRender_MissingSource(t *testing.T) {
	r := testRenderer(nil)
	got := render(t, r, Diagnostic{
		Severity: SeverityError,
		Message:  "boom",
		Spans:    []Span{{File: "gone.m", Line: 3, Col: 1}},
	})
	assert.Equal(t, "error: boom\n  --> gone.m:3:1\n   |\n", got)

	got = render(t, testRenderer(map[string]string{"short.m": "a\n"}), Diagnostic{
		Message: "past the end",
		Spans:   []Span{{File: "short.m", Line: 9}},
	})
	assert.Equal(t, "error: past the end\n  --> short.m:9\n   |\n", got)
}

func TestRender_Colors(t *testing.T) {
	r := testRenderer(map[string]string{"test.m": "a\n"})
	r.Color = ColorAlways
	got := render(t, r, Diagnostic{Message: "boom", Spans: []Span{{File: "test.m", Line: 1, Col: 1}}})
	assert.Contains(t, got, "\033[1;31m")

	r.Color = ColorAuto
	got = render(t, r, Diagnostic{Message: "boom"})
	assert.NotContains(t, got, "\033[", "a buffer is not a terminal")
}

func TestRenderAll(t *testing.T) {
	r := testRenderer(nil)
	var buf bytes.Buffer
	require.NoError(t, r.RenderAll(&buf, []Diagnostic{{Message: "one"}, {Message: "two"}}))
	assert.Equal(t, "error: one\n\nerror: two\n", buf.String())
}

func TestFromError(t *testing.T) {
	_, err := analysis.Analyze(parser.New("test.m"), "a = (1\nb = ]\n")
	require.Error(t, err)

	diags := FromError(SeverityError, err)
	require.Len(t, diags, 2)
	assert.Equal(t, `unclosed "("`, diags[0].Message)
	assert.Equal(t, []Span{{File: "test.m", Line: 1, Col: 5}}, diags[0].Spans)
	assert.Equal(t, `unexpected "]"`, diags[1].Message)
	assert.Equal(t, []Span{{File: "test.m", Line: 2, Col: 5}}, diags[1].Spans)

	diags = FromError(SeverityWarning, errors.New("plain"))
	require.Len(t, diags, 1)
	assert.Equal(t, Diagnostic{Severity: SeverityWarning, Message: "plain"}, diags[0])

	assert.Nil(t, FromError(SeverityError, nil))
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "note", SeverityNote.String())
	assert.Equal(t, "unknown", Severity(7).String())
}
