// Copyright © 2026 The octls authors

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/octls/octls/analysis"
	"github.com/octls/octls/diagnostic"
	"github.com/octls/octls/index"
	"github.com/octls/octls/parser"
	"github.com/spf13/cobra"
)

var (
	indexJSON     bool
	indexExcludes []string
)

var indexCmd = &cobra.Command{
	Use:   "index [flags] FILE|DIR/... ...",
	Short: "Print the occurrences and definitions found in Octave files",
	Long: `Analyze Octave source files and print the index the language server
would build for each: every definition with its range and every identifier
occurrence. Positions are 0-based with columns in UTF-16 code units.

Problems found while analyzing are rendered to stderr; the partial index is
printed anyway.

Exit codes:
  0  Every file was analyzed cleanly
  1  One or more files had problems
  2  Bad invocation (unreadable files)

Examples:
  octls index script.m                     # Index one file
  octls index ./...                        # Index every .m file recursively
  octls index --json lib/...               # Machine-readable output
  octls index --exclude='test_*' ./...     # Skip files by pattern`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		paths, err := expandArgs(args, indexExcludes)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			exit(2)
		}
		failed, err := runIndex(cmd.OutOrStdout(), cmd.ErrOrStderr(), paths, indexJSON, colorMode())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			exit(2)
		}
		if failed > 0 {
			exit(1)
		}
	},
}

type indexReport struct {
	File        string           `json:"file"`
	Definitions []definitionJSON `json:"definitions"`
	Occurrences []occurrenceJSON `json:"occurrences"`
	Errors      []string         `json:"errors,omitempty"`
}

type definitionJSON struct {
	Name      string `json:"name"`
	Line      int    `json:"line"`
	Character int    `json:"character"`
	End       int    `json:"end"`
}

type occurrenceJSON struct {
	Name      string `json:"name"`
	Line      int    `json:"line"`
	Character int    `json:"character"`
}

// runIndex analyzes every path, writes the indexes to out and renders
// problems to errOut.  It returns the number of files with problems.  Only
// an unreadable file or a failed write is an error.
func runIndex(out, errOut io.Writer, paths []string, jsonOut bool, color diagnostic.ColorMode) (int, error) {
	sources := make(map[string][]byte, len(paths))
	renderer := &diagnostic.Renderer{
		Color: color,
		Source: func(file string) ([]byte, error) {
			if b, ok := sources[file]; ok {
				return b, nil
			}
			return nil, os.ErrNotExist
		},
	}

	var (
		reports []indexReport
		failed  int
	)
	for _, path := range paths {
		b, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
		if err != nil {
			return failed, fmt.Errorf("%s: %w", path, err)
		}
		sources[path] = b

		idx, err := analysis.Analyze(parser.New(path), string(b))
		report := newIndexReport(path, idx)
		if err != nil {
			failed++
			log.Debugf("%s: %v", path, err)
			diags := diagnostic.FromError(diagnostic.SeverityError, err)
			for i := range diags {
				if len(diags[i].Spans) == 0 {
					diags[i].Message = path + ": " + diags[i].Message
				}
				report.Errors = append(report.Errors, diags[i].Message)
			}
			if err := renderer.RenderAll(errOut, diags); err != nil {
				return failed, err
			}
		}
		if jsonOut {
			reports = append(reports, report)
			continue
		}
		if err := writeIndexText(out, report, err != nil); err != nil {
			return failed, err
		}
	}

	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return failed, err
		}
	}
	return failed, nil
}

func newIndexReport(path string, idx *index.Index) indexReport {
	r := indexReport{
		File:        path,
		Definitions: []definitionJSON{},
		Occurrences: []occurrenceJSON{},
	}
	for _, def := range idx.Definitions() {
		r.Definitions = append(r.Definitions, definitionJSON{
			Name:      def.Name,
			Line:      def.Line,
			Character: def.Column,
			End:       def.End(),
		})
	}
	for _, occ := range idx.Occurrences() {
		r.Occurrences = append(r.Occurrences, occurrenceJSON{
			Name:      occ.Name,
			Line:      occ.Line,
			Character: occ.Column,
		})
	}
	return r
}

// writeIndexText lays a report out as
//
//	script.m
//	  definitions:
//	    inc  0:13-16
//	  occurrences:
//	    y(0:9) inc(0:13) x(0:18) ...
func writeIndexText(w io.Writer, r indexReport, degraded bool) error {
	var b strings.Builder
	b.WriteString(r.File)
	if degraded {
		b.WriteString(" (degraded)")
	}
	b.WriteString("\n")

	b.WriteString("  definitions:\n")
	if len(r.Definitions) == 0 {
		b.WriteString("    none\n")
	}
	width := 0
	for _, d := range r.Definitions {
		width = max(width, len(d.Name))
	}
	for _, d := range r.Definitions {
		fmt.Fprintf(&b, "    %-*s  %d:%d-%d\n", width, d.Name, d.Line, d.Character, d.End)
	}

	b.WriteString("  occurrences:\n")
	if len(r.Occurrences) == 0 {
		b.WriteString("    none\n")
	} else {
		items := make([]string, len(r.Occurrences))
		for i, o := range r.Occurrences {
			items[i] = fmt.Sprintf("%s(%d:%d)", o.Name, o.Line, o.Character)
		}
		b.WriteString(indent.String(wordwrap.String(strings.Join(items, " "), 72), 4))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func colorMode() diagnostic.ColorMode {
	switch colorFlag {
	case "always":
		return diagnostic.ColorAlways
	case "never":
		return diagnostic.ColorNever
	default:
		return diagnostic.ColorAuto
	}
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().BoolVar(&indexJSON, "json", false,
		"Output the indexes as JSON.")
	indexCmd.Flags().StringArrayVar(&indexExcludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
}
