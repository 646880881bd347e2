// Copyright © 2026 The octls authors

package query

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ergochat/readline"
	"github.com/octls/octls/analysis"
	"github.com/octls/octls/parser"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("octls.query")

type config struct {
	stdin       io.ReadCloser
	stdout      io.Writer
	historyFile string
	prompt      string
}

func newConfig(opts ...Option) *config {
	c := &config{
		stdout:      os.Stdout,
		historyFile: historyPath(),
		prompt:      "octls> ",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures Run.
type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStdout allows overriding the output of the REPL.
func WithStdout(stdout io.Writer) Option {
	return func(c *config) {
		c.stdout = stdout
	}
}

// WithHistoryFile sets the readline history file.  An empty path disables
// history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.historyFile = path
	}
}

// WithPrompt sets the prompt.
func WithPrompt(prompt string) Option {
	return func(c *config) {
		c.prompt = prompt
	}
}

// Run analyzes the Octave file at path and answers commands until the
// input ends or the user quits.  An analysis failure is reported and the
// partial index is explored anyway.
func Run(path string, opts ...Option) error {
	b, err := os.ReadFile(path) //nolint:gosec // reads the user-specified source file
	if err != nil {
		return err
	}
	cfg := newConfig(opts...)
	idx, err := analysis.Analyze(parser.New(path), string(b))
	if err != nil {
		log.Warningf("%s: %v", path, err)
		fmt.Fprintf(cfg.stdout, "warning: %v\n", err) //nolint:errcheck // best-effort REPL output
	}
	return RunSession(NewSession(idx, cfg.stdout), opts...)
}

// RunSession reads commands with readline and executes them on s.
func RunSession(s *Session, opts ...Option) error {
	cfg := newConfig(opts...)
	ensureHistoryFilePermissions(cfg.historyFile)
	rlCfg := &readline.Config{
		Stdout:            cfg.stdout,
		Stderr:            cfg.stdout,
		Prompt:            cfg.prompt,
		HistoryFile:       cfg.historyFile,
		HistorySearchFold: true,
		AutoComplete:      &commandCompleter{session: s},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	for {
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if s.ExecLine(line) {
			return nil
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".octls_history")
}

// ensureHistoryFilePermissions creates the history file if needed and
// restricts it to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0600) //nolint:gosec // path is the user's own history file
	if err != nil {
		log.Debugf("history file %s: %v", path, err)
		return
	}
	_ = f.Close()
	if err := os.Chmod(path, 0600); err != nil {
		log.Debugf("history file %s: %v", path, err)
	}
}

var commandWords = []string{"def", "exit", "help", "quit", "refs", "syms"}

// commandCompleter implements readline.AutoCompleter.  It completes command
// words and, after def or refs, the names known to the index.
type commandCompleter struct {
	session *Session
}

func (c *commandCompleter) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && line[start-1] != ' ' && line[start-1] != '\t' {
		start--
	}
	prefix := string(line[start:pos])
	head := strings.Fields(string(line[:start]))

	var candidates []string
	switch {
	case len(head) == 0:
		candidates = commandWords
	case len(head) == 1 && (head[0] == "def" || head[0] == "refs"):
		candidates = c.names()
	default:
		return nil, 0
	}

	var result [][]rune
	for _, cand := range candidates {
		if strings.HasPrefix(cand, prefix) && cand != prefix {
			result = append(result, []rune(cand[len(prefix):]))
		}
	}
	return result, len([]rune(prefix))
}

// names returns every name with an occurrence, sorted and without
// duplicates.
func (c *commandCompleter) names() []string {
	var names []string
	seen := make(map[string]bool)
	for _, occ := range c.session.idx.Occurrences() {
		if !seen[occ.Name] {
			seen[occ.Name] = true
			names = append(names, occ.Name)
		}
	}
	slices.Sort(names)
	return names
}
