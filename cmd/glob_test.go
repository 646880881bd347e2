// Copyright © 2026 The octls authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterExcludes(t *testing.T) {
	tests := []struct {
		name     string
		paths    []string
		excludes []string
		want     []string
	}{
		{
			name:     "by name",
			paths:    []string{"src/main.m", "src/generated.m", "lib/utils.m"},
			excludes: []string{"generated.m"},
			want:     []string{"src/main.m", "lib/utils.m"},
		},
		{
			name:     "by directory",
			paths:    []string{"src/main.m", "build/out.m", "build/sub/deep.m", "lib/utils.m"},
			excludes: []string{"build"},
			want:     []string{"src/main.m", "lib/utils.m"},
		},
		{
			name:     "glob",
			paths:    []string{"src/main.m", "src/test_foo.m", "src/test_bar.m"},
			excludes: []string{"test_*"},
			want:     []string{"src/main.m"},
		},
		{
			name:     "multiple patterns",
			paths:    []string{"src/main.m", "build/out.m", "src/generated.m"},
			excludes: []string{"build", "generated.m"},
			want:     []string{"src/main.m"},
		},
		{
			name:     "no matches",
			paths:    []string{"src/main.m", "lib/utils.m"},
			excludes: []string{"nonexistent"},
			want:     []string{"src/main.m", "lib/utils.m"},
		},
		{
			name:  "no excludes",
			paths: []string{"src/main.m"},
			want:  []string{"src/main.m"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filterExcludes(tt.paths, tt.excludes))
		})
	}
}

func TestMatchesAny(t *testing.T) {
	assert.True(t, matchesAny("src/main.m", []string{"src/*.m"}))
	assert.False(t, matchesAny("lib/main.m", []string{"src/*.m"}))
	assert.True(t, matchesAny("deep/nested/startup.m", []string{"startup.m"}))
	assert.True(t, matchesAny("project/build/out.m", []string{"build"}))
	assert.False(t, matchesAny("project/src/out.m", []string{"build"}))
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c.m"}, splitPath("a/b/c.m"))
	assert.Equal(t, []string{"a", "c.m"}, splitPath("./a//c.m"))
}

func TestExpandArgs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.m", "sub/b.m", "sub/notes.txt", ".git/c.m", "build/d.m"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x = 1;\n"), 0o600))
	}

	got, err := expandArgs([]string{dir + "/...", "other.m"}, []string{"build"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.m"),
		filepath.Join(dir, "sub", "b.m"),
		"other.m",
	}, got)

	_, err = expandArgs([]string{filepath.Join(dir, "missing") + "/..."}, nil)
	assert.Error(t, err)
}
