// Copyright © 2026 The octls authors

package lsp

import (
	"sync"
	"testing"

	"github.com/octls/octls/index"
	"github.com/stretchr/testify/assert"
)

func TestDocumentStore(t *testing.T) {
	s := NewDocumentStore()
	assert.Nil(t, s.Get("file:///a.m"))
	assert.Empty(t, s.URIs())

	first := &Document{URI: "file:///b.m", Version: 1, Index: index.New()}
	s.Put(first)
	s.Put(&Document{URI: "file:///a.m", Version: 1, Index: index.New()})
	assert.Same(t, first, s.Get("file:///b.m"))
	assert.Equal(t, []string{"file:///a.m", "file:///b.m"}, s.URIs())

	second := &Document{URI: "file:///b.m", Version: 2, Index: index.New()}
	s.Put(second)
	assert.Same(t, second, s.Get("file:///b.m"))
	assert.EqualValues(t, 1, first.Version)

	assert.True(t, s.Close("file:///b.m"))
	assert.False(t, s.Close("file:///b.m"))
	assert.Nil(t, s.Get("file:///b.m"))
	assert.Equal(t, []string{"file:///a.m"}, s.URIs())
}

func TestDocumentStore_Concurrent(t *testing.T) {
	s := NewDocumentStore()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for v := range 100 {
				s.Put(&Document{URI: "file:///x.m", Version: int32(i*100 + v), Index: index.New()})
				doc := s.Get("file:///x.m")
				if assert.NotNil(t, doc) {
					assert.NotNil(t, doc.Index)
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, []string{"file:///x.m"}, s.URIs())
}

func TestDefinitionRange(t *testing.T) {
	r := definitionRange(index.Definition{Name: "x😀", Line: 4, Column: 2})
	assert.EqualValues(t, 4, r.Start.Line)
	assert.EqualValues(t, 2, r.Start.Character)
	assert.EqualValues(t, 4, r.End.Line)
	assert.EqualValues(t, 5, r.End.Character)
}

func TestURIToPath(t *testing.T) {
	assert.Equal(t, "/tmp/inc.m", uriToPath("file:///tmp/inc.m"))
	assert.Equal(t, "untitled:1", uriToPath("untitled:1"))
}
