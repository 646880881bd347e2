// Copyright © 2026 The octls authors

package lsp

import (
	"sort"
	"sync"

	"github.com/octls/octls/index"
)

// Document is an open text document and the index built from its text.
// A Document is never modified after it is stored; a change replaces it.
type Document struct {
	URI     string
	Version int32
	Text    string
	Index   *index.Index
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Put stores doc, replacing any document with the same URI.
func (s *DocumentStore) Put(doc *Document) {
	s.mu.Lock()
	s.docs[doc.URI] = doc
	s.mu.Unlock()
}

// Close removes a document from the store.  It reports whether the document
// was open.
func (s *DocumentStore) Close(uri string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[uri]
	delete(s.docs, uri)
	return ok
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// URIs returns the URIs of all open documents in sorted order.
func (s *DocumentStore) URIs() []string {
	s.mu.RLock()
	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	s.mu.RUnlock()
	sort.Strings(uris)
	return uris
}
