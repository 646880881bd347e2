// Copyright © 2026 The octls authors

package lsp

import (
	"fmt"

	"github.com/octls/octls/analysis"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (e *Engine) didOpen(ctx *glsp.Context) (any, *ResponseError) {
	var params protocol.DidOpenTextDocumentParams
	if err := decodeParams(ctx, &params); err != nil {
		return nil, err
	}
	item := params.TextDocument
	if item.URI == "" {
		return nil, invalidParams("missing textDocument.uri")
	}
	e.analyze(ctx, item.URI, item.Version, item.Text)
	return nil, nil
}

// didChange reanalyzes a document from its full text.  Only whole-document
// changes are accepted.
func (e *Engine) didChange(ctx *glsp.Context) (any, *ResponseError) {
	var params protocol.DidChangeTextDocumentParams
	if err := decodeParams(ctx, &params); err != nil {
		return nil, err
	}
	uri := params.TextDocument.URI
	if uri == "" {
		return nil, invalidParams("missing textDocument.uri")
	}
	if len(params.ContentChanges) == 0 {
		return nil, nil
	}
	whole, ok := params.ContentChanges[len(params.ContentChanges)-1].(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		return nil, invalidParams("incremental change rejected for %s: full sync only", uri)
	}
	e.analyze(ctx, uri, params.TextDocument.Version, whole.Text)
	return nil, nil
}

func (e *Engine) didClose(ctx *glsp.Context) (any, *ResponseError) {
	var params protocol.DidCloseTextDocumentParams
	if err := decodeParams(ctx, &params); err != nil {
		return nil, err
	}
	if !e.docs.Close(params.TextDocument.URI) {
		log.Debugf("close of unknown document %s", params.TextDocument.URI)
	}
	return nil, nil
}

// analyze builds the index for text and replaces the document at uri.  An
// analysis failure keeps the partial index and is reported to the client.
func (e *Engine) analyze(ctx *glsp.Context, uri string, version int32, text string) {
	idx, err := analysis.Analyze(e.source(uri), text)
	e.docs.Put(&Document{URI: uri, Version: version, Text: text, Index: idx})
	if err != nil {
		log.Warningf("%s: %v", uri, err)
		notify(ctx, protocol.ServerWindowLogMessage, protocol.LogMessageParams{
			Type:    protocol.MessageTypeWarning,
			Message: fmt.Sprintf("%s: %v", uri, err),
		})
		return
	}
	log.Debugf("indexed %s (version %d): %d occurrences", uri, version, idx.Len())
	if e.trace == protocol.TraceValueVerbose {
		notify(ctx, protocol.ServerWindowLogMessage, protocol.LogMessageParams{
			Type:    protocol.MessageTypeLog,
			Message: fmt.Sprintf("indexed %s: %d occurrences", uri, idx.Len()),
		})
	}
}
