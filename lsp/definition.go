// Copyright © 2026 The octls authors

package lsp

import (
	"encoding/json"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// definitionShape mirrors the required fields of DefinitionParams so that
// missing fields can be told apart from zero values.
type definitionShape struct {
	TextDocument *struct {
		URI *string `json:"uri"`
	} `json:"textDocument"`
	Position *struct {
		Line      *json.Number `json:"line"`
		Character *json.Number `json:"character"`
	} `json:"position"`
}

// definition handles the textDocument/definition request.
func (e *Engine) definition(ctx *glsp.Context) (any, *ResponseError) {
	var shape definitionShape
	if err := decodeParams(ctx, &shape); err != nil {
		return nil, err
	}
	switch {
	case shape.TextDocument == nil || shape.TextDocument.URI == nil:
		return nil, invalidParams("missing textDocument.uri")
	case shape.Position == nil:
		return nil, invalidParams("missing position")
	case shape.Position.Line == nil || shape.Position.Character == nil:
		return nil, invalidParams("position requires line and character")
	}
	var params protocol.DefinitionParams
	if err := decodeParams(ctx, &params); err != nil {
		return nil, err
	}

	uri := params.TextDocument.URI
	doc := e.docs.Get(uri)
	if doc == nil {
		log.Debugf("definition requested for unopened document %s", uri)
		return nil, ErrSymbolNotFound
	}
	occ, ok := doc.Index.FindOccurrenceAt(int(params.Position.Line), int(params.Position.Character))
	if !ok {
		return nil, ErrSymbolNotFound
	}
	def, ok := doc.Index.FindDefinitionOf(occ.Name)
	if !ok {
		return nil, ErrDefinitionNotFound
	}
	return protocol.Location{
		URI:   uri,
		Range: definitionRange(def),
	}, nil
}
