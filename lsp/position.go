// Copyright © 2026 The octls authors

package lsp

import (
	"strings"

	"github.com/octls/octls/index"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// safeUint converts a non-negative int to protocol.UInteger, clamping
// negative values to zero.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) // #nosec G115 -- line/col are always small positive ints
}

// definitionRange spans the defined name on its line.
func definitionRange(def index.Definition) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: safeUint(def.Line), Character: safeUint(def.Column)},
		End:   protocol.Position{Line: safeUint(def.Line), Character: safeUint(def.End())},
	}
}

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		return path
	}
	return uri
}
