// Copyright © 2026 The octls authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// initialize handles the LSP initialize request.
func (e *Engine) initialize(ctx *glsp.Context) (any, *ResponseError) {
	if len(ctx.Params) > 0 {
		var params protocol.InitializeParams
		if err := decodeParams(ctx, &params); err != nil {
			return nil, err
		}
		if params.ClientInfo != nil {
			log.Infof("initializing for client %s", params.ClientInfo.Name)
		}
		if params.Trace != nil {
			if err := e.setTraceValue(*params.Trace); err != nil {
				return nil, err
			}
		}
	}
	e.state = StateInitializing

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities := protocol.ServerCapabilities{
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			OpenClose: boolPtr(true),
			Change:    &syncKind,
		},
		DefinitionProvider: true,
	}

	version := Version
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (e *Engine) reinitialize(*glsp.Context) (any, *ResponseError) {
	return nil, ErrAlreadyInitialized
}

// initialized completes the handshake.
func (e *Engine) initialized(*glsp.Context) (any, *ResponseError) {
	if e.state == StateInitializing {
		e.state = StateRunning
		log.Info("session running")
	}
	return nil, nil
}

func (e *Engine) shutdown(*glsp.Context) (any, *ResponseError) {
	e.state = StateShuttingDown
	e.shutdownSeen = true
	uris := e.docs.URIs()
	log.Infof("shutting down with %d open documents", len(uris))
	for _, uri := range uris {
		if doc := e.docs.Get(uri); doc != nil {
			log.Debugf("open at shutdown: %s (version %d, %d bytes)", uri, doc.Version, len(doc.Text))
		}
	}
	return nil, nil
}

// exit ends the session.  It is honoured in every state.
func (e *Engine) exit() {
	if !e.shutdownSeen {
		log.Warning("exit without shutdown")
	}
	e.state = StateExited
}

// setTrace handles the $/setTrace notification.
func (e *Engine) setTrace(ctx *glsp.Context) (any, *ResponseError) {
	var params protocol.SetTraceParams
	if err := decodeParams(ctx, &params); err != nil {
		return nil, err
	}
	if err := e.setTraceValue(params.Value); err != nil {
		return nil, err
	}
	return nil, nil
}

// setTraceValue records the session's trace level.  "messages" is accepted
// as a synonym of "message".
func (e *Engine) setTraceValue(value protocol.TraceValue) *ResponseError {
	switch value {
	case protocol.TraceValueOff, protocol.TraceValueMessage, protocol.TraceValueVerbose:
	case "messages":
		value = protocol.TraceValueMessage
	default:
		return invalidParams("unsupported trace value %q", value)
	}
	e.trace = value
	return nil
}

func boolPtr(b bool) *bool {
	return &b
}
