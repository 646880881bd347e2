// Copyright © 2026 The octls authors

package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/octls/octls/analysis"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// State is the lifecycle phase of a session.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateRunning
	StateShuttingDown
	StateExited
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting-down"
	case StateExited:
		return "exited"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Response is the outcome of dispatching one message.  Exactly one of Result
// and Err is meaningful; a nil Err with a nil Result is a null result.
// Responses to notifications are discarded.
type Response struct {
	Result any
	Err    *ResponseError
}

// SourceFactory returns the analysis.Source used for the document at uri.
type SourceFactory func(uri string) analysis.Source

type handlerFunc func(e *Engine, ctx *glsp.Context) (any, *ResponseError)

// handlers serves the methods accepted once the session is initializing or
// running.
var handlers = map[string]handlerFunc{
	protocol.MethodInitialize:             (*Engine).reinitialize,
	protocol.MethodInitialized:            (*Engine).initialized,
	protocol.MethodShutdown:               (*Engine).shutdown,
	protocol.MethodSetTrace:               (*Engine).setTrace,
	protocol.MethodTextDocumentDidOpen:    (*Engine).didOpen,
	protocol.MethodTextDocumentDidChange:  (*Engine).didChange,
	protocol.MethodTextDocumentDidClose:   (*Engine).didClose,
	protocol.MethodTextDocumentDefinition: (*Engine).definition,
}

// Engine is the protocol state machine of one client session.  Dispatch
// must be called with messages in arrival order; the engine serializes
// calls itself.
type Engine struct {
	mu           sync.Mutex
	state        State
	shutdownSeen bool
	trace        protocol.TraceValue
	docs         *DocumentStore
	source       SourceFactory
	tracer       trace.Tracer
}

// NewEngine returns an engine in StateUninitialized.
func NewEngine(source SourceFactory, tracer trace.Tracer) *Engine {
	return &Engine{
		trace:  protocol.TraceValueOff,
		docs:   NewDocumentStore(),
		source: source,
		tracer: tracer,
	}
}

// State returns the current lifecycle phase.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// ExitCode returns the process exit status implied by the session: 0 when
// exit followed shutdown and 1 otherwise.
func (e *Engine) ExitCode() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateExited && e.shutdownSeen {
		return 0
	}
	return 1
}

// Trace returns the session's trace level.
func (e *Engine) Trace() protocol.TraceValue {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.trace
}

// Documents returns the engine's document store.
func (e *Engine) Documents() *DocumentStore {
	return e.docs
}

// Dispatch handles one message.  ctx.Method and ctx.Params carry the message
// and ctx.Notify sends notifications back to the client.
func (e *Engine) Dispatch(c context.Context, ctx *glsp.Context, notification bool) (resp Response) {
	_, span := e.tracer.Start(c, ctx.Method,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("rpc.system", "jsonrpc"),
			attribute.String("rpc.method", ctx.Method),
			attribute.Bool("lsp.notification", notification),
		))
	defer span.End()

	e.mu.Lock()
	defer e.mu.Unlock()
	span.SetAttributes(attribute.String("lsp.state", e.state.String()))
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("panic handling %s: %v\n%s", ctx.Method, r, debug.Stack())
			resp = Response{Err: internalError("internal error handling %s: %v", ctx.Method, r)}
		}
		if resp.Err != nil {
			span.SetStatus(codes.Error, resp.Err.Message)
			span.SetAttributes(attribute.Int64("rpc.jsonrpc.error_code", int64(resp.Err.Code)))
			if notification {
				log.Warningf("%s: %s", ctx.Method, resp.Err.Message)
			}
		}
	}()

	result, err := e.dispatch(ctx, notification)
	if err != nil {
		return Response{Err: err}
	}
	return Response{Result: result}
}

func (e *Engine) dispatch(ctx *glsp.Context, notification bool) (any, *ResponseError) {
	if ctx.Method == protocol.MethodExit {
		e.exit()
		return nil, nil
	}
	switch e.state {
	case StateUninitialized:
		if ctx.Method == protocol.MethodInitialize {
			return e.initialize(ctx)
		}
		if notification {
			log.Debugf("dropping %s before initialize", ctx.Method)
			return nil, nil
		}
		return nil, ErrServerNotInitialized
	case StateShuttingDown, StateExited:
		if notification {
			log.Debugf("ignoring %s after shutdown", ctx.Method)
			return nil, nil
		}
		return nil, ErrShuttingDown
	}
	h, ok := handlers[ctx.Method]
	if !ok {
		if notification {
			if !strings.HasPrefix(ctx.Method, "$/") {
				log.Debugf("ignoring unknown notification %s", ctx.Method)
			}
			return nil, nil
		}
		return nil, methodNotFound(ctx.Method)
	}
	return h(e, ctx)
}

// decodeParams unmarshals the message parameters into v.
func decodeParams(ctx *glsp.Context, v any) *ResponseError {
	if len(ctx.Params) == 0 {
		return invalidParams("missing params")
	}
	if err := json.Unmarshal(ctx.Params, v); err != nil {
		return invalidParams("invalid params: %v", err)
	}
	return nil
}

// notify sends a notification when the context can deliver one.
func notify(ctx *glsp.Context, method string, params any) {
	if ctx.Notify != nil {
		ctx.Notify(method, params)
	}
}
