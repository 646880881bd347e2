// Copyright © 2026 The octls authors

// Package lsp implements a Language Server Protocol server that answers
// go-to-definition requests for Octave documents.
package lsp

import (
	"context"
	"io"
	"net"
	"os"
	"strings"

	"github.com/octls/octls/analysis"
	"github.com/octls/octls/parser"
	"github.com/sourcegraph/jsonrpc2"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	serverName = "octls"
	tracerName = "github.com/octls/octls/lsp"
)

// Version is reported to clients in the initialize result.
var Version = "0.1.0"

var log = commonlog.GetLogger("octls.lsp")

// Server serves the protocol over byte streams.  Each connection gets its
// own Engine.
type Server struct {
	source         SourceFactory
	tracerProvider trace.TracerProvider
	debug          bool
}

// Option configures the LSP server.
type Option func(*Server)

// WithSource replaces the analysis source used for opened documents.
func WithSource(f SourceFactory) Option {
	return func(s *Server) { s.source = f }
}

// WithTracerProvider sets the provider of the tracer that records a span
// for every dispatched message.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) { s.tracerProvider = tp }
}

// WithDebug logs every message sent and received at debug level.
func WithDebug(debug bool) Option {
	return func(s *Server) { s.debug = debug }
}

// New creates a new server.  Documents are analyzed with the Octave parser
// unless WithSource says otherwise.
func New(opts ...Option) *Server {
	s := &Server{
		source: defaultSource,
	}
	for _, o := range opts {
		o(s)
	}
	if s.tracerProvider == nil {
		s.tracerProvider = otel.GetTracerProvider()
	}
	return s
}

func defaultSource(uri string) analysis.Source {
	return parser.New(uriToPath(uri))
}

// NewEngine returns an engine configured like the ones Serve creates.
func (s *Server) NewEngine() *Engine {
	return NewEngine(s.source, s.tracerProvider.Tracer(tracerName))
}

// Serve runs one session over rwc and blocks until the connection closes.
// It returns nil when the client sent exit after shutdown,
// ErrExitWithoutShutdown when exit came first, ctx.Err() when ctx was
// cancelled and ErrConnectionClosed when the stream ended before exit.
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	engine := s.NewEngine()
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(s.handler(engine)),
		s.connOptions()...)

	select {
	case <-conn.DisconnectNotify():
	case <-ctx.Done():
		_ = conn.Close()
		<-conn.DisconnectNotify()
		if engine.State() != StateExited {
			return ctx.Err()
		}
	}

	switch {
	case engine.State() != StateExited:
		return ErrConnectionClosed
	case engine.ExitCode() != 0:
		return ErrExitWithoutShutdown
	}
	return nil
}

func (s *Server) handler(engine *Engine) func(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) (any, error) {
	return func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		gctx := &glsp.Context{
			Method: req.Method,
			Notify: func(method string, params any) {
				if err := conn.Notify(ctx, method, params); err != nil {
					log.Errorf("%s", err.Error())
				}
			},
		}
		if req.Params != nil {
			gctx.Params = *req.Params
		}

		resp := engine.Dispatch(ctx, gctx, req.Notif)
		if engine.State() == StateExited {
			if err := conn.Close(); err != nil {
				log.Debugf("closing connection: %v", err)
			}
		}
		if resp.Err != nil {
			return nil, resp.Err.JSONRPC()
		}
		return resp.Result, nil
	}
}

func (s *Server) connOptions() []jsonrpc2.ConnOpt {
	logger := &rpcLogger{commonlog.GetLogger("octls.lsp.rpc")}
	opts := []jsonrpc2.ConnOpt{jsonrpc2.SetLogger(logger)}
	if s.debug {
		opts = append(opts, jsonrpc2.LogMessages(logger))
	}
	return opts
}

// RunStdio serves a single session on stdin and stdout.
func (s *Server) RunStdio(ctx context.Context) error {
	log.Info("reading from stdin, writing to stdout")
	err := s.Serve(ctx, stdrwc{})
	log.Info("stdin/stdout connection closed")
	return err
}

// RunTCP listens on addr and serves every accepted connection in its own
// goroutine until ctx is cancelled or Accept fails.
func (s *Server) RunTCP(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer listener.Close()
	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()
	log.Infof("listening for TCP connections on %s", listener.Addr())

	connectionCount := 0
	for {
		connection, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		connectionCount++
		id := connectionCount
		log.Infof("received incoming TCP connection #%d", id)
		go func() {
			err := s.Serve(ctx, connection)
			log.Infof("connection #%d closed: %v", id, err)
		}()
	}
}

type stdrwc struct{}

func (stdrwc) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdrwc) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdrwc) Close() error {
	if err := os.Stdin.Close(); err != nil {
		return err
	}
	return os.Stdout.Close()
}

// rpcLogger adapts a commonlog.Logger to jsonrpc2.Logger.
type rpcLogger struct {
	log commonlog.Logger
}

func (l *rpcLogger) Printf(format string, v ...any) {
	l.log.Debugf(strings.TrimSuffix(format, "\n"), v...)
}
