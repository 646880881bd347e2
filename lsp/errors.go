// Copyright © 2026 The octls authors

package lsp

import (
	"errors"
	"fmt"

	"github.com/sourcegraph/jsonrpc2"
)

// ErrorCode is a JSON-RPC or LSP response error code.
type ErrorCode int64

const (
	CodeParseError           ErrorCode = jsonrpc2.CodeParseError
	CodeInvalidRequest       ErrorCode = jsonrpc2.CodeInvalidRequest
	CodeMethodNotFound       ErrorCode = jsonrpc2.CodeMethodNotFound
	CodeInvalidParams        ErrorCode = jsonrpc2.CodeInvalidParams
	CodeInternalError        ErrorCode = jsonrpc2.CodeInternalError
	CodeServerNotInitialized ErrorCode = -32002
	CodeRequestFailed        ErrorCode = -32803
)

func (c ErrorCode) String() string {
	switch c {
	case CodeParseError:
		return "ParseError"
	case CodeInvalidRequest:
		return "InvalidRequest"
	case CodeMethodNotFound:
		return "MethodNotFound"
	case CodeInvalidParams:
		return "InvalidParams"
	case CodeInternalError:
		return "InternalError"
	case CodeServerNotInitialized:
		return "ServerNotInitialized"
	case CodeRequestFailed:
		return "RequestFailed"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int64(c))
	}
}

// ResponseError is the error half of a Response.
type ResponseError struct {
	Code    ErrorCode
	Message string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s (%v)", e.Message, e.Code)
}

// Is matches errors with the same code and message, so the package's error
// values can be compared with errors.Is.
func (e *ResponseError) Is(target error) bool {
	var t *ResponseError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.Message == e.Message
}

// JSONRPC converts e to the wire error type.
func (e *ResponseError) JSONRPC() *jsonrpc2.Error {
	return &jsonrpc2.Error{Code: int64(e.Code), Message: e.Message}
}

var (
	ErrSymbolNotFound       = &ResponseError{Code: CodeRequestFailed, Message: "symbol not found"}
	ErrDefinitionNotFound   = &ResponseError{Code: CodeRequestFailed, Message: "definition not found"}
	ErrServerNotInitialized = &ResponseError{Code: CodeServerNotInitialized, Message: "server not initialized"}
	ErrAlreadyInitialized   = &ResponseError{Code: CodeInvalidRequest, Message: "server already initialized"}
	ErrShuttingDown         = &ResponseError{Code: CodeInvalidRequest, Message: "server is shutting down"}
)

// ErrExitWithoutShutdown is returned by Server.Serve when the client sent
// exit without a preceding shutdown.
var ErrExitWithoutShutdown = errors.New("exit received without shutdown")

// ErrConnectionClosed is returned by Server.Serve when the stream ended
// before the client sent exit.
var ErrConnectionClosed = errors.New("connection closed before exit")

func invalidParams(format string, v ...any) *ResponseError {
	return &ResponseError{Code: CodeInvalidParams, Message: fmt.Sprintf(format, v...)}
}

func methodNotFound(method string) *ResponseError {
	return &ResponseError{Code: CodeMethodNotFound, Message: fmt.Sprintf("method not supported: %s", method)}
}

func internalError(format string, v ...any) *ResponseError {
	return &ResponseError{Code: CodeInternalError, Message: fmt.Sprintf(format, v...)}
}
