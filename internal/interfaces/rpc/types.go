package rpcinterface

import (
	"encoding/json"
	"errors"

	"github.com/tdex-network/tdex-signer/internal/core/application"
	"github.com/tdex-network/tdex-signer/pkg/wallet"
)

const (
	jsonRPCVersion = "2.0"

	// UnknownOrigin is used when a request carries no origin at all.
	UnknownOrigin = "unknown"

	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	// CodeUserRejected is the EIP-1193 code for a request declined by the user.
	CodeUserRejected = 4001
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc" validate:"eq=2.0"`
	ID      json.RawMessage `json:"id,omitempty"`
	Origin  string          `json:"origin,omitempty" validate:"max=2048"`
	Method  string          `json:"method" validate:"required,max=128"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return e.Message
}

func newResponse(id json.RawMessage, result interface{}) rpcResponse {
	return rpcResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
}

func newErrorResponse(id json.RawMessage, err *rpcError) rpcResponse {
	return rpcResponse{JSONRPC: jsonRPCVersion, ID: id, Error: err}
}

// toRPCError maps the errors of the signer service to JSON-RPC errors.
// Dependency failures keep their message so that the caller sees why the
// request failed.
func toRPCError(err error) *rpcError {
	var rerr *rpcError
	switch {
	case errors.As(err, &rerr):
		return rerr
	case errors.Is(err, application.ErrMethodNotFound):
		return &rpcError{CodeMethodNotFound, "Method not found."}
	case errors.Is(err, application.ErrUserRejected):
		return &rpcError{CodeUserRejected, "User rejected the request."}
	case errors.Is(err, application.ErrInvalidParams),
		errors.Is(err, wallet.ErrInvalidHexMessage):
		return &rpcError{CodeInvalidParams, err.Error()}
	default:
		return &rpcError{CodeInternalError, err.Error()}
	}
}

func codeLabel(err *rpcError) string {
	if err == nil {
		return "ok"
	}
	switch err.Code {
	case CodeParseError:
		return "parse_error"
	case CodeInvalidRequest:
		return "invalid_request"
	case CodeMethodNotFound:
		return "method_not_found"
	case CodeInvalidParams:
		return "invalid_params"
	case CodeUserRejected:
		return "user_rejected"
	default:
		return "internal_error"
	}
}
