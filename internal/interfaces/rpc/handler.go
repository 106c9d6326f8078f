package rpcinterface

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-signer/internal/core/application"
)

// MaxRequestSize is the max size in bytes of a request body or frame.
const MaxRequestSize = 1 << 20

var validate = validator.New()

type handler struct {
	signerSvc application.SignerService
	metrics   *Metrics
}

func newHandler(signerSvc application.SignerService, metrics *Metrics) *handler {
	return &handler{signerSvc, metrics}
}

// dispatch decodes a JSON-RPC request and serves it. The origin of the
// transport, ie. the Origin header set by browsers, cannot be overridden by
// the envelope: its origin member is used only by clients sending none.
func (h *handler) dispatch(
	ctx context.Context, transport, origin string, body []byte,
) rpcResponse {
	start := time.Now()

	req := rpcRequest{}
	if err := json.Unmarshal(body, &req); err != nil {
		rerr := &rpcError{CodeParseError, "Parse error."}
		h.metrics.observe(transport, "", rerr, time.Since(start))
		return newErrorResponse(nil, rerr)
	}
	if err := validate.Struct(req); err != nil {
		log.WithError(err).Debug("invalid request")
		rerr := &rpcError{CodeInvalidRequest, "Invalid request."}
		h.metrics.observe(transport, req.Method, rerr, time.Since(start))
		return newErrorResponse(req.ID, rerr)
	}

	if len(origin) <= 0 {
		origin = req.Origin
	}
	if len(origin) <= 0 {
		origin = UnknownOrigin
	}

	log.WithFields(log.Fields{
		"transport": transport,
		"origin":    origin,
	}).Debug(req.Method)

	result, err := h.signerSvc.HandleRequest(ctx, origin, application.Request{
		Method: req.Method,
		Params: req.Params,
	})
	if err != nil {
		rerr := toRPCError(err)
		if rerr.Code == CodeInternalError {
			log.WithError(err).WithField("method", req.Method).Warn(
				"failed to serve request",
			)
		}
		h.metrics.observe(transport, req.Method, rerr, time.Since(start))
		return newErrorResponse(req.ID, rerr)
	}

	h.metrics.observe(transport, req.Method, nil, time.Since(start))
	return newResponse(req.ID, result)
}

// ServeHTTP serves POST /rpc. Errors are carried by the JSON-RPC envelope,
// hence the status is always 200 for well formed POSTs.
func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestSize))
	if err != nil {
		writeJSON(w, newErrorResponse(
			nil, &rpcError{CodeInvalidRequest, "Invalid request."},
		))
		return
	}

	resp := h.dispatch(r.Context(), transportHTTP, r.Header.Get("Origin"), body)
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, resp rpcResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.WithError(err).Debug("failed to write response")
	}
}

func withLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debugf("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
