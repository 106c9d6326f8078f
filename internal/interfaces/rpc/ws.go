package rpcinterface

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

type wsHandler struct {
	upgrader websocket.Upgrader
	rpc      *handler
	metrics  *Metrics
}

func newWsHandler(rpc *handler, metrics *Metrics, allowedOrigins []string) *wsHandler {
	return &wsHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		rpc:     rpc,
		metrics: metrics,
	}
}

// ServeHTTP upgrades the connection and serves every text frame as a
// JSON-RPC request on its own goroutine, so that a pending consent dialog
// does not block the other requests of the connection. Pending requests
// are canceled once the connection is closed.
func (h *wsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Debug("failed to upgrade connection to websocket")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(MaxRequestSize)

	connID := uuid.New().String()
	origin := r.Header.Get("Origin")
	logger := log.WithField("connection", connID)
	logger.Debug("websocket connection opened")

	if h.metrics != nil {
		h.metrics.WsConnections.Inc()
		defer h.metrics.WsConnections.Dec()
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Unblock the read loop when the server shuts down.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	wg := &sync.WaitGroup{}
	writeMtx := &sync.Mutex{}

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(
				err, websocket.CloseNormalClosure, websocket.CloseGoingAway,
			) {
				logger.WithError(err).Debug("websocket connection dropped")
			}
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}

		wg.Add(1)
		go func(msg []byte) {
			defer wg.Done()

			resp := h.rpc.dispatch(ctx, transportWS, origin, msg)

			writeMtx.Lock()
			defer writeMtx.Unlock()
			if err := conn.WriteJSON(resp); err != nil {
				logger.WithError(err).Debug("failed to write response")
			}
		}(msg)
	}

	cancel()
	wg.Wait()
	logger.Debug("websocket connection closed")
}

// checkOrigin returns nil, ie. the same-origin policy of gorilla, when no
// origins are configured.
func checkOrigin(allowedOrigins []string) func(r *http.Request) bool {
	if len(allowedOrigins) <= 0 {
		return nil
	}

	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if len(origin) <= 0 {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
