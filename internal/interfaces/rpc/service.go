package rpcinterface

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-signer/internal/core/application"
	interfaces "github.com/tdex-network/tdex-signer/internal/interfaces"
)

const (
	RPCPath     = "/rpc"
	WsPath      = "/ws"
	MetricsPath = "/metrics"

	defaultShutdownTimeout = 5 * time.Second
)

type ServiceOpts struct {
	Address         string
	AllowedOrigins  []string
	EnableMetrics   bool
	ShutdownTimeout time.Duration

	SignerSvc application.SignerService
	// Metrics is optional, a dedicated registry is created if nil.
	Metrics *Metrics
}

func (o ServiceOpts) validate() error {
	if !isValidAddress(o.Address) {
		return fmt.Errorf("invalid listening address %s", o.Address)
	}
	if o.SignerSvc == nil {
		return fmt.Errorf("signer app service must not be null")
	}
	if o.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown timeout must not be negative")
	}
	return nil
}

type service struct {
	opts    ServiceOpts
	server  *http.Server
	baseCtx context.Context
	cancel  context.CancelFunc
}

func NewService(opts ServiceOpts) (interfaces.Service, error) {
	svc, err := newService(opts)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func newService(opts ServiceOpts) (*service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:              opts.Address,
		Handler:           newRouter(opts),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	return &service{opts, server, baseCtx, cancel}, nil
}

func newRouter(opts ServiceOpts) http.Handler {
	rpc := newHandler(opts.SignerSvc, opts.Metrics)

	var rpcHandler http.Handler = rpc
	if len(opts.AllowedOrigins) > 0 {
		rpcHandler = cors.New(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler(rpc)
	}

	mux := http.NewServeMux()
	mux.Handle(RPCPath, rpcHandler)
	mux.Handle(WsPath, newWsHandler(rpc, opts.Metrics, opts.AllowedOrigins))
	if opts.EnableMetrics {
		mux.Handle(MetricsPath, opts.Metrics.handler())
	}
	return withLogger(mux)
}

func (s *service) Start() error {
	lis, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(lis); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Warn("rpc interface stopped unexpectedly")
		}
	}()

	log.Infof("rpc interface listening on %s", lis.Addr())
	return nil
}

// Stop gives pending requests the configured timeout to complete, then
// cancels those still waiting, websocket connections included.
func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(
		context.Background(), s.opts.ShutdownTimeout,
	)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("rpc interface did not shut down gracefully")
	}
	s.cancel()
	log.Debug("disabled rpc interface")
}

func isValidAddress(addr string) bool {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host != "" && host != "localhost" {
		if ip := net.ParseIP(host); ip == nil {
			return false
		}
	}
	_, err = net.LookupPort("tcp", port)
	return err == nil
}
