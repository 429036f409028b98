package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/alumni-jobs/internal/config"
	"github.com/honeycarbs/alumni-jobs/internal/httpapi"
	"github.com/honeycarbs/alumni-jobs/pkg/logging"
)

// StreamPath is where the streamable MCP transport is mounted
const StreamPath = "/mcp/stream"

// Server hosts the REST API and the MCP endpoint on one listener
type Server struct {
	logger *logging.Logger
	config config.Config
	tools  []string

	srv     *http.Server
	started atomic.Bool
}

// NewServer constructs a new HTTP server over res
func NewServer(log *logging.Logger, cfg config.Config, res *Resources) (*Server, error) {
	log = logging.OrNop(log)

	impl := &sdkmcp.Implementation{
		Name:    "alumni-jobs",
		Version: "0.1.0",
	}
	mcpServer := sdkmcp.NewServer(impl, nil)

	names, err := NewToolRegistry(log).RegisterAll(mcpServer, res)
	if err != nil {
		return nil, err
	}

	api, err := httpapi.New(res.JobService, res.AppService, res.Dashboard,
		httpapi.WithMetrics(res.Metrics),
		httpapi.WithLogger(log),
		httpapi.WithListRate(res.ListRate),
	)
	if err != nil {
		return nil, fmt.Errorf("mcp: build REST API: %w", err)
	}

	handler := sdkmcp.NewStreamableHTTPHandler(func(req *http.Request) *sdkmcp.Server {
		return mcpServer
	}, nil)

	mux := http.NewServeMux()
	mux.Handle(StreamPath, handler)
	mux.Handle("/", api.Handler())

	httpSrv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		logger: log,
		config: cfg,
		tools:  names,
		srv:    httpSrv,
	}, nil
}

// Handler exposes the routed mux, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Tools lists the registered MCP tool names
func (s *Server) Tools() []string {
	return s.tools
}

// Run starts the HTTP server and blocks until shutdown
func (s *Server) Run() error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	s.logger.Info("HTTP server listening", "addr", s.srv.Addr, "mcp", StreamPath, "tools", len(s.tools))

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutdown requested for HTTP server")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("HTTP server shutdown with error", "err", err)
		return err
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}
