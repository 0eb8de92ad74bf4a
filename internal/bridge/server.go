package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"assetbridge/internal/api"
	"assetbridge/internal/logging"
	"assetbridge/internal/pathresolve"
	"assetbridge/internal/transfer"
)

// StatusFunc reports daemon status for GET /status.
type StatusFunc func(ctx context.Context) api.StatusResponse

// Options configures a Server.
type Options struct {
	Host               string
	Port               int
	LoopbackOnly       bool
	CORSOrigin         string
	MaxBodyBytes       int64
	MaxPaths           int
	DefaultDestination string
	Version            string

	// WriteTimeout bounds responses on /ping and /status. Transfer routes
	// clear it so a long batch is always answered. Zero means 30s.
	WriteTimeout time.Duration

	Resolver *pathresolve.Resolver
	Executor *transfer.Executor
	Status   StatusFunc
	Logger   *slog.Logger
}

// Server is the loopback HTTP bridge.
type Server struct {
	addr               string
	loopbackOnly       bool
	corsOrigin         string
	maxBodyBytes       int64
	maxPaths           int
	defaultDestination string
	version            string
	writeTimeout       time.Duration

	resolver *pathresolve.Resolver
	executor *transfer.Executor
	status   StatusFunc
	logger   *slog.Logger

	active atomic.Int64

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
	handler  http.Handler
}

// New validates opts and builds a server. It does not listen yet.
func New(opts Options) (*Server, error) {
	if opts.Executor == nil {
		return nil, errors.New("bridge requires a transfer executor")
	}
	if opts.Port < 0 || opts.Port > 65535 {
		return nil, fmt.Errorf("bridge port %d out of range", opts.Port)
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = pathresolve.New("")
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 8 << 20
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		addr:               net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)),
		loopbackOnly:       opts.LoopbackOnly,
		corsOrigin:         opts.CORSOrigin,
		maxBodyBytes:       maxBody,
		maxPaths:           opts.MaxPaths,
		defaultDestination: opts.DefaultDestination,
		version:            version,
		writeTimeout:       writeTimeout,
		resolver:           resolver,
		executor:           opts.Executor,
		status:             opts.Status,
		logger:             logging.NewComponentLogger(opts.Logger, "bridge"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", s.handlePing)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/copy-to-clipboard", s.handleTransfer(false))
	mux.HandleFunc("/copy-to-directory", s.handleTransfer(true))
	mux.HandleFunc("/", s.handleNotFound)

	var handler http.Handler = mux
	handler = s.cors(handler)
	if s.loopbackOnly {
		handler = s.requireLoopback(handler)
	}
	s.handler = handler
	return s, nil
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and serves until ctx is done or
// Stop is called.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return errors.New("bridge already started")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("bridge listen on %s: %w", s.addr, err)
	}
	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
	s.listener = listener
	s.server = server

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorWithContext(s.logger, "bridge server error", "bridge_serve_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "restart the daemon; check for port conflicts"),
			)
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("bridge listening",
		logging.String("address", listener.Addr().String()),
		logging.Bool("loopback_only", s.loopbackOnly),
	)
	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// ActiveTransfers reports transfer requests currently in flight.
func (s *Server) ActiveTransfers() int {
	return int(s.active.Load())
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	s.mu.Lock()
	server := s.server
	s.mu.Unlock()
	if server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.WarnWithContext(s.logger, "bridge shutdown incomplete", "bridge_shutdown_timeout",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "a transfer was still running at shutdown"),
			logging.String(logging.FieldImpact, "the caller may not receive a response"),
		)
		_ = server.Close()
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var payload api.StatusResponse
	if s.status != nil {
		payload = s.status(r.Context())
	} else {
		payload = api.StatusResponse{Running: true, Address: s.Addr(), DefaultDestination: s.defaultDestination}
	}
	if payload.Version == "" {
		payload.Version = s.version
	}
	if payload.ClipboardBackend == "" {
		payload.ClipboardBackend = s.executor.ClipboardBackend()
	}
	payload.ActiveTransfers = s.ActiveTransfers()
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, http.StatusNotFound, "not found")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logging.NewNop()
}
