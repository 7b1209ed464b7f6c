// Package server exposes the broker over HTTP. Messages arrive as the same
// tagged JSON objects the browser extension sent to its background worker.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/valpere/bettertext/internal"
	"github.com/valpere/bettertext/internal/broker"
)

const (
	DefaultAddr  = "127.0.0.1:8787"
	DefaultRPS   = 2
	DefaultBurst = 5

	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
	janitorEvery    = 2 * time.Minute
)

type Config struct {
	Addr  string  `mapstructure:"addr"`
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// Broker is the part of *broker.Broker the server needs.
type Broker interface {
	Handle(ctx context.Context, req broker.Request) broker.Response
	Stats(ctx context.Context) (broker.Stats, error)
	History(ctx context.Context) ([]internal.RewriteEntry, error)
}

type Server struct {
	broker  Broker
	cfg     Config
	limiter *limiterStore
	logger  *zap.Logger
}

func New(b Broker, cfg Config, logger *zap.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		broker:  b,
		cfg:     cfg,
		limiter: newLimiterStore(cfg.RPS, cfg.Burst),
		logger:  logger,
	}
}

// Handler returns the routed, rate-limited handler. The rate limit applies
// to message handling only; health and read-only routes are unlimited.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /v1/messages", rateLimit(s.limiter)(http.HandlerFunc(s.handleMessage)))
	mux.HandleFunc("GET /v1/stats", s.handleStats)
	mux.HandleFunc("GET /v1/history", s.handleHistory)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return s.logRequests(mux)
}

// Run listens on the configured address until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully. It returns once every goroutine it started has exited.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// a provider call may take up to its own 60s timeout
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("Shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		s.limiter.janitor(gctx, janitorEvery)
		return nil
	})

	return g.Wait()
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req broker.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, broker.Response{Status: broker.StatusError, Message: "invalid message: " + err.Error()})
		return
	}

	// Failures are part of the reply body, as with the extension's
	// message channel.
	writeJSON(w, http.StatusOK, s.broker.Handle(r.Context(), req))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.broker.Stats(r.Context())
	if err != nil {
		s.logger.Error("Failed to load stats", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, broker.Response{Status: broker.StatusError, Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.broker.History(r.Context())
	if err != nil {
		s.logger.Error("Failed to load history", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, broker.Response{Status: broker.StatusError, Message: err.Error()})
		return
	}
	if entries == nil {
		entries = []internal.RewriteEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("Request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
