package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/bibekchandsah/fling/internal/bytesize"
	"github.com/bibekchandsah/fling/internal/config"
	"github.com/bibekchandsah/fling/pkg/share"
)

// shutdownGrace bounds how long in-flight transfers may drain on shutdown.
const shutdownGrace = 10 * time.Second

// Server serves the share over HTTP.
type Server struct {
	cfg     config.Config
	store   *share.Store
	logger  *log.Logger
	counter *bytesize.Counter
}

// New creates a Server. The configuration is treated as immutable.
func New(cfg config.Config, store *share.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Server{
		cfg:     cfg,
		store:   store,
		logger:  logger,
		counter: &bytesize.Counter{},
	}
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleListing)
	r.Get("/*", s.handleDownload)

	return r
}

// Run listens on the configured address and serves until ctx is cancelled,
// then drains in-flight transfers.
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprintf("%d", s.cfg.Port))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	ln = newBufferedListener(ln, int(s.cfg.SocketBuffer))

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       s.cfg.ConnTimeout,
	}

	started := time.Now()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Serve(ln)
	}()

	s.logger.WithFields(log.Fields{
		"addr":   addr,
		"dir":    s.store.Root(),
		"preset": s.cfg.Preset,
		"chunk":  bytesize.Format(s.cfg.ChunkSize),
	}).Info("server started")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		s.logger.WithFields(log.Fields{
			"transfers": s.counter.Transfers(),
			"bytes":     bytesize.Format(s.counter.Bytes()),
			"uptime":    bytesize.FormatDuration(time.Since(started)),
		}).Info("server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: serve: %w", err)
	}
}

// logRequests logs each request after completion.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"bytes":    ww.BytesWritten(),
			"remote":   r.RemoteAddr,
			"duration": time.Since(start).Round(time.Millisecond).String(),
		}).Info("request")
	})
}
