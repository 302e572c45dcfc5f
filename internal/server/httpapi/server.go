// Package httpapi serves the development notification gateway: the JSON
// endpoints the onboarding client posts to, an inspection listing, and the
// liveness/readiness/drain probes.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/atomist-global-seeds/blockstack-browser/internal/client/client"
	"github.com/atomist-global-seeds/blockstack-browser/internal/logging"
	"github.com/flashbots/go-utils/httplogger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/atomic"
)

const NotificationsPath = "/notifications"

type Config struct {
	ListenAddr string
	Log        *logging.SlogLogger

	DrainDuration            time.Duration
	GracefulShutdownDuration time.Duration
	ReadTimeout              time.Duration
	WriteTimeout             time.Duration
}

type Server struct {
	cfg     *Config
	isReady atomic.Bool
	log     *logging.SlogLogger
	handler *Handler
	srv     *http.Server
}

func New(cfg *Config, handler *Handler) *Server {
	s := &Server{cfg: cfg, log: cfg.Log, handler: handler}
	s.isReady.Store(true)

	s.srv = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Router returns the gateway's routes.
func (s *Server) Router() http.Handler {
	mux := chi.NewRouter()

	mux.With(s.httpLogger).Post(client.VerifyPath, s.handler.HandleVerify)
	mux.With(s.httpLogger).Post(client.RecoveryPath, s.handler.HandleRecovery)
	mux.With(s.httpLogger).Post(client.RestorePath, s.handler.HandleRestore)
	mux.With(s.httpLogger).Get(NotificationsPath, s.handler.HandleList)

	mux.With(s.httpLogger).Get("/livez", s.handleLivenessCheck)
	mux.With(s.httpLogger).Get("/readyz", s.handleReadinessCheck)
	mux.With(s.httpLogger).Get("/drain", s.handleDrain)
	mux.With(s.httpLogger).Get("/undrain", s.handleUndrain)

	return mux
}

func (s *Server) httpLogger(next http.Handler) http.Handler {
	return httplogger.LoggingMiddlewareSlog(s.log.Slog(), next)
}

func (s *Server) handleLivenessCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) handleReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if !s.isReady.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleDrain(w http.ResponseWriter, r *http.Request) {
	if !s.isReady.Swap(false) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "already draining"})
		return
	}
	s.log.Info(r.Context(), "server marked as not ready")
	writeJSON(w, http.StatusOK, map[string]string{"status": "draining"})
}

func (s *Server) handleUndrain(w http.ResponseWriter, r *http.Request) {
	if s.isReady.Swap(true) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "already ready"})
		return
	}
	s.log.Info(r.Context(), "server marked as ready")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Run serves until ctx is cancelled, then drains and shuts down. A listener
// failure is returned immediately.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "starting HTTP server", "listenAddress", ln.Addr().String())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.isReady.Store(false)
	if s.cfg.DrainDuration > 0 {
		s.log.Info(ctx, "draining before shutdown", "duration", s.cfg.DrainDuration.String())
		time.Sleep(s.cfg.DrainDuration)
	}
	return s.Shutdown()
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.GracefulShutdownDuration)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		s.log.Error(ctx, "graceful HTTP server shutdown failed", "error", err)
		return err
	}
	s.log.Info(ctx, "HTTP server gracefully stopped")
	return nil
}
