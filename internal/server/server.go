package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/martdesk/martdesk/internal/gate"
	"github.com/martdesk/martdesk/internal/handler"
	"github.com/martdesk/martdesk/internal/model"
	"github.com/martdesk/martdesk/internal/server/middleware"
	"github.com/martdesk/martdesk/internal/store"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	LoginRateLimit  int // login attempts per IP per minute
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8080,
		ShutdownTimeout: 30 * time.Second,
		CORSOrigins:     []string{"*"},
		LoginRateLimit:  20,
	}
}

// Server is the top-level HTTP server for MartDesk. It owns the chi router,
// the slot store, and the session gate.
type Server struct {
	cfg        Config
	router     chi.Router
	store      store.Store
	gate       *gate.Gate
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a Server with all routes and middleware wired, ready to
// listen. Call ListenAndServe to start accepting connections.
func New(cfg Config, st store.Store, g *gate.Gate, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		store:  st,
		gate:   g,
		logger: logger,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(chimw.Compress(5))

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	sessionHandler := handler.NewSessionHandler(s.gate, s.logger)
	adminHandler := handler.NewAdminHandler(s.gate.Directory())

	r.Route("/api/v1", func(r chi.Router) {
		// Session gate: login is rate-limited; restore and logout are not.
		r.With(middleware.RateLimit(s.cfg.LoginRateLimit)).Post("/session", sessionHandler.Login)
		r.Get("/session", sessionHandler.Restore)
		r.Delete("/session", sessionHandler.Logout)

		// Directory management requires an active Super Admin session.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(s.gate))
			r.Use(middleware.RequireRole(model.RoleSuperAdmin))

			r.Get("/admin", adminHandler.ListAdmins)
			r.Post("/admin", adminHandler.CreateAdmin)
			r.Get("/admin/{adminID}", adminHandler.GetAdmin)
			r.Put("/admin/{adminID}/status", adminHandler.UpdateStatus)
			r.Put("/admin/{adminID}/password", adminHandler.UpdatePassword)
		})
	})

	s.router = r
}

// handleHealthz is a liveness probe. Returns 200 if the process is running.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleReadyz reports whether the slot store is reachable. A missing slot
// still counts as reachable; only a store fault degrades readiness.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	status, httpStatus := "ok", http.StatusOK
	if _, err := s.store.Get(r.Context(), store.SlotAdminUsers); err != nil && !errors.Is(err, store.ErrNotFound) {
		status, httpStatus = "degraded", http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	w.Write([]byte(`{"status":"` + status + `"}`))
}

// ListenAndServe starts the HTTP server and blocks until a SIGINT or SIGTERM
// is received, then drains in-flight requests before returning.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Router returns the underlying chi router, useful for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler, delegating to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
