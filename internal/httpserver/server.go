package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mehyar500/spavevisionapp/internal/health"
)

// Server exposes the last observed infrastructure status alongside
// prometheus metrics for the long-running serve mode.
type Server struct {
	addr           string
	metricsHandler http.Handler
	server         *http.Server

	mu      sync.RWMutex
	checked bool
	status  health.Status
	report  health.InfraReport
}

func New(addr string, metricsHandler http.Handler) *Server {
	return &Server{
		addr:           addr,
		metricsHandler: metricsHandler,
	}
}

// SetReport records the outcome of the most recent validation run.
func (s *Server) SetReport(report health.InfraReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checked = true
	s.status = report.Status
	s.report = report
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", s.handleHealthz)
	router.Get("/readyz", s.handleReadyz)
	router.Handle("/metrics", s.metricsHandler)

	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting status server", "address", s.addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	checked := s.checked
	report := s.report
	s.mu.RUnlock()

	code := http.StatusOK
	if !checked || report.Status == health.StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if !checked {
		json.NewEncoder(w).Encode(map[string]string{"status": "unknown"})
		return
	}
	json.NewEncoder(w).Encode(report)
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ready := s.checked && s.status != health.StatusUnhealthy
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]bool{"ready": false})
		return
	}
	json.NewEncoder(w).Encode(map[string]bool{"ready": true})
}
