// Package hpaapi is the HTTP query server fronting a loaded hpa.Map: a path
// endpoint, health and stats endpoints, and a Prometheus /metrics endpoint.
package hpaapi

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/azybler/hpa/pkg/hpaerr"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	MaxConcurrent int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(addr string) ServerConfig {
	return ServerConfig{
		Addr:          addr,
		ReadTimeout:   5 * time.Second,
		WriteTimeout:  5 * time.Second,
		MaxConcurrent: runtime.NumCPU() * 2,
	}
}

// NewServer creates an HTTP server with all routes and middleware.
func NewServer(cfg ServerConfig, handlers *Handlers) *http.Server {
	mux := http.NewServeMux()

	sem := make(chan struct{}, cfg.MaxConcurrent)

	// Routes are registered by path and the method is checked here, since
	// the module's Go version does not enable method-qualified mux patterns.
	only := func(method string, h http.Handler) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method != method {
				writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
				return
			}
			h.ServeHTTP(w, r)
		}
	}

	mux.HandleFunc("/api/v1/path", only(http.MethodPost, withMiddleware(handlers.HandlePath, sem)))
	mux.HandleFunc("/api/v1/health", only(http.MethodGet, withMiddleware(handlers.HandleHealth, sem)))
	mux.HandleFunc("/api/v1/stats", only(http.MethodGet, withMiddleware(handlers.HandleStats, sem)))
	mux.Handle("/metrics", only(http.MethodGet, promhttp.Handler()))

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// ListenAndServe starts the server and blocks until a shutdown signal.
func ListenAndServe(srv *http.Server) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("hpaapi: listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("hpaapi: received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

// withMiddleware wraps a handler with security headers, concurrency
// limiting, request logging, and panic recovery. An InvariantViolation
// panic is reported as a 500 rather than crashing the server: the engine
// bug is real, but one corrupted query should not take down the process.
func withMiddleware(handler http.HandlerFunc, sem chan struct{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")

		select {
		case sem <- struct{}{}:
			defer func() { <-sem }()
		default:
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusServiceUnavailable, "service_unavailable")
			return
		}

		defer func() {
			if rec := recover(); rec != nil {
				if iv, ok := rec.(*hpaerr.InvariantViolation); ok {
					log.Printf("hpaapi: %s %s: %v", r.Method, r.URL.Path, iv)
				} else {
					log.Printf("hpaapi: %s %s: panic: %v", r.Method, r.URL.Path, rec)
				}
				writeError(w, http.StatusInternalServerError, "internal_error")
			}
		}()

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		start := time.Now()
		handler(w, r.WithContext(ctx))
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start).Round(time.Microsecond))
	}
}
