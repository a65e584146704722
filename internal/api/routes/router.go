package routes

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/openlobby/registry/internal/api/handlers"
	"github.com/openlobby/registry/internal/auth"
	"github.com/openlobby/registry/internal/service"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Services bundles everything the HTTP surface needs.
type Services struct {
	Registry   *service.RegistryService
	Matchmaker *service.MatchmakingService
	FastTokens *service.FastTokenService
	Events     *service.Broadcaster
	Allowlist  *auth.Allowlist
}

// Options tunes the shared middleware.
type Options struct {
	RateLimit  int           // requests per RateWindow per client IP, 0 disables
	RateWindow time.Duration
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, opts Options, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", healthCheckHandler)

	// Initialize handlers
	registryHandler := handlers.NewRegistryHandler(svc.Registry, svc.Allowlist, logger)
	matchmakingHandler := handlers.NewMatchmakingHandler(svc.Matchmaker, logger)
	tokenHandler := handlers.NewFastTokenHandler(svc.FastTokens, logger)
	eventsHandler := handlers.NewEventsHandler(svc.Events, logger)

	// Registry endpoints
	mux.HandleFunc("POST /v1/update", registryHandler.Update)
	mux.HandleFunc("GET /v1/list", registryHandler.List)
	mux.HandleFunc("GET /v1/info/{server_id}", registryHandler.Info)

	// Matchmaking endpoints
	mux.HandleFunc("GET /v1/new", matchmakingHandler.NewGet)
	mux.HandleFunc("POST /v1/new", matchmakingHandler.NewPost)

	// Fast token endpoints
	mux.HandleFunc("POST /v1/token", tokenHandler.Add)
	mux.HandleFunc("GET /v1/token/{code}", tokenHandler.Fetch)

	// WebSocket endpoints
	mux.HandleFunc("GET /v1/events", eventsHandler.Stream)

	// API Documentation endpoints
	mux.HandleFunc("GET /{$}", handlers.RedirectDocs)
	mux.HandleFunc("GET /v1", handlers.RedirectDocs)
	mux.HandleFunc("GET /v1.yml", handlers.ServeOpenAPISpec)
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/v1.yml"),
	))

	// Apply middleware
	return loggingMiddleware(logger, rateLimitMiddleware(opts, corsMiddleware(mux)))
}

// healthCheckHandler returns the health status of the API
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	})
}

// loggingMiddleware logs HTTP requests with structured logging
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)

		logger.InfoContext(r.Context(),
			"HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration_ms", duration.Milliseconds(),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker interface for WebSocket support
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return h.Hijack()
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, token")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
