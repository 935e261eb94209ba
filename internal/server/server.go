// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chanalytics/internal/config"
	"chanalytics/internal/domain/analytics"
	"chanalytics/internal/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server. When bus is nil the report
// websocket endpoint is not mounted.
func NewServer(
	cfg config.ServerConfig,
	analyticsService analytics.Service,
	bus handlers.Subscriber,
	eventsSubject string,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(requestIDWithLogging)
	router.Use(middleware.RealIP)
	router.Use(instrument)
	router.Use(middleware.Recoverer)

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// Routes
	router.Route("/api", func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(middleware.Timeout(cfg.RequestTimeout))
		}

		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Analytics API; every request runs the full pipeline
			r.Route("/analytics", func(r chi.Router) {
				if cfg.RateLimit > 0 {
					r.Use(httprate.LimitByIP(cfg.RateLimit, cfg.RateWindow))
				}
				r.Get("/", analyticsHandler.AnalyzeChannel)
				r.Post("/", analyticsHandler.AnalyzeRecord)
			})

			// Reports API
			r.Route("/reports", func(r chi.Router) {
				r.Get("/", analyticsHandler.ListReports)
				r.Get("/{id}", analyticsHandler.GetReport)
			})
		})
	})

	router.Handle("/metrics", promhttp.Handler())

	// WebSocket endpoint for report completion events
	if bus != nil {
		router.Get("/ws/reports", handlers.ReportWebSocketHandler(bus, eventsSubject, handlers.DefaultWebSocketConfig()))
	}

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
