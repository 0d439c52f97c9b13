// Package routing assembles the HTTP surface of the LegalEase server: the
// middleware stack, the AI endpoints, health, metrics and the embedded
// front-end.
package routing

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/teilomillet/legalease/config"
	"github.com/teilomillet/legalease/errors"
	"github.com/teilomillet/legalease/server/handlers"
	"github.com/teilomillet/legalease/server/metrics"
	"github.com/teilomillet/legalease/server/middleware"
	"github.com/teilomillet/legalease/web"
	"go.uber.org/zap"
)

// Router handles HTTP routing for the server.
type Router struct {
	router  chi.Router
	handler *handlers.Handler
	metrics *metrics.Metrics
	logger  *zap.Logger
	cfg     *config.Config
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status          string `json:"status"`
	ModelConfigured bool   `json:"model_configured"`
}

// NewRouter creates a router with the global middleware stack and all
// routes mounted. m must not be nil.
func NewRouter(cfg *config.Config, h *handlers.Handler, m *metrics.Metrics, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{
		router:  chi.NewRouter(),
		handler: h,
		metrics: m,
		logger:  logger,
		cfg:     cfg,
	}

	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.Logging(logger))
	r.router.Use(middleware.Recovery(logger))
	r.router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.router.Use(middleware.PrometheusMetrics(m))

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	static := web.Static()
	r.router.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFileFS(w, req, static, web.IndexFile)
	})
	r.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static)))

	r.router.Get("/health", r.healthCheckHandler)
	registerMetricsRoutes(r.router, r.metrics)

	r.handler.Mount(r.router)

	r.router.NotFound(func(w http.ResponseWriter, req *http.Request) {
		errors.ErrorWithType(w, "Not found", errors.ValidationError, http.StatusNotFound)
	})
	r.router.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		errors.ErrorWithType(w, "Method not allowed", errors.ValidationError, http.StatusMethodNotAllowed)
	})
}

// healthCheckHandler reports liveness and whether AI endpoints can serve.
func (r *Router) healthCheckHandler(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(HealthResponse{
		Status:          "ok",
		ModelConfigured: r.handler.ModelConfigured(),
	}); err != nil {
		r.logger.Error("failed to encode health response", zap.Error(err))
	}
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
