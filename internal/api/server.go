package api

import (
	"net/http"
	"time"

	classifyapi "github.com/futig/ticket-classifier/internal/api/classify"
	"github.com/futig/ticket-classifier/internal/api/docs"
	"github.com/futig/ticket-classifier/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RequestTimeout bounds one classification round trip, model call included
const RequestTimeout = 120 * time.Second

// SetupRouter creates and configures the HTTP router
func SetupRouter(classifyHandler *classifyapi.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(chimiddleware.Timeout(RequestTimeout))

	r.Handle("/metrics", promhttp.Handler())

	// Swagger documentation endpoints
	r.Mount(docs.Prefix, docs.Router())

	classifyapi.RegisterRoutes(r, classifyHandler)

	return r
}
