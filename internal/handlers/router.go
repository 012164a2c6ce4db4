package handlers

import (
	"net/http"
	"time"

	"tripboard-backend/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterDeps bundles everything the router mounts
type RouterDeps struct {
	Graph     *GraphHandler
	Canvas    *CanvasHandler
	AI        *AIHandler
	Itinerary *ItineraryHandler
	Settings  *SettingsHandler

	Logger        *zap.Logger
	Registry      *prometheus.Registry
	EnableCORS    bool
	EnableMetrics bool
}

// NewRouter assembles the chi router with middleware and all API routes
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(deps.Logger))
	r.Use(middleware.Recoverer)

	if deps.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.EnableMetrics {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", deps.Graph.GetGraph)

		r.Post("/nodes", deps.Graph.CreateNode)
		r.Get("/nodes/{nodeId}", deps.Graph.GetNode)
		r.Patch("/nodes/{nodeId}", deps.Graph.UpdateNode)
		r.Delete("/nodes/{nodeId}", deps.Graph.DeleteNode)
		r.Delete("/nodes/{nodeId}/connections", deps.Graph.DeleteNodeConnections)
		r.Post("/nodes/{nodeId}/expand", deps.AI.ExpandNode)
		r.Post("/nodes/{nodeId}/suggest", deps.AI.SuggestNextStop)

		r.Post("/connections", deps.Graph.CreateConnection)

		r.Get("/canvas", deps.Canvas.GetState)
		r.Get("/canvas/minimap", deps.Canvas.GetMinimap)
		r.Post("/canvas/events", deps.Canvas.PostEvent)
		r.Post("/canvas/zoom-in", deps.Canvas.ZoomIn)
		r.Post("/canvas/zoom-out", deps.Canvas.ZoomOut)
		r.Post("/canvas/reset", deps.Canvas.ResetView)

		r.Get("/itinerary", deps.Itinerary.GetSchedule)
		r.Get("/budget", deps.Itinerary.GetBudget)
		r.Get("/legs", deps.Itinerary.GetLegs)

		r.Post("/trip/analysis", deps.AI.AnalyzeTrip)
		r.Get("/ai/pending", deps.AI.GetPending)

		r.Get("/settings/ai", deps.Settings.GetSettings)
		r.Put("/settings/ai", deps.Settings.UpdateSettings)
	})

	return r
}

// requestLogger logs one line per request with zap
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
