// Package httpapi exposes the dashboard state machine and its display
// projections over REST, alongside health, readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/citywatch/crime-prediction-dashboard/internal/domain"
	"github.com/citywatch/crime-prediction-dashboard/internal/orchestrator"
	"github.com/citywatch/crime-prediction-dashboard/internal/view"
)

// Dashboard is the orchestrator surface the API needs.
type Dashboard interface {
	Submit(ctx context.Context, params domain.QueryParameters) (orchestrator.Snapshot, error)
	Snapshot() orchestrator.Snapshot
	CheckReadiness(ctx context.Context) error
}

// Server exposes the dashboard REST API.
type Server struct {
	httpServer  *http.Server
	dashboard   Dashboard
	logger      *slog.Logger
	defaultTopN int
}

// NewServer creates the HTTP server with all dashboard and operational
// routes.
func NewServer(addr string, dashboard Dashboard, corsOrigins []string, defaultTopN int, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(corsOrigins))

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dashboard:   dashboard,
		logger:      logger,
		defaultTopN: defaultTopN,
	}

	router.GET("/healthz", s.handleHealth)
	router.GET("/readyz", s.handleReady)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/predictions/query", s.handleQuery)
		api.GET("/predictions", s.handleList)
		api.GET("/predictions/markers", s.handleMarkers)
		api.GET("/state", s.handleState)
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// queryRequest is the submit body. All three fields mirror the form inputs;
// top_n falls back to the configured default when omitted.
type queryRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
	TopN int    `json:"top_n"`
}

func (s *Server) handleQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON with date, time, and top_n"})
		return
	}
	if req.TopN == 0 {
		req.TopN = s.defaultTopN
	}

	params := domain.QueryParameters{Date: req.Date, Time: req.Time, TopN: req.TopN}
	snap, err := s.dashboard.Submit(c.Request.Context(), params)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": errorMessage(err, snap)})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleList(c *gin.Context) {
	snap := s.dashboard.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"rows":       view.BuildList(snap.Records),
		"state":      snap.State,
		"fetched_at": snap.FetchedAt,
	})
}

func (s *Server) handleMarkers(c *gin.Context) {
	snap := s.dashboard.Snapshot()
	c.JSON(http.StatusOK, view.BuildMapView(snap.Records, snap.Center, snap.Zoom))
}

func (s *Server) handleState(c *gin.Context) {
	snap := s.dashboard.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"state":        snap.State,
		"query":        snap.Query,
		"record_count": len(snap.Records),
		"center":       snap.Center,
		"zoom":         snap.Zoom,
		"error":        snap.Error,
		"fetched_at":   snap.FetchedAt,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.dashboard.CheckReadiness(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// statusFor maps the fetch error taxonomy onto HTTP codes: 400 for input
// problems, 409 while a fetch is in flight, 502 for anything upstream.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingInput):
		return http.StatusBadRequest
	case errors.Is(err, orchestrator.ErrFetchInFlight):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

// errorMessage prefers the snapshot's single-line display message and falls
// back to the raw error for cases that never touch display state.
func errorMessage(err error, snap orchestrator.Snapshot) string {
	if errors.Is(err, orchestrator.ErrFetchInFlight) {
		return err.Error()
	}
	if snap.Error != "" {
		return snap.Error
	}
	return err.Error()
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 1 && origins[0] == "*" {
		return cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:    []string{"Origin", "Content-Type"},
			ExposeHeaders:   []string{"Content-Length"},
			MaxAge:          12 * time.Hour,
		})
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
