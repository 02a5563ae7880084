// Package server exposes categories, requests and monthly reports over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Veraticus/stockroom/internal/metrics"
	"github.com/Veraticus/stockroom/internal/requests"
	"github.com/Veraticus/stockroom/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Server serves the stockroom HTTP API.
type Server struct {
	store    service.Storage
	requests *requests.Service
	logger   *slog.Logger
	router   *gin.Engine
	location *time.Location
	now      func() time.Time
	newID    func() string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithClock overrides the clock used for new items and requests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithLocation sets the time zone that report months are cut in.
func WithLocation(loc *time.Location) Option {
	return func(s *Server) {
		s.location = loc
	}
}

// WithIDGenerator overrides ID generation for new items and requests.
func WithIDGenerator(newID func() string) Option {
	return func(s *Server) {
		s.newID = newID
	}
}

// New creates a Server over store.
func New(store service.Storage, opts ...Option) *Server {
	s := &Server{
		store:    store,
		logger:   slog.Default(),
		location: time.UTC,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.requests = requests.NewService(store,
		requests.WithLogger(s.logger),
		requests.WithClock(s.now),
		requests.WithIDGenerator(s.newID),
	)
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		s.logger.Error("recovered from panic", "panic", recovered, "path", c.Request.URL.Path)
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	router.Use(s.observe())

	router.GET("/healthz", s.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	addCategoryRoutes(v1, s)
	addItemRoutes(v1, s)
	addRequestRoutes(v1, s)
	addReportRoutes(v1, s)

	return router
}

func addCategoryRoutes(rg *gin.RouterGroup, s *Server) {
	categories := rg.Group("/categories")
	{
		categories.GET("", s.listCategories)
		categories.GET("/normalize", s.normalizeCategory)
		categories.GET("/equal", s.equalCategories)
	}
}

func addItemRoutes(rg *gin.RouterGroup, s *Server) {
	items := rg.Group("/items")
	{
		items.GET("", s.listItems)
		items.POST("", s.createItem)
		items.GET("/:id", s.getItem)
	}
}

func addRequestRoutes(rg *gin.RouterGroup, s *Server) {
	reqs := rg.Group("/requests")
	{
		reqs.GET("", s.listRequests)
		reqs.POST("", s.createRequest)
		reqs.GET("/:id", s.getRequest)
		reqs.POST("/:id/approve", s.approveRequest)
		reqs.POST("/:id/reject", s.rejectRequest)
		reqs.POST("/:id/complete", s.completeRequest)
		reqs.DELETE("/:id", s.cancelRequest)
	}
}

func addReportRoutes(rg *gin.RouterGroup, s *Server) {
	reports := rg.Group("/reports/:year/:month")
	{
		reports.GET("/summary", s.reportSummary)
		reports.GET("/export/:format", s.reportExport)
	}
}

// observe logs every request and records HTTP metrics by route template.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := metrics.NewTimer()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		duration := timer.Duration()
		metrics.RecordHTTPRequest(c.Request.Method, route, status, duration)

		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", duration)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
