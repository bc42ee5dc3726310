// Package http provides the HTTP adapter over the service layer. It is a
// thin translation layer; all domain rules live in the services.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"handoverhub/internal/service"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Services bundles the service dependencies of the HTTP layer.
type Services struct {
	Handovers *service.HandoverService
	Tasks     *service.TaskService
	Templates *service.TemplateService
	Help      *service.HelpService
	Reports   *service.ReportService
	Documents *service.DocumentService
	Insights  *service.InsightService
	Users     *service.UserService
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	services   Services
	logger     *zap.Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(config ServerConfig, services Services, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	server := &Server{
		config:   config,
		router:   router,
		services: services,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()
	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(corsMiddleware())
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+actorHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.services, s.logger)

	s.router.GET("/health", handlers.HealthCheck)

	api := s.router.Group("/api/v1")
	{
		api.POST("/handovers", handlers.CreateHandover)
		api.GET("/handovers", handlers.ListHandovers)
		api.GET("/handovers/:id", handlers.GetHandover)
		api.PUT("/handovers/:id/successor", handlers.AssignSuccessor)
		api.POST("/handovers/:id/submit", handlers.SubmitForReview)
		api.POST("/handovers/:id/reopen", handlers.ReopenHandover)
		api.POST("/handovers/:id/approve", handlers.ApproveHandover)
		api.POST("/handovers/:id/templates/:templateId", handlers.ApplyTemplate)
		api.POST("/handovers/:id/assess", handlers.AssessHandover)
		api.GET("/handovers/:id/tasks", handlers.ListTasks)
		api.GET("/handovers/:id/help-requests", handlers.ListHelpRequests)
		api.GET("/handovers/:id/documents", handlers.ListDocuments)
		api.POST("/handovers/:id/documents", handlers.UploadDocument)
		api.GET("/handovers/:id/activity", handlers.ListActivity)

		api.GET("/tasks/:id", handlers.GetTask)
		api.PUT("/tasks/:id", handlers.UpdateTask)
		api.PUT("/tasks/:id/status", handlers.SetTaskStatus)
		api.POST("/tasks/:id/acknowledge", handlers.AcknowledgeTask)
		api.POST("/tasks/:id/notes", handlers.AddTaskNote)
		api.POST("/tasks/:id/insights", handlers.AddTaskInsight)
		api.POST("/tasks/:id/help-requests", handlers.CreateHelpRequest)
		api.PUT("/insights/:id", handlers.UpdateTaskInsight)

		api.GET("/templates", handlers.ListTemplates)
		api.POST("/templates", handlers.CreateTemplate)

		api.GET("/users", handlers.ListUsers)
		api.POST("/users", handlers.RegisterUser)
		api.GET("/users/:id", handlers.GetUser)

		api.POST("/help-requests/:id/respond", handlers.RespondHelpRequest)
		api.POST("/help-requests/:id/resolve", handlers.ResolveHelpRequest)

		api.GET("/dashboard", handlers.GetDashboard)
		api.GET("/reports/pivot", handlers.GetPivot)
		api.GET("/reports/pivot/export", handlers.ExportPivot)

		api.GET("/documents/:id/download", handlers.DownloadDocument)
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", zap.Error(err))
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
