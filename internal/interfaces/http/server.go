// Package http provides the HTTP adapter over the core stores and the
// invoice assembler. It is thin presentation glue: every handler translates a
// request into one core call and maps the resulting error to a status code.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rmarban/invoicedesk/internal/assembler"
	"github.com/rmarban/invoicedesk/internal/clients"
	"github.com/rmarban/invoicedesk/internal/ledger"
	"github.com/rmarban/invoicedesk/internal/report"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	handlers   *Handlers
	logger     *zap.Logger
}

// NewServer creates a new HTTP server over the core components
func NewServer(
	config ServerConfig,
	clientStore *clients.Store,
	invoiceLedger *ledger.Ledger,
	asm *assembler.Assembler,
	exporter *report.ExcelExporter,
	outputDir string,
	logger *zap.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	server := &Server{
		config:   config,
		router:   router,
		handlers: NewHandlers(clientStore, invoiceLedger, asm, exporter, outputDir, logger),
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.HealthCheck)

	api := s.router.Group("/api/v1")
	{
		api.GET("/clients", s.handlers.ListClients)
		api.POST("/clients", s.handlers.CreateClient)
		api.GET("/clients/:id", s.handlers.GetClient)
		api.PUT("/clients/:id", s.handlers.UpdateClient)
		api.DELETE("/clients/:id", s.handlers.DeleteClient)

		api.GET("/invoices", s.handlers.ListInvoices)
		api.GET("/invoices/export", s.handlers.ExportInvoices)
		api.POST("/invoices/generate", s.handlers.GenerateInvoice)
		api.GET("/invoices/:invoice_id", s.handlers.GetInvoice)
		api.PATCH("/invoices/:invoice_id/status", s.handlers.UpdateInvoiceStatus)
		api.DELETE("/invoices/:invoice_id", s.handlers.DeleteInvoice)
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("HTTP server starting", zap.String("addr", addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the gin engine for tests
func (s *Server) Router() http.Handler {
	return s.router
}
