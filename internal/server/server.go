// Package server exposes the naming engine over HTTP so a name can be
// previewed without touching any file.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/backmassage/datestamp/internal/config"
	"github.com/backmassage/datestamp/internal/logging"
	"github.com/backmassage/datestamp/internal/naming"
)

// Server is the HTTP preview service.
type Server struct {
	router *gin.Engine
	opts   naming.Options
	addr   string
	log    *logging.Logger
}

// NewServer builds the router. Rule toggles come from cfg.
func NewServer(cfg *config.Config, log *logging.Logger) *Server {
	if !cfg.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{
		router: gin.New(),
		opts:   cfg.RuleOptions(),
		addr:   cfg.ListenAddr,
		log:    log,
	}
	s.router.Use(gin.Recovery(), requestID(), s.accessLog())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		success(c, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	{
		api.POST("/normalize", s.normalize)
		api.POST("/fix", s.fix)
	}
}

// Handler returns the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info("Listening on http://%s", s.addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("Server stopped")
	return nil
}

// requestID tags every response with an X-Request-ID, keeping a caller's id.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("%s %s %d %s [%s]", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start).Round(time.Microsecond), c.GetString("request_id"))
	}
}
