// Package httpapi exposes the chat pipeline over HTTP: a JSON chat
// endpoint, an SSE streaming variant, session reset, and a status probe.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sandevgo/kpigpt/internal/config"
	"github.com/sandevgo/kpigpt/internal/service/chat"
	"github.com/sandevgo/kpigpt/pkg/log"
)

type Server struct {
	srv          *http.Server
	orchestrator *chat.Orchestrator
}

func NewServer(ctx context.Context, cfg *config.HTTPConfig, orchestrator *chat.Orchestrator) *Server {
	if !config.IsDebug() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(ctx))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.AllowOrigins
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept", "Cache-Control", "Last-Event-ID"}
	corsCfg.MaxAge = 12 * time.Hour
	if len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*" {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
	}
	router.Use(cors.New(corsCfg))

	s := &Server{orchestrator: orchestrator}

	api := router.Group("/api")
	api.POST("/chat", s.handleChat)
	api.POST("/chat/stream", s.handleChatStream)
	api.POST("/session/reset", s.handleSessionReset)
	api.GET("/system/status", s.handleSystemStatus)

	s.srv = &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}
	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.srv.Addr).Msg("starting http server")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

// requestLogger carries the app logger into handler contexts and logs
// one line per request.
func requestLogger(base context.Context) gin.HandlerFunc {
	logger := log.FromCtx(base)
	return func(c *gin.Context) {
		start := time.Now()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))
		c.Next()
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	}
}
