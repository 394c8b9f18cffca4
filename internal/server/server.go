package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ternarybob/arbor"

	"github.com/dyike/ButterflyBrain/config"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg    *config.Config
	router *gin.Engine
	logger arbor.ILogger
}

func New(cfg *config.Config, analyst Analyst, logger arbor.ILogger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger), CORS(cfg.CORSOrigins))
	SetupRoutes(router, analyst, logger)
	return &Server{cfg: cfg, router: router, logger: logger}
}

func SetupRoutes(router *gin.Engine, analyst Analyst, logger arbor.ILogger) {
	router.GET("/", HandleStatus(analyst))
	router.POST("/deep_analysis", HandleDeepAnalysis(analyst, logger))
	router.POST("/chat", HandleChat(analyst, logger))
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
