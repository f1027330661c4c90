package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nguyentantai21042004/meeting-assistant/internal/config"
	"github.com/nguyentantai21042004/meeting-assistant/internal/logger"
	"github.com/nguyentantai21042004/meeting-assistant/internal/orchestrator"
	"github.com/nguyentantai21042004/meeting-assistant/internal/session"
)

type Server struct {
	engine *gin.Engine
	cfg    config.ServerConfig
	logger logger.Logger
}

// NewServer builds the gin engine. gatherer backs /metrics and may be nil.
func NewServer(cfg config.ServerConfig, store session.Store, orch orchestrator.Orchestrator, log logger.Logger, gatherer prometheus.Gatherer) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(log))
	engine.Use(MaxBodySize(cfg.MaxUploadMB << 20))
	engine.Use(CORS(cfg.AllowedOrigins))

	api := NewAPI(store, orch, log)
	registerRoutes(engine, api, gatherer)

	return &Server{engine: engine, cfg: cfg, logger: log}
}

// Handler exposes the engine for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "HTTP server listening on %s", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
