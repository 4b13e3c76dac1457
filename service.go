package saiPipeline

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/saiset-co/sai-pipeline/cache"
	"github.com/saiset-co/sai-pipeline/config"
	"github.com/saiset-co/sai-pipeline/handlers"
	"github.com/saiset-co/sai-pipeline/logger"
	"github.com/saiset-co/sai-pipeline/metrics"
	"github.com/saiset-co/sai-pipeline/middleware"
	"github.com/saiset-co/sai-pipeline/pipeline"
	"github.com/saiset-co/sai-pipeline/server"
	"github.com/saiset-co/sai-pipeline/types"
)

// Service wires configuration, logging, metrics, cache and the HTTP
// server into a single lifecycle.
type Service struct {
	ctx      context.Context
	cancel   context.CancelFunc
	config   types.ConfigManager
	logger   types.Logger
	metrics  types.MetricsManager
	cache    types.CacheManager
	handlers types.Handlers
	router   *server.Router
	server   *server.FastHTTPServer
	running  int32
}

type Option func(*Service)

// WithHandlers replaces the default lifecycle callbacks.
func WithHandlers(h types.Handlers) Option {
	return func(s *Service) {
		s.handlers = h
	}
}

func NewService(configPath string, opts ...Option) (*Service, error) {
	ctx, cancel := context.WithCancel(context.Background())

	configManager, err := config.NewManager(configPath)
	if err != nil {
		cancel()
		return nil, err
	}

	cfg := configManager.GetConfig()

	log, err := logger.NewDefaultLogger(cfg.Logger)
	if err != nil {
		cancel()
		return nil, err
	}

	svc := &Service{
		ctx:    ctx,
		cancel: cancel,
		config: configManager,
		logger: log,
		router: server.NewRouter(),
	}

	if cfg.Metrics.Enabled {
		prom, err := metrics.NewPrometheusMetrics(cfg.Metrics)
		if err != nil {
			cancel()
			return nil, err
		}
		svc.metrics = prom

		scrape := prom.HTTPHandler()
		if err := svc.router.GET(cfg.Metrics.Path, func(ctx *types.RequestCtx) {
			scrape(ctx.RequestCtx)
		}); err != nil {
			cancel()
			return nil, err
		}
	} else {
		svc.metrics = metrics.NewNoopMetrics()
	}

	if cfg.Cache.Enabled {
		cacheManager, err := cache.NewCacheManager(ctx, log, cfg.Cache)
		if err != nil {
			cancel()
			return nil, err
		}
		svc.cache = cacheManager
	}

	svc.handlers = handlers.NewDefault(log)

	for _, opt := range opts {
		opt(svc)
	}

	httpServer, err := server.NewHTTPServer(ctx, configManager, log, svc.router)
	if err != nil {
		cancel()
		return nil, err
	}
	svc.server = httpServer

	return svc, nil
}

func (s *Service) Start() error {
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return types.ErrServiceIsRunning
	}

	g := new(errgroup.Group)

	if s.cache != nil {
		g.Go(s.cache.Start)
	}
	g.Go(s.server.Start)

	if err := g.Wait(); err != nil {
		atomic.StoreInt32(&s.running, 0)
		return err
	}

	cfg := s.config.GetConfig()
	s.logger.Info("service started",
		zap.String("name", cfg.Name),
		zap.String("version", cfg.Version))

	return nil
}

func (s *Service) Stop() error {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return types.ErrServiceIsNotRunning
	}

	defer s.cancel()

	if err := s.server.Stop(); err != nil {
		s.logger.Error("failed to stop HTTP server", zap.Error(err))
	}

	if s.cache != nil {
		if err := s.cache.Stop(); err != nil {
			s.logger.Error("failed to stop cache", zap.Error(err))
		}
	}

	s.logger.Info("service stopped")

	return nil
}

func (s *Service) IsRunning() bool {
	return atomic.LoadInt32(&s.running) == 1
}

func (s *Service) Router() *server.Router {
	return s.router
}

func (s *Service) Logger() types.Logger {
	return s.logger
}

func (s *Service) Metrics() types.MetricsManager {
	return s.metrics
}

func (s *Service) Cache() types.CacheManager {
	return s.cache
}

func (s *Service) GetConfig() *types.ServiceConfig {
	return s.config.GetConfig()
}

// Pipeline starts a request pipeline bound to the service stack.
// Request id tagging is always on, token auth when configured.
func (s *Service) Pipeline(route string) *pipeline.Pipeline {
	p := pipeline.New(s.handlers,
		pipeline.WithLogger(s.logger),
		pipeline.WithMetrics(s.metrics),
		pipeline.WithRoute(route))

	p.Use(middleware.RequestID())

	cfg := s.config.GetConfig()
	if cfg.Auth != nil && cfg.Auth.Enabled {
		p.Use(middleware.TokenAuth(cfg.Auth, s.logger))
	}

	return p
}
