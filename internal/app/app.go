package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/foodgram-backend/internal/data/db"
	apphttp "github.com/yungbote/foodgram-backend/internal/http"
	"github.com/yungbote/foodgram-backend/internal/observability"
	"github.com/yungbote/foodgram-backend/internal/platform/cache"
	"github.com/yungbote/foodgram-backend/internal/platform/gcp"
	"github.com/yungbote/foodgram-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Services Services
	Server   *apphttp.Server
	Metrics  *observability.Metrics

	cache      cache.Cache
	middleware Middleware
}

// New opens the database, runs migrations and wires every layer. Nothing listens until Run.
func New(log *logger.Logger) (*App, error) {
	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	theDB, err := db.Open(log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(theDB); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	c, err := cache.New(log)
	if err != nil {
		return nil, fmt.Errorf("init cache: %w", err)
	}
	bucket, err := gcp.NewBucketService(log)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("init bucket service: %w", err)
	}
	mediaDir, _ := gcp.LocalRoot(bucket)

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, bucket, c)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	metrics := observability.Init(log)
	handlerset := wireHandlers(log, theDB, serviceset)
	middleware := wireMiddleware(log, cfg, serviceset)
	server := apphttp.NewServer(":"+cfg.Port, wireRouter(log, cfg, metrics, handlerset, middleware, mediaDir))

	return &App{
		Log:        log,
		DB:         theDB,
		Cfg:        cfg,
		Repos:      reposet,
		Services:   serviceset,
		Server:     server,
		Metrics:    metrics,
		cache:      c,
		middleware: middleware,
	}, nil
}

// Run serves HTTP alongside the background janitors until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	shutdownOTel := observability.InitOTel(ctx, a.Log, observability.OtelConfig{
		ServiceName: a.Cfg.ServiceName,
		Environment: a.Cfg.Environment,
		Version:     a.Cfg.Version,
	})
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(flushCtx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}()

	a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
	a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
	a.Metrics.StartRedisCollector(ctx, a.Log, a.Cfg.RedisAddr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info("Server listening", "port", a.Cfg.Port)
		return a.Server.Run(gctx, a.Cfg.ShutdownGrace)
	})
	g.Go(func() error {
		a.middleware.LoginLimiter.Run(gctx)
		return nil
	})
	g.Go(func() error {
		a.purgeTokens(gctx)
		return nil
	})
	return g.Wait()
}

// purgeTokens deletes expired auth tokens every TokenPurgeEvery.
func (a *App) purgeTokens(ctx context.Context) {
	ticker := time.NewTicker(a.Cfg.TokenPurgeEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.Services.Auth.PurgeExpiredTokens(ctx)
			if err != nil {
				a.Log.Warn("token purge failed", "error", err)
				continue
			}
			if n > 0 {
				a.Log.Info("purged expired tokens", "count", n)
			}
		}
	}
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cache != nil {
		_ = a.cache.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
