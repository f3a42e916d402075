package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/dealdesk/backend/api/handler"
	"github.com/dealdesk/backend/internal/config"
	"github.com/dealdesk/backend/internal/infrastructure/monitor"
	pgInfra "github.com/dealdesk/backend/internal/infrastructure/postgres"
	"github.com/dealdesk/backend/internal/middleware"
	"github.com/dealdesk/backend/internal/router"
	"github.com/dealdesk/backend/internal/services/lifecycle"
	"github.com/dealdesk/backend/pkg/httpcontext"
	"github.com/dealdesk/backend/pkg/logger"
	"github.com/dealdesk/backend/repository/postgres"
	dealsUC "github.com/dealdesk/backend/usecase/deals"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pgInfra.Close(pool, zapLogger)
		return nil
	})

	mon := monitor.New(pool, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	dealRepo := postgres.NewDealRepository(pool)
	dealUseCase := dealsUC.New(dealRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Deal:   apiHandler.NewDealHandler(dealUseCase, ctxAdapter, zapLogger, cfg.IsDevelopment()),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	r := router.New(handlers)

	handler := r.Handler
	handler = middleware.RateLimit(cfg.RateLimit.Max, cfg.RateLimit.Window, zapLogger)(handler)
	handler = middleware.CORS(cfg.AllowedOrigin())(handler)

	server := &fasthttp.Server{
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
