package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jengzang/polar-backend-go/internal/api"
	"github.com/jengzang/polar-backend-go/internal/config"
	"github.com/jengzang/polar-backend-go/internal/database"
	"github.com/jengzang/polar-backend-go/internal/handler"
	"github.com/jengzang/polar-backend-go/internal/middleware"
	"github.com/jengzang/polar-backend-go/internal/observability"
	"github.com/jengzang/polar-backend-go/internal/repository"
	"github.com/jengzang/polar-backend-go/internal/service"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化数据库
	dbConfig := database.Config{
		Path: cfg.DBPath,
	}
	if err := database.Init(dbConfig); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()
	db := database.GetDB()

	// 执行迁移
	mm := database.NewMigrationManager(db, database.MigrationSource(cfg.MigrationsPath))
	if err := mm.RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// 指标
	metrics, err := observability.NewPolarCollector(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal("Failed to register metrics:", err)
	}

	// 服务
	telemetryService := service.NewTelemetryService(repository.NewTelemetryRepository(db), cfg.BandTolerance, metrics)
	scheduler := service.NewRefetchScheduler(telemetryService, cfg.RefetchDelay, metrics)
	polarService := service.NewPolarService(repository.NewPolarRepository(db), metrics, scheduler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go scheduler.Run(ctx)

	limiter := middleware.NewRateLimiter(cfg.RateLimit, time.Minute)
	defer limiter.Close()

	// 初始化路由
	router := api.SetupRouter(cfg, api.Dependencies{
		Polars:    handler.NewPolarHandler(polarService, cfg.MaxUploadBytes),
		Telemetry: handler.NewTelemetryHandler(telemetryService, polarService, scheduler),
		Metrics:   metrics,
		Limiter:   limiter,
	})

	srv := &http.Server{
		Addr:    cfg.Port,
		Handler: router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
