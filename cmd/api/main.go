package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jobhunt/jobhunt/internal/cache"
	"github.com/jobhunt/jobhunt/internal/config"
	"github.com/jobhunt/jobhunt/internal/db"
	httpx "github.com/jobhunt/jobhunt/internal/http"
	"github.com/jobhunt/jobhunt/internal/observability"
	"github.com/jobhunt/jobhunt/internal/repo/postgres"

	"github.com/jobhunt/jobhunt/internal/auth"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	ctx := context.Background()

	// tracing is opt-in via OTEL_EXPORTER_OTLP_ENDPOINT
	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(ctx, "jobhunt", cfg.OTLPEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
		} else {
			defer func() {
				tctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdownTracer(tctx)
			}()
		}
	}

	pool, err := db.NewPool(ctx, cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	if err := db.RunMigrations(ctx, cfg.DBURL); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}

	// summary cache: redis when configured, in-process otherwise
	var summaries cache.SummaryCache

	if cfg.RedisAddr != "" {
		rdb := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		if err := cache.PingRedis(ctx, rdb); err != nil {
			log.Error("redis unavailable, falling back to in-process cache", "err", err)
			summaries = cache.NewMemorySummaryCache(cfg.SummaryCacheTTL)
		} else {
			defer rdb.Close()
			summaries = cache.NewRedisSummaryCache(rdb, cfg.SummaryCacheTTL)
		}
	} else {
		summaries = cache.NewMemorySummaryCache(cfg.SummaryCacheTTL)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	jwtManager := auth.NewManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	ping := func() error {
		pctx, cancel := config.WithTimeout(1 * time.Second)
		defer cancel()

		return pool.Ping(pctx)
	}

	router := httpx.NewRouter(httpx.Deps{
		Log:          log,
		Users:        postgres.NewUsersRepo(pool, prom),
		Applications: postgres.NewApplicationsRepo(pool, prom),
		Summaries:    summaries,
		JWT:          jwtManager,
		Ping:         ping,
		Cfg:          cfg,
		Prom:         prom,
		PromRegistry: reg,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		sctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(sctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
