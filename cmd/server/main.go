package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log/level"
	"github.com/quietstorm/adserver/internal/cache"
	"github.com/quietstorm/adserver/internal/config"
	"github.com/quietstorm/adserver/internal/database"
	"github.com/quietstorm/adserver/internal/endpoint"
	"github.com/quietstorm/adserver/internal/logger"
	"github.com/quietstorm/adserver/internal/metrics"
	"github.com/quietstorm/adserver/internal/middleware"
	"github.com/quietstorm/adserver/internal/repository"
	"github.com/quietstorm/adserver/internal/service"
	"github.com/quietstorm/adserver/internal/transport"
)

const serviceVersion = "1.0.0"

func main() {
	config.LoadConfigs()

	log := logger.New(logger.Config{
		Service: "adserver",
		Version: serviceVersion,
	})

	db, cleanup, err := database.Initialize(config.AppConfigInstance.DatabaseConfig, "migrations")
	if err != nil {
		level.Error(log).Log("msg", "failed to initialize database", "err", err)
		os.Exit(1)
	}
	defer cleanup()

	promMetrics := metrics.NewPrometheusMetrics()

	var store service.Store
	store = repository.NewInstrumentedStore(repository.NewPostgresStore(db), promMetrics)

	// Cache failures are non-fatal: serving degrades to direct store reads
	cacheConfig := config.GetCacheConfig()
	hybridCache, err := cache.NewHybridCache(cacheConfig)
	if err != nil {
		level.Warn(log).Log("msg", "cache unavailable, serving uncached", "err", err)
		hybridCache = nil
	} else {
		defer hybridCache.Close()
		store = cache.NewCachedStore(store, hybridCache, cacheConfig.DefaultTTL, log)
	}

	var svc service.AdService
	svc = service.NewAdService(store, store, service.Config{
		TokenTTL: config.AppConfigInstance.ServingConfig.TokenTTL,
	})
	svc = middleware.NewServiceMetricsMiddleware(promMetrics)(svc)
	svc = middleware.NewLoggingMiddleware(log)(svc)

	endpoints := endpoint.MakeAdEndpoints(svc)

	healthFn := func() error {
		if hybridCache != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			promMetrics.SetHealthCheckStatus("cache", hybridCache.HealthCheck(ctx) == nil)
			cancel()
		}
		err := db.HealthCheck()
		promMetrics.SetHealthCheckStatus("database", err == nil)
		return err
	}

	var handler http.Handler = transport.NewHTTPHandler(endpoints, healthFn, log)
	handler = middleware.NewMetricsMiddleware(promMetrics).Middleware(handler)
	handler = middleware.NewRequestIDMiddleware().Middleware(handler)

	addr := fmt.Sprintf(":%d", config.AppConfigInstance.GeneralConfig.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		level.Info(log).Log("msg", "starting HTTP server", "addr", addr)
		errs <- server.ListenAndServe()
	}()

	// SIGHUP flushes the serving cache so campaign edits show up without a
	// restart
	if hybridCache != nil {
		reload := make(chan os.Signal, 1)
		signal.Notify(reload, syscall.SIGHUP)
		go func() {
			for range reload {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := hybridCache.InvalidateAll(ctx); err != nil {
					level.Warn(log).Log("msg", "cache flush failed", "err", err)
				} else {
					level.Info(log).Log("msg", "cache flushed")
				}
				cancel()
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errs:
		level.Error(log).Log("msg", "server error", "err", err)
	case sig := <-quit:
		level.Info(log).Log("msg", "shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		level.Error(log).Log("msg", "graceful shutdown failed", "err", err)
	}
}
