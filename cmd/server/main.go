package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"classdesk/internal/conflict/findings"
	"classdesk/internal/dashboard/cache"
	dashboardhandler "classdesk/internal/dashboard/handler"
	dashboardmetrics "classdesk/internal/dashboard/metrics"
	dashboardservice "classdesk/internal/dashboard/service"
	"classdesk/internal/directory/scope"
	directorystore "classdesk/internal/directory/store"
	"classdesk/internal/events"
	"classdesk/internal/platform/config"
	"classdesk/internal/platform/httpserver"
	"classdesk/internal/platform/logger"
	"classdesk/internal/platform/middleware"
	platformredis "classdesk/internal/platform/redis"
	"classdesk/internal/records/filter"
	recordshandler "classdesk/internal/records/handler"
	recordsservice "classdesk/internal/records/service"
	recordsstore "classdesk/internal/records/store"
	"classdesk/internal/records/version"
)

// main wires stores, services, and the HTTP router. Business logic lives in
// the internal packages; everything here is assembly.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	// Stores: postgres when a DSN is configured, in-memory otherwise.
	var (
		directory directorystore.Store
		records   recordsstore.Store
		finding   dashboardservice.FindingStore
	)
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		if err := db.PingContext(ctx); err != nil {
			log.Error("failed to ping postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		directory = directorystore.NewPostgres(db)
		records = recordsstore.NewPostgres(db)
		finding = findings.NewPostgres(db)
	} else {
		log.Warn("POSTGRES_DSN not set, using in-memory stores")
		directory = directorystore.NewInMemory()
		records = recordsstore.NewInMemory()
		finding = findings.NewInMemory()
	}

	// Redis backs the dashboard cache and version counter when configured;
	// otherwise both fall back to process-local implementations.
	var (
		payloadCache cache.Cache
		versions     version.Counter
	)
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		payloadCache = cache.NewRedis(redisClient.Client, cfg.Cache.TTL)
		versions = version.NewRedis(redisClient.Client)
	} else {
		log.Warn("REDIS_URL not set, using in-process cache and version counter")
		payloadCache = cache.NewLRU(cfg.Cache.MaxEntriesPerTenant)
		versions = version.NewInMemory()
	}

	// Events publisher: kafka when brokers are configured, noop otherwise.
	var publisher events.Publisher = events.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher, err := events.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic, events.WithLogger(log))
		if err != nil {
			log.Error("failed to connect to kafka", "error", err)
			os.Exit(1)
		}
		defer kafkaPublisher.Close()
		if err := kafkaPublisher.EnsureTopic(ctx, 3, 1); err != nil {
			log.Error("failed to ensure event topic", "error", err)
			os.Exit(1)
		}
		publisher = kafkaPublisher
	}

	metrics := dashboardmetrics.New()
	resolver := scope.NewResolver(directory, scope.WithLogger(log))
	accessFilter := filter.New(records)

	dashboards := dashboardservice.New(resolver, accessFilter, directory, versions, payloadCache,
		dashboardservice.WithLogger(log),
		dashboardservice.WithMetrics(metrics),
		dashboardservice.WithFindingStore(finding),
	)
	writer := recordsservice.New(records, directory, versions,
		recordsservice.WithLogger(log),
		recordsservice.WithPublisher(publisher),
	)

	verifier := middleware.NewJWTVerifier(cfg.JWTSigningKey)

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RequestID)
		r.Use(middleware.RequestTime)
		r.Use(middleware.RequireAuth(verifier, log))
		dashboardhandler.New(dashboards, log).Register(r)
		recordshandler.New(writer, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, r)

	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
