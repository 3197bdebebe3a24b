package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/momocard/settlement-service/internal/config"
	"github.com/momocard/settlement-service/internal/ingest"
	"github.com/momocard/settlement-service/internal/logger"
	"github.com/momocard/settlement-service/internal/model"
	"github.com/momocard/settlement-service/internal/schema"
	"github.com/momocard/settlement-service/internal/store"
	httptransport "github.com/momocard/settlement-service/internal/transport/http"
)

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

func main() {
	// 1. load config
	cfg, err := config.Load(configPath())
	if err != nil {
		panic(fmt.Errorf("load config: %w", err))
	}

	// 2. init logger
	log, err := logger.New("settlement-server", cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Errorf("init logger: %w", err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. postgres; the pool is shared by the pipeline and the query surface
	gdb, err := gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{PrepareStmt: true})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(10)
	}
	if err := gdb.AutoMigrate(&model.Transaction{}, &model.IngestionRun{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	// 4. redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis ping: %v", err)
	}

	// 5. kafka writer
	kw := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Kafka.Brokers...),
		Topic:    cfg.Kafka.Topic,
		Balancer: &kafka.LeastBytes{},
	}

	// 6. store & pipeline
	st := store.New(gdb, rdb, kw, log)

	closeDate, err := cfg.Ingest.SentinelCloseDate()
	if err != nil {
		log.Fatalf("parse default_close_date: %v", err)
	}
	opts := schema.CoerceOptions{
		DateFormat:       cfg.Ingest.DateFormat,
		CloseDateDefault: closeDate,
	}
	pipeline := ingest.NewPipeline(
		ingest.NewLocalFetcher(cfg.Ingest.SourcePath, cfg.Ingest.StagingDir),
		ingest.NewParser(cfg.Ingest.DelimiterRune(), opts, log),
		ingest.NewDeduplicator(st, log),
		ingest.NewWriter(st, log),
		st, log,
	)
	sched := ingest.NewScheduler(pipeline, time.Duration(cfg.Ingest.Interval), log)

	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		sched.Run(ctx)
	}()

	// 7. gin router
	router := httptransport.NewRouter(st, cfg.RateLimit, log)

	// 8. serve until shutdown signal
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}
	go func() {
		log.Infof("settlement-server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("http shutdown: %v", err)
	}
	<-schedDone
}
