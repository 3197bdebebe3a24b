package main

import (
	"context"
	"fmt"
	"os"

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
)

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

// One-shot pipeline run for operational replays; exits non-zero when the
// run fails.
func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		panic(fmt.Errorf("load config: %w", err))
	}

	log, err := logger.New("settlement-ingest", cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Errorf("init logger: %w", err))
	}
	defer log.Sync()

	gdb, err := gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{PrepareStmt: true})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	if err := gdb.AutoMigrate(&model.Transaction{}, &model.IngestionRun{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	kw := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Kafka.Brokers...),
		Topic:    cfg.Kafka.Topic,
		Balancer: &kafka.LeastBytes{},
	}
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

	report := pipeline.Execute(context.Background())
	if !report.Succeeded() {
		log.Errorw("ingestion run failed", "step", report.FailedStep, "err", report.Err)
		os.Exit(1)
	}
	log.Infow("ingestion run succeeded",
		"parsed", report.Parsed,
		"dropped", report.Dropped,
		"duplicates", report.InBatch+report.InStore,
		"invalid", report.Invalid,
		"written", report.Written)
}
