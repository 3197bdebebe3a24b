package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/momocard/settlement-service/internal/config"
	"github.com/momocard/settlement-service/internal/logger"
	"github.com/momocard/settlement-service/internal/store"
)

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

// The poller ships unpublished ingestion-run summaries to Kafka so the
// downstream reconciliation team sees every run outcome exactly once.
func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		panic(fmt.Errorf("load config: %w", err))
	}

	log, err := logger.New("settlement-poller", cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Errorf("init logger: %w", err))
	}
	defer log.Sync()

	gdb, err := gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{PrepareStmt: true})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}

	kw := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Kafka.Brokers...),
		Topic:    cfg.Kafka.Topic,
		Balancer: &kafka.LeastBytes{},
	}

	st := store.New(gdb, nil, kw, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	log.Info("settlement-poller started")
	for {
		runs, err := st.UnpublishedRuns(ctx, 100)
		if err != nil {
			log.Errorf("poll unpublished runs: %v", err)
		}
		for _, run := range runs {
			if err := st.PublishRunSummary(ctx, run); err != nil {
				log.Errorf("publish run id=%d: %v", run.ID, err)
				continue
			}
			if err := st.MarkRunPublished(ctx, run.ID); err != nil {
				log.Errorf("mark published id=%d: %v", run.ID, err)
			} else {
				log.Infof("run summary %d sent", run.ID)
			}
		}

		select {
		case <-ctx.Done():
			log.Info("settlement-poller stopped")
			return
		case <-ticker.C:
		}
	}
}
