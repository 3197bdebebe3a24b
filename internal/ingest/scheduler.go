package ingest

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler drives one pipeline run per interval. Runs are serialized by
// construction: the next sleep only starts once the current run reached a
// terminal state, so two runs can never overlap in one process.
type Scheduler struct {
	pipeline *Pipeline
	interval time.Duration
	log      *zap.SugaredLogger
}

func NewScheduler(p *Pipeline, interval time.Duration, logger *zap.SugaredLogger) *Scheduler {
	return &Scheduler{pipeline: p, interval: interval, log: logger}
}

// Run loops until ctx is cancelled. A failed run is logged with its step and
// cause and the schedule carries on; cancellation interrupts a pending sleep
// immediately and lets an in-flight run finish its current step.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Infow("ingestion scheduler started", "interval", s.interval)
	for {
		report := s.pipeline.Execute(ctx)
		if report.Succeeded() {
			s.log.Infow("ingestion run succeeded",
				"parsed", report.Parsed,
				"dropped", report.Dropped,
				"duplicates", report.InBatch+report.InStore,
				"invalid", report.Invalid,
				"written", report.Written,
				"took", report.FinishedAt.Sub(report.StartedAt))
		} else {
			s.log.Errorw("ingestion run failed",
				"step", report.FailedStep, "err", report.Err)
		}

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("ingestion scheduler stopped")
			return
		case <-timer.C:
		}
	}
}
