package ingest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/momocard/settlement-service/internal/model"
	"github.com/momocard/settlement-service/internal/store"
)

// Pipeline step names, used to tag run failures.
const (
	StepFetch  = "fetch"
	StepParse  = "parse"
	StepDedupe = "dedupe"
	StepUpsert = "upsert"
)

// Pipeline executes one acquisition → parse → dedupe → upsert pass.
type Pipeline struct {
	fetcher Fetcher
	parser  *Parser
	dedup   *Deduplicator
	writer  *Writer
	store   store.Store
	log     *zap.SugaredLogger
}

func NewPipeline(f Fetcher, p *Parser, d *Deduplicator, w *Writer, st store.Store, logger *zap.SugaredLogger) *Pipeline {
	return &Pipeline{fetcher: f, parser: p, dedup: d, writer: w, store: st, log: logger}
}

// RunReport is the outcome of one pipeline run.
type RunReport struct {
	StartedAt  time.Time
	FinishedAt time.Time
	FailedStep string
	Err        error

	Parsed    int
	Dropped   int
	Malformed int
	InBatch   int
	InStore   int
	Invalid   int
	Written   int
}

// Succeeded reports whether the run reached its terminal state cleanly.
func (r *RunReport) Succeeded() bool { return r.Err == nil }

func (r *RunReport) fail(step string, err error) *RunReport {
	r.FailedStep = step
	r.Err = err
	r.FinishedAt = time.Now()
	return r
}

// Run executes the steps strictly in order and stops at the first failing
// step. It never panics the schedule; the caller decides what a failure
// means.
func (p *Pipeline) Run(ctx context.Context) *RunReport {
	report := &RunReport{StartedAt: time.Now()}

	path, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return report.fail(StepFetch, err)
	}
	p.log.Infow("dump staged", "path", path)

	parsed, err := p.parser.ParseFile(ctx, path)
	if err != nil {
		return report.fail(StepParse, err)
	}
	report.Parsed = len(parsed.Records)
	report.Dropped = parsed.Dropped
	report.Malformed = parsed.Malformed

	deduped, err := p.dedup.Filter(ctx, parsed.Records)
	if err != nil {
		return report.fail(StepDedupe, err)
	}
	report.InBatch = deduped.InBatch
	report.InStore = deduped.InStore

	written, err := p.writer.Write(ctx, deduped.Fresh)
	if written != nil {
		report.Invalid = written.Invalid
	}
	if err != nil {
		return report.fail(StepUpsert, err)
	}
	report.Written = written.Written
	report.FinishedAt = time.Now()
	return report
}

// Execute runs the pipeline and records the outcome: an ingestion_runs row
// for the poller to publish, and the Redis summary for the status endpoint.
// Bookkeeping failures are logged, never escalated into run failures.
func (p *Pipeline) Execute(ctx context.Context) *RunReport {
	report := p.Run(ctx)

	// ctx may already be cancelled when the run was interrupted by shutdown;
	// the terminal run must still land in the audit trail.
	bookCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	run := report.toRun()
	if err := p.store.RecordRun(bookCtx, &run); err != nil {
		p.log.Errorw("record ingestion run", "err", err)
	}
	if err := p.store.CacheLastRun(bookCtx, run); err != nil {
		p.log.Warnw("cache run summary", "err", err)
	}
	return report
}

func (r *RunReport) toRun() model.IngestionRun {
	run := model.IngestionRun{
		StartedAt:     r.StartedAt,
		FinishedAt:    r.FinishedAt,
		Status:        model.RunSucceeded,
		RowsParsed:    r.Parsed,
		RowsDropped:   r.Dropped,
		RowsMalformed: r.Malformed,
		RowsDuplicate: r.InBatch + r.InStore,
		RowsInvalid:   r.Invalid,
		RowsWritten:   r.Written,
	}
	if r.Err != nil {
		run.Status = model.RunFailed
		run.FailedStep = r.FailedStep
		run.Error = r.Err.Error()
	}
	return run
}
