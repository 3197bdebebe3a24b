package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/momocard/settlement-service/internal/model"
	"github.com/momocard/settlement-service/internal/store"
)

func newTestPipeline(t *testing.T, st store.Store, f Fetcher) *Pipeline {
	t.Helper()
	log := zap.NewNop().Sugar()
	return NewPipeline(f, newTestParser(), NewDeduplicator(st, log), NewWriter(st, log), st, log)
}

func TestPipeline_EndToEnd(t *testing.T) {
	st := newTestStore(t)
	path := writeDump(t,
		"DOC_IDT|AMOUNT|ACCOUNT_DATE_CLOSE",
		"DOC1|100.005|31-Oct-24",
		"DOC1|200.00|31-Oct-24",
		"DOC2|50.00|bad",
		"|1.00|31-Oct-24",
	)
	p := newTestPipeline(t, st, &fakeFetcher{path: path})

	report := p.Execute(context.Background())
	require.True(t, report.Succeeded(), "run failed: %v", report.Err)
	assert.Equal(t, 3, report.Parsed)
	assert.Equal(t, 1, report.Dropped)
	assert.Equal(t, 1, report.InBatch)
	assert.Equal(t, 2, report.Written)

	ctx := context.Background()
	doc1, err := st.GetTransaction(ctx, "DOC1")
	require.NoError(t, err)
	assert.True(t, doc1.Amount.Equal(*amount("200.00")), "last occurrence in file order wins")

	doc2, err := st.GetTransaction(ctx, "DOC2")
	require.NoError(t, err)
	require.NotNil(t, doc2.AccountDateClose)
	assert.Equal(t, testOpts().CloseDateDefault, *doc2.AccountDateClose)

	run, err := st.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.RunSucceeded, run.Status)
	assert.Equal(t, 2, run.RowsWritten)
	assert.False(t, run.Published)
}

func TestPipeline_SecondRunOnSameFileWritesNothing(t *testing.T) {
	st := newTestStore(t)
	path := writeDump(t,
		"DOC_IDT|AMOUNT",
		"DOC1|10.00",
		"DOC2|20.00",
	)
	p := newTestPipeline(t, st, &fakeFetcher{path: path})
	ctx := context.Background()

	first := p.Execute(ctx)
	require.True(t, first.Succeeded())
	assert.Equal(t, 2, first.Written)

	second := p.Execute(ctx)
	require.True(t, second.Succeeded())
	assert.Zero(t, second.Written, "unchanged source must dedupe to zero inserts")
	assert.Equal(t, 2, second.InStore)

	var count int64
	require.NoError(t, st.DB(ctx).Model(&model.Transaction{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestPipeline_FetchFailureIsRecorded(t *testing.T) {
	st := newTestStore(t)
	p := newTestPipeline(t, st, &fakeFetcher{err: ErrSourceNotFound})

	report := p.Execute(context.Background())
	require.False(t, report.Succeeded())
	assert.Equal(t, StepFetch, report.FailedStep)
	assert.ErrorIs(t, report.Err, ErrSourceNotFound)

	run, err := st.LastRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.RunFailed, run.Status)
	assert.Equal(t, StepFetch, run.FailedStep)
}

func TestPipeline_MembershipQueryFailureStopsBeforeWrite(t *testing.T) {
	st := newTestStore(t)
	path := writeDump(t,
		"DOC_IDT|AMOUNT",
		"DOC1|10.00",
	)
	p := newTestPipeline(t, st, &fakeFetcher{path: path})
	ctx := context.Background()
	require.NoError(t, st.DB(ctx).Exec("DROP TABLE transactions").Error)

	report := p.Execute(ctx)
	require.False(t, report.Succeeded())
	assert.Equal(t, StepDedupe, report.FailedStep)
	assert.Zero(t, report.Written, "nothing may be written after the dedupe step fails")

	run, err := st.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.RunFailed, run.Status)
	assert.Equal(t, StepDedupe, run.FailedStep)
}

func TestPipeline_InterruptedRunIsStillRecorded(t *testing.T) {
	st := newTestStore(t)
	path := writeDump(t, "DOC_IDT", "DOC1")
	p := newTestPipeline(t, st, &fakeFetcher{path: path})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report := p.Execute(ctx)
	require.False(t, report.Succeeded())

	// bookkeeping runs on its own context, so the terminal run survives
	// the cancelled one
	run, err := st.LastRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.RunFailed, run.Status)
	assert.Equal(t, report.FailedStep, run.FailedStep)
}

func TestScheduler_FailedRunsDoNotStopTheSchedule(t *testing.T) {
	st := newTestStore(t)
	fetcher := &fakeFetcher{err: errors.New("drop zone unreachable")}
	p := newTestPipeline(t, st, fetcher)
	s := NewScheduler(p, 5*time.Millisecond, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()

	deadline := time.After(2 * time.Second)
	for fetcher.fetchCount() < 3 {
		select {
		case <-deadline:
			t.Fatal("scheduler stopped rescheduling after failures")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on cancellation")
	}
}

func TestScheduler_CancellationInterruptsSleep(t *testing.T) {
	st := newTestStore(t)
	path := writeDump(t, "DOC_IDT", "DOC1")
	p := newTestPipeline(t, st, &fakeFetcher{path: path})
	// long interval: only cancellation can end the loop promptly
	s := NewScheduler(p, time.Hour, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pending sleep was not interrupted")
	}
}
