package ingest

import (
	"context"

	"go.uber.org/zap"

	"github.com/momocard/settlement-service/internal/model"
	"github.com/momocard/settlement-service/internal/schema"
	"github.com/momocard/settlement-service/internal/store"
)

// Writer validates candidate records against the schema and upserts the
// survivors in one batch transaction.
type Writer struct {
	store store.Store
	log   *zap.SugaredLogger
}

func NewWriter(st store.Store, logger *zap.SugaredLogger) *Writer {
	return &Writer{store: st, log: logger}
}

// WriteReport summarizes one write pass.
type WriteReport struct {
	Written int
	Invalid int
}

// Write excludes records failing schema validation (counted, never
// batch-aborting) and commits the rest atomically. A write-layer failure
// leaves no partial batch behind; the next scheduled run re-attempts the
// same rows since they were never marked existing.
func (w *Writer) Write(ctx context.Context, batch []*model.Transaction) (*WriteReport, error) {
	report := &WriteReport{}
	valid := make([]*model.Transaction, 0, len(batch))
	for _, rec := range batch {
		if err := schema.Validate(rec); err != nil {
			report.Invalid++
			w.log.Warnw("record failed schema validation", "doc_idt", rec.DocIDT, "err", err)
			continue
		}
		valid = append(valid, rec)
	}

	if len(valid) == 0 {
		return report, nil
	}
	if err := w.store.UpsertTransactions(ctx, valid); err != nil {
		return report, err
	}
	report.Written = len(valid)
	return report, nil
}
