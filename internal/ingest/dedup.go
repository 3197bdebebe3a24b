package ingest

import (
	"context"

	"go.uber.org/zap"

	"github.com/momocard/settlement-service/internal/model"
	"github.com/momocard/settlement-service/internal/store"
)

// Deduplicator partitions a normalized batch into records already persisted
// and records new by document id.
type Deduplicator struct {
	store store.Store
	log   *zap.SugaredLogger
}

func NewDeduplicator(st store.Store, logger *zap.SugaredLogger) *Deduplicator {
	return &Deduplicator{store: st, log: logger}
}

// DedupReport summarizes one filter pass.
type DedupReport struct {
	Fresh   []*model.Transaction
	InBatch int // same-key repeats collapsed within the file
	InStore int // keys already persisted
}

// Filter collapses same-key repeats (last occurrence in file order wins,
// matching the last-write-wins upsert), then issues one batched membership
// query and keeps only unseen keys. A membership-query failure fails the
// run; guessing "all new" would risk writing true duplicates.
func (d *Deduplicator) Filter(ctx context.Context, batch []*model.Transaction) (*DedupReport, error) {
	report := &DedupReport{}
	if len(batch) == 0 {
		return report, nil
	}

	byKey := make(map[string]int, len(batch))
	collapsed := make([]*model.Transaction, 0, len(batch))
	for _, rec := range batch {
		if i, seen := byKey[rec.DocIDT]; seen {
			collapsed[i] = rec
			report.InBatch++
			continue
		}
		byKey[rec.DocIDT] = len(collapsed)
		collapsed = append(collapsed, rec)
	}

	keys := make([]string, len(collapsed))
	for i, rec := range collapsed {
		keys[i] = rec.DocIDT
	}
	existing, err := d.store.ExistingDocIDs(ctx, keys)
	if err != nil {
		return nil, err
	}

	report.Fresh = collapsed[:0]
	for _, rec := range collapsed {
		if _, ok := existing[rec.DocIDT]; ok {
			report.InStore++
			continue
		}
		report.Fresh = append(report.Fresh, rec)
	}
	return report, nil
}
