package ingest

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/momocard/settlement-service/internal/model"
)

func amount(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestFilter_SkipsPersistedKeys(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.UpsertTransactions(ctx, []*model.Transaction{{DocIDT: "DOC2"}}))

	d := NewDeduplicator(st, zap.NewNop().Sugar())
	report, err := d.Filter(ctx, []*model.Transaction{{DocIDT: "DOC2"}, {DocIDT: "DOC3"}})
	require.NoError(t, err)

	require.Len(t, report.Fresh, 1)
	assert.Equal(t, "DOC3", report.Fresh[0].DocIDT)
	assert.Equal(t, 1, report.InStore)
	assert.Zero(t, report.InBatch)
}

func TestFilter_LastOccurrenceWinsWithinBatch(t *testing.T) {
	st := newTestStore(t)
	d := NewDeduplicator(st, zap.NewNop().Sugar())

	batch := []*model.Transaction{
		{DocIDT: "DOC1", Amount: amount("100.00")},
		{DocIDT: "DOC9"},
		{DocIDT: "DOC1", Amount: amount("200.00")},
	}
	report, err := d.Filter(context.Background(), batch)
	require.NoError(t, err)

	require.Len(t, report.Fresh, 2)
	assert.Equal(t, "DOC1", report.Fresh[0].DocIDT)
	assert.Equal(t, "200.00", report.Fresh[0].Amount.String())
	assert.Equal(t, 1, report.InBatch)
}

func TestFilter_MembershipQueryFailureFailsTheRun(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.DB(ctx).Exec("DROP TABLE transactions").Error)

	d := NewDeduplicator(st, zap.NewNop().Sugar())
	report, err := d.Filter(ctx, []*model.Transaction{{DocIDT: "DOC1"}})
	require.Error(t, err, "a broken membership query must never pass records through as new")
	assert.Nil(t, report)
}

func TestFilter_EmptyBatch(t *testing.T) {
	d := NewDeduplicator(newTestStore(t), zap.NewNop().Sugar())
	report, err := d.Filter(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, report.Fresh)
}
