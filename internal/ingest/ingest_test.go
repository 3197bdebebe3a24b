package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/momocard/settlement-service/internal/model"
	"github.com/momocard/settlement-service/internal/schema"
	"github.com/momocard/settlement-service/internal/store"
)

func newTestStore(t *testing.T) *store.SQLStore {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Transaction{}, &model.IngestionRun{}))

	rdb, _ := redismock.NewClientMock()
	return store.New(db, rdb, &kafka.Writer{}, zap.NewNop().Sugar())
}

func testOpts() schema.CoerceOptions {
	return schema.CoerceOptions{
		DateFormat:       "02-Jan-06",
		CloseDateDefault: time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newTestParser() *Parser {
	return NewParser('|', testOpts(), zap.NewNop().Sugar())
}

func writeDump(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

// fakeFetcher stands in for the staging copy in pipeline tests.
type fakeFetcher struct {
	path  string
	err   error
	calls int32
}

func (f *fakeFetcher) Fetch(ctx context.Context) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return "", f.err
	}
	return f.path, nil
}

func (f *fakeFetcher) fetchCount() int32 { return atomic.LoadInt32(&f.calls) }
