package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/momocard/settlement-service/internal/model"
	"github.com/momocard/settlement-service/internal/schema"
)

// ErrUnknownColumn is returned when a filter/sort token is outside the
// schema allow-list.
var ErrUnknownColumn = errors.New("unknown or non-queryable column")

// membership queries are chunked so one oversized dump cannot blow the
// statement parameter limit.
const docIDChunk = 500

const lastRunKey = "ingestion:last_run"

// ListQuery is the validated shape of a read request.
type ListQuery struct {
	Skip        int
	Limit       int
	FilterBy    string
	FilterValue string
	SortBy      string
	SortOrder   string
}

// Store restricts store methods (mock-friendly for unit tests).
type Store interface {
	DB(ctx context.Context) *gorm.DB
	ExistingDocIDs(ctx context.Context, ids []string) (map[string]struct{}, error)
	UpsertTransactions(ctx context.Context, recs []*model.Transaction) error
	GetTransaction(ctx context.Context, docIDT string) (*model.Transaction, error)
	ListTransactions(ctx context.Context, q ListQuery) ([]model.Transaction, error)
	RecordRun(ctx context.Context, run *model.IngestionRun) error
	LastRun(ctx context.Context) (*model.IngestionRun, error)
	RecentRuns(ctx context.Context, limit int) ([]model.IngestionRun, error)
	UnpublishedRuns(ctx context.Context, limit int) ([]model.IngestionRun, error)
	MarkRunPublished(ctx context.Context, id uint64) error
	PublishRunSummary(ctx context.Context, run model.IngestionRun) error
	CacheLastRun(ctx context.Context, run model.IngestionRun) error
	CachedLastRun(ctx context.Context) (*model.IngestionRun, error)
}

// SQLStore implements Store on gorm plus the Redis cache and Kafka writer.
type SQLStore struct {
	db     *gorm.DB
	rdb    *redis.Client
	writer *kafka.Writer
	log    *zap.SugaredLogger
}

// New constructs the store.
func New(db *gorm.DB, rdb *redis.Client, w *kafka.Writer, logger *zap.SugaredLogger) *SQLStore {
	return &SQLStore{db: db, rdb: rdb, writer: w, log: logger}
}

// DB returns underlying *gorm.DB
func (s *SQLStore) DB(ctx context.Context) *gorm.DB { return s.db.WithContext(ctx) }

// ExistingDocIDs returns the subset of ids already persisted, batched into
// one membership query per chunk rather than one per row.
func (s *SQLStore) ExistingDocIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	out := make(map[string]struct{}, len(ids))
	for start := 0; start < len(ids); start += docIDChunk {
		end := start + docIDChunk
		if end > len(ids) {
			end = len(ids)
		}
		var found []string
		err := s.db.WithContext(ctx).
			Model(&model.Transaction{}).
			Where("doc_idt IN ?", ids[start:end]).
			Pluck("doc_idt", &found).Error
		if err != nil {
			return nil, err
		}
		for _, id := range found {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

// UpsertTransactions writes the batch in a single transaction with
// insert-or-overwrite-all-columns conflict handling on the document key, so
// same-run duplicates or concurrent writers never fail the batch and readers
// see either the old or the fully new state.
func (s *SQLStore) UpsertTransactions(ctx context.Context, recs []*model.Transaction) error {
	if len(recs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "doc_idt"}},
			UpdateAll: true,
		}).CreateInBatches(recs, 200).Error
	})
}

// GetTransaction fetches one record by document id.
func (s *SQLStore) GetTransaction(ctx context.Context, docIDT string) (*model.Transaction, error) {
	var t model.Transaction
	if err := s.db.WithContext(ctx).Where("doc_idt = ?", docIDT).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTransactions pages through records with optional single-column filter
// and sort. Column tokens resolve through the schema allow-list only.
func (s *SQLStore) ListTransactions(ctx context.Context, q ListQuery) ([]model.Transaction, error) {
	db := s.db.WithContext(ctx).Model(&model.Transaction{})

	if q.FilterBy != "" {
		col, ok := schema.QueryColumn(q.FilterBy)
		if !ok {
			return nil, fmt.Errorf("filter_by %q: %w", q.FilterBy, ErrUnknownColumn)
		}
		db = db.Where(col+" = ?", q.FilterValue)
	}
	if q.SortBy != "" {
		col, ok := schema.QueryColumn(q.SortBy)
		if !ok {
			return nil, fmt.Errorf("sort_by %q: %w", q.SortBy, ErrUnknownColumn)
		}
		dir := "ASC"
		if q.SortOrder == "desc" {
			dir = "DESC"
		}
		db = db.Order(col + " " + dir)
	}

	var out []model.Transaction
	err := db.Offset(q.Skip).Limit(q.Limit).Find(&out).Error
	return out, err
}

// RecordRun persists one pipeline run report.
func (s *SQLStore) RecordRun(ctx context.Context, run *model.IngestionRun) error {
	return s.db.WithContext(ctx).Create(run).Error
}

// LastRun returns the most recently started run.
func (s *SQLStore) LastRun(ctx context.Context) (*model.IngestionRun, error) {
	var run model.IngestionRun
	if err := s.db.WithContext(ctx).Order("started_at DESC").First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// RecentRuns returns run history, newest first.
func (s *SQLStore) RecentRuns(ctx context.Context, limit int) ([]model.IngestionRun, error) {
	var runs []model.IngestionRun
	err := s.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

// UnpublishedRuns pulls runs the poller has not shipped yet.
func (s *SQLStore) UnpublishedRuns(ctx context.Context, limit int) ([]model.IngestionRun, error) {
	var runs []model.IngestionRun
	err := s.db.WithContext(ctx).Where("published = ?", false).Order("started_at").Limit(limit).Find(&runs).Error
	return runs, err
}

// MarkRunPublished sets the published flag.
func (s *SQLStore) MarkRunPublished(ctx context.Context, id uint64) error {
	now := time.Now()
	return s.db.WithContext(ctx).Model(&model.IngestionRun{}).Where("id = ?", id).
		Updates(map[string]interface{}{"published": true, "published_at": &now}).Error
}

// PublishRunSummary ships one run summary to Kafka.
func (s *SQLStore) PublishRunSummary(ctx context.Context, run model.IngestionRun) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(run.ID, 10)),
		Value: payload,
		Time:  time.Now(),
	}
	return s.writer.WriteMessages(ctx, msg)
}

// CacheLastRun writes the latest run summary to Redis.
func (s *SQLStore) CacheLastRun(ctx context.Context, run model.IngestionRun) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, lastRunKey, payload, 5*time.Minute).Err()
}

// CachedLastRun reads the cached run summary, if any.
func (s *SQLStore) CachedLastRun(ctx context.Context) (*model.IngestionRun, error) {
	str, err := s.rdb.Get(ctx, lastRunKey).Result()
	if err != nil {
		return nil, err
	}
	var run model.IngestionRun
	if err := json.Unmarshal([]byte(str), &run); err != nil {
		return nil, err
	}
	return &run, nil
}
