package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v8"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/momocard/settlement-service/internal/config"
	"github.com/momocard/settlement-service/internal/model"
	"github.com/momocard/settlement-service/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.SQLStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Transaction{}, &model.IngestionRun{}))

	rdb, _ := redismock.NewClientMock()
	st := store.New(db, rdb, &kafka.Writer{}, zap.NewNop().Sugar())
	router := NewRouter(st, config.RateLimitConfig{RPS: 100, Burst: 100}, zap.NewNop().Sugar())
	return router, st
}

func doGet(router *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestListTransactionsEndpoint(t *testing.T) {
	router, st := newTestRouter(t)
	amt := decimal.RequireFromString("12.50")
	merchant := "ACME"
	require.NoError(t, st.UpsertTransactions(context.Background(), []*model.Transaction{
		{DocIDT: "DOC1", Amount: &amt, Merchant: &merchant},
		{DocIDT: "DOC2"},
	}))

	w := doGet(router, "/v1/transactions?limit=10&sort_by=DOC_IDT&sort_order=desc")
	require.Equal(t, http.StatusOK, w.Code)

	var out []model.Transaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "DOC2", out[0].DocIDT)
}

func TestListTransactionsEndpoint_RejectsBadInput(t *testing.T) {
	router, _ := newTestRouter(t)

	// disallowed column: card numbers never reach the query surface
	w := doGet(router, "/v1/transactions?filter_by=PAN&filter_value=4111")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doGet(router, "/v1/transactions?sort_by=NOT_A_COLUMN")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doGet(router, "/v1/transactions?sort_order=sideways")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doGet(router, "/v1/transactions?limit=1000")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTransactionEndpoint(t *testing.T) {
	router, st := newTestRouter(t)
	require.NoError(t, st.UpsertTransactions(context.Background(), []*model.Transaction{{DocIDT: "DOC1"}}))

	w := doGet(router, "/v1/transactions/DOC1")
	require.Equal(t, http.StatusOK, w.Code)

	w = doGet(router, "/v1/transactions/MISSING")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusEndpoint(t *testing.T) {
	router, st := newTestRouter(t)

	// nothing cached, nothing recorded
	w := doGet(router, "/v1/ingestion/status")
	assert.Equal(t, http.StatusNotFound, w.Code)

	run := model.IngestionRun{StartedAt: time.Now(), Status: model.RunSucceeded, RowsWritten: 5}
	require.NoError(t, st.RecordRun(context.Background(), &run))

	// cache miss falls back to the store
	w = doGet(router, "/v1/ingestion/status")
	require.Equal(t, http.StatusOK, w.Code)
	var got model.IngestionRun
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 5, got.RowsWritten)
}

func TestRunsEndpoint(t *testing.T) {
	router, st := newTestRouter(t)
	require.NoError(t, st.RecordRun(context.Background(), &model.IngestionRun{StartedAt: time.Now(), Status: model.RunFailed, FailedStep: "parse"}))

	w := doGet(router, "/v1/ingestion/runs")
	require.Equal(t, http.StatusOK, w.Code)
	var runs []model.IngestionRun
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "parse", runs[0].FailedStep)

	w = doGet(router, "/v1/ingestion/runs?limit=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
