package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/momocard/settlement-service/internal/store"
)

func RegisterHandlers(r *gin.Engine, st store.Store) {
	v1 := r.Group("/v1")
	{
		v1.GET("/transactions", listTransactionsHandler(st))
		v1.GET("/transactions/:doc_idt", getTransactionHandler(st))
		v1.GET("/ingestion/runs", listRunsHandler(st))
		v1.GET("/ingestion/status", statusHandler(st))
	}
}

type listTransactionsReq struct {
	Skip        int    `form:"skip,default=0" binding:"gte=0"`
	Limit       int    `form:"limit,default=10" binding:"gte=1,lte=100"`
	FilterBy    string `form:"filter_by"`
	FilterValue string `form:"filter_value"`
	SortBy      string `form:"sort_by"`
	SortOrder   string `form:"sort_order,default=asc" binding:"oneof=asc desc"`
}

func listTransactionsHandler(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req listTransactionsReq
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		txs, err := st.ListTransactions(c, store.ListQuery{
			Skip:        req.Skip,
			Limit:       req.Limit,
			FilterBy:    req.FilterBy,
			FilterValue: req.FilterValue,
			SortBy:      req.SortBy,
			SortOrder:   req.SortOrder,
		})
		if err != nil {
			if errors.Is(err, store.ErrUnknownColumn) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, txs)
	}
}

func getTransactionHandler(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := st.GetTransaction(c, c.Param("doc_idt"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func listRunsHandler(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if err != nil || limit < 1 || limit > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		runs, err := st.RecentRuns(c, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, runs)
	}
}

// statusHandler serves the latest run summary, Redis cache first with a
// store fallback.
func statusHandler(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if run, err := st.CachedLastRun(c); err == nil {
			c.JSON(http.StatusOK, run)
			return
		}
		run, err := st.LastRun(c)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no ingestion run recorded"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, run)
	}
}
