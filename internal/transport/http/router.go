package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/momocard/settlement-service/internal/config"
	"github.com/momocard/settlement-service/internal/store"
)

func NewRouter(st store.Store, rl config.RateLimitConfig, log *zap.SugaredLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware(log))
	r.Use(RateLimitMiddleware(rl.RPS, rl.Burst))
	RegisterHandlers(r, st)
	return r
}
