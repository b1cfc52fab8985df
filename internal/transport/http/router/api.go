package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-rest-secure-api/internal/core/auth"
	"go-rest-secure-api/internal/repo"
	"go-rest-secure-api/internal/service"
	mdw "go-rest-secure-api/internal/transport/http/middleware"
)

func NewAPIEngine(l *zap.Logger, db *gorm.DB, jwter *auth.JWTer) *gin.Engine {
	r := gin.New()

	users := repo.NewUserRepo(db)
	ledger := service.NewTokenLedger(repo.NewTokenRepo(db))

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		cors.Default(),
		mdw.Metrics(),
		mdw.AccessLog(l),
		mdw.AuthFilter(jwter, users, ledger, l),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 前缀
	api := r.Group("/api/v1")
	MountAllAPI(api)

	return r
}
