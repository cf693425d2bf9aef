package router

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/dramahub/internal/handler"
	"github.com/user/dramahub/internal/logger"
	"github.com/user/dramahub/internal/middleware"
	"go.uber.org/zap"
)

// New 创建带全部中间件和路由的 gin 引擎
func New(h *handler.Handler, l *zap.Logger, production bool) *gin.Engine {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	if l == nil {
		l = logger.L
	}

	r := gin.New()
	r.Use(middleware.Recovery(l))

	// 启用 gzip，默认压缩级别；/metrics 由 promhttp 自行压缩
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 中间件
	r.Use(middleware.Logger(l))
	r.Use(middleware.Metrics())
	r.Use(middleware.Security())
	r.Use(middleware.CORS())

	RegisterRoutes(r, h)
	return r
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ==================== 聚合 API ====================
	api := r.Group("/api")
	{
		api.GET("/episode", h.Episode)
		api.GET("/home", h.HomeSections)
		api.GET("/search", h.SearchDramas)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "接口不存在"})
	})
}
