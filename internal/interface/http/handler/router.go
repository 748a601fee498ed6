package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// NewRouter 创建并配置Gin引擎
// 教学要点：
// 1. 中间件顺序:Recovery → Tracing → Metrics → AccessLog,日志能拿到trace_id
// 2. /metrics、/swagger、/ping不属于业务API,挂在根路由
// 3. 业务路由统一在/api/v1下,由各Handler自己注册
func NewRouter(cfg *config.Config, bookHandler *BookHandler, featureHandler *FeatureHandler) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.Tracing(),
		middleware.Metrics(),
		middleware.AccessLog(logger.Get()),
	)

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
			"backend": cfg.Catalog.Backend,
		})
	})

	// Prometheus抓取端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档: http://localhost:8080/swagger/index.html
	// 生产环境建议禁用或加访问控制
	if cfg.Server.Mode != "release" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	bookHandler.RegisterRoutes(v1)
	featureHandler.RegisterRoutes(v1)

	return r
}
