package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/polar-backend-go/internal/config"
	"github.com/jengzang/polar-backend-go/internal/handler"
	"github.com/jengzang/polar-backend-go/internal/middleware"
	"github.com/jengzang/polar-backend-go/internal/observability"
)

// Dependencies 路由所需的处理器与中间件
type Dependencies struct {
	Polars    *handler.PolarHandler
	Telemetry *handler.TelemetryHandler
	Metrics   *observability.PolarCollector
	Limiter   *middleware.RateLimiter // 为空时不限流
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger("/health", "/metrics"))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Polar Backend API is running",
		})
	})

	// Prometheus 指标
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := r.Group("/api/v1")
	if deps.Limiter != nil {
		api.Use(middleware.RateLimit(deps.Limiter))
	}
	auth := middleware.RequireAuth(cfg.JWTSecret)

	// 极曲线文档接口
	polars := api.Group("/polars")
	{
		h := deps.Polars
		polars.GET("", h.List)
		polars.GET("/:id", h.Get)
		polars.GET("/:id/export", h.Export)
		polars.GET("/:id/ranges", h.Ranges)
		polars.GET("/:id/evaluate", h.Evaluate)
		polars.GET("/:id/bands/:tws/dense", h.Dense)

		polars.POST("", auth, h.Create)
		polars.DELETE("/:id", auth, h.Delete)
		polars.POST("/:id/angles", auth, h.AddAngle)
		polars.POST("/:id/bands", auth, h.AddBand)
		polars.DELETE("/:id/bands/:tws", auth, h.DeleteBand)
		polars.PUT("/:id/bands/:tws/angles/:twa", auth, h.SetBoatSpeed)
		polars.PATCH("/:id/bands/:tws/angles/:twa", auth, h.RenameAnchor)
		polars.DELETE("/:id/bands/:tws/angles/:twa", auth, h.DeleteAngle)

		// 按风速档筛选的遥测
		t := deps.Telemetry
		polars.GET("/:id/telemetry", t.PolarTelemetry)
		polars.GET("/:id/telemetry/latest", t.Latest)
		polars.GET("/:id/bands/:tws/telemetry", t.BandTelemetry)
		polars.GET("/:id/bands/:tws/summary", t.BandSummary)
	}

	// 遥测原始数据接口
	telemetry := api.Group("/telemetry")
	{
		telemetry.GET("", deps.Telemetry.Query)
		telemetry.POST("", auth, deps.Telemetry.Ingest)
	}

	return r
}
