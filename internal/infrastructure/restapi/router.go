package restapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter builds the gin engine. An empty allowedOrigins allows every origin.
func SetupRouter(h *Handler, allowedOrigins []string, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsCfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = allowedOrigins
	}
	router.Use(cors.New(corsCfg))
	router.Use(ZapLoggerMiddleware(logger))
	router.Use(gin.Recovery())

	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/balance/me", h.GetMyBalance)
		v1.GET("/tokens", h.ListTokens)
		v1.GET("/tokens/:id/graph", h.GetTokenGraph)
		v1.GET("/dashboard/overview", h.GetOverview)

		admin := v1.Group("/admin")
		admin.GET("/balances/total", h.GetTotalBalance)
		admin.GET("/balances/summary", h.GetBalanceSummary)
		admin.GET("/balances/:userId", h.GetUserBalance)
		admin.GET("/graph/stats", h.GetGraphStats)
		admin.PUT("/tokens/:id/graph/cron", h.SetCronActive)
		admin.PUT("/tokens/:id/graph/allow-latest", h.SetAllowLatest)
		admin.DELETE("/tokens/:id/graph", h.DeleteGraph)
		admin.POST("/tokens/:id/graph/populate", h.PopulateGraph)
		admin.POST("/tokens/:id/graph/enable-cron", h.EnableCron)
	}

	return router
}
