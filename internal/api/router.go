package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yourname/sleepsense/internal/auth"
	"github.com/yourname/sleepsense/internal/config"
)

func NewRouter(app App, provider auth.Provider, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(), MetricsMiddleware(), LoggingMiddleware(app.Logger()))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:  []string{"Authorization", "Content-Type", "X-Request-ID"},
			ExposeHeaders: []string{"X-Request-ID"},
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected routes
	protected := r.Group("/", auth.AuthMiddleware(provider, cfg))
	protected.POST("/daily-inputs", PostDailyInput(app))
	protected.POST("/daily-inputs/draft", PostDraft(app))
	protected.GET("/daily-inputs", GetDailyInputs(app))
	protected.GET("/daily-inputs/:date", GetDailyInput(app))
	protected.PUT("/daily-inputs/:date", PutDailyInput(app))
	protected.GET("/dashboard", GetDashboard(app))
	protected.GET("/dashboard/correlations", GetCorrelations(app))

	return r
}
