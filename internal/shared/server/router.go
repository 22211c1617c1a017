package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"cv-analyzer-backend/internal/analyses"
	"cv-analyzer-backend/internal/services/health"
	"cv-analyzer-backend/internal/shared/config"
	"cv-analyzer-backend/internal/shared/metrics"
	"cv-analyzer-backend/internal/shared/server/middleware"
	"cv-analyzer-backend/internal/webui"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, analysisHandler *analyses.Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	webui.Register(r)
	r.GET("/metrics", metrics.Handler())

	healthSvc := health.NewService()
	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, healthSvc.Status())
	})
	analysisHandler.RegisterRoutes(api)

	return r
}

// Addr returns a normalized listen address for the given port.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
