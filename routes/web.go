package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupWebRoutes thiết lập trang giới thiệu
func SetupWebRoutes(router *gin.Engine) {
	web := router.Group("/")
	{
		web.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message": "Address Resolver Service",
				"docs":    "/docs",
			})
		})

		web.GET("/docs", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"api": "Address Resolver API v1",
				"endpoints": map[string]string{
					"resolve":     "POST /v1/addresses/resolve",
					"batch":       "POST /v1/addresses/batch",
					"job_status":  "GET /v1/jobs/:jobID/status",
					"job_results": "GET /v1/jobs/:jobID/results?format=ndjson&gzip=1",
					"stats":       "GET /v1/admin/stats",
					"reload":      "POST /v1/admin/reload",
					"add_alias":   "POST /v1/admin/aliases",
					"clear_cache": "DELETE /v1/admin/cache",
					"health":      "GET /health",
					"readiness":   "GET /ready",
					"liveness":    "GET /live",
				},
			})
		})
	}
}
