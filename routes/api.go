package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/address-resolver/app/controllers"
)

// SetupAPIRoutes thiết lập tất cả API routes
func SetupAPIRoutes(router *gin.Engine, addressController *controllers.AddressController, adminController *controllers.AdminController) {
	v1 := router.Group("/v1")
	{
		addresses := v1.Group("/addresses")
		{
			addresses.POST("/resolve", addressController.ResolveAddress)
			addresses.POST("/batch", addressController.BatchResolve)
		}

		jobs := v1.Group("/jobs")
		{
			jobs.GET("/:jobID/status", addressController.GetJobStatus)
			jobs.GET("/:jobID/results", addressController.GetJobResults)
		}

		admin := v1.Group("/admin")
		{
			admin.GET("/stats", adminController.GetStats)
			admin.POST("/reload", adminController.Reload)
			admin.POST("/aliases", adminController.AddAlias)
			admin.DELETE("/cache", adminController.ClearCache)
			admin.GET("/cache/entry", adminController.GetCacheEntry)
		}

		v1.GET("/health", addressController.HealthCheck)
	}
}

// SetupHealthRoutes thiết lập health check routes
func SetupHealthRoutes(router *gin.Engine, addressController *controllers.AddressController) {
	router.GET("/health", addressController.HealthCheck)
	router.GET("/ready", addressController.Ready)
	router.GET("/live", addressController.Live)
}

// SetupAllRoutes thiết lập middleware và tất cả routes
func SetupAllRoutes(router *gin.Engine, addressController *controllers.AddressController, adminController *controllers.AdminController, logger *zap.Logger) {
	setupMiddleware(router, logger)

	SetupWebRoutes(router)
	SetupHealthRoutes(router, addressController)
	SetupAPIRoutes(router, addressController, adminController)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "ROUTE_NOT_FOUND",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}
