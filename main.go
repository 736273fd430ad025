package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/address-resolver/app/bootstrap"
	"github.com/address-resolver/app/config"
	"github.com/address-resolver/app/controllers"
	"github.com/address-resolver/app/services"
	"github.com/address-resolver/routes"
)

func main() {
	// 1. Load configuration
	bootstrap.LoadConfig()

	// 2. Khởi tạo logger
	logger := bootstrap.InitLogger()
	defer logger.Sync()

	logger.Info("Starting Address Resolver Service")
	ctx := context.Background()

	// 3. Kết nối MongoDB và Meilisearch nếu được cấu hình
	mongoDB, err := bootstrap.InitMongoDB(ctx, logger)
	if err != nil {
		logger.Fatal("Failed to initialize MongoDB", zap.Error(err))
	}
	if mongoDB != nil {
		defer func() {
			if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
				logger.Error("Error disconnecting MongoDB", zap.Error(err))
			}
		}()
	}

	referenceStore, err := bootstrap.InitReferenceStore(logger)
	if err != nil {
		logger.Fatal("Failed to initialize Meilisearch", zap.Error(err))
	}

	// 4. Cache kết quả
	cacheService, mongoCache, err := bootstrap.InitCache(mongoDB, logger)
	if err != nil {
		logger.Fatal("Failed to initialize cache", zap.Error(err))
	}
	if cacheService != nil {
		defer cacheService.Close()
	}

	// 5. Nguồn dữ liệu tham chiếu và services
	source, err := bootstrap.SelectSource(config.C.Reference, mongoDB, referenceStore)
	if err != nil {
		logger.Fatal("Invalid reference source", zap.Error(err))
	}

	var (
		adminService *services.AdminService
		aliasStore   controllers.AliasStore
		aliases      services.AliasProvider
	)
	if mongoDB != nil {
		adminService = services.NewAdminService(mongoDB, referenceStore, logger)
		aliasStore = adminService
		aliases = adminService
	}

	addressService, err := services.NewAddressService(source, cacheService, aliases, bootstrap.ServiceOptions(config.C), logger)
	if err != nil {
		logger.Fatal("Failed to initialize address service", zap.Error(err))
	}
	defer addressService.Shutdown()

	// 6. Nạp dữ liệu tham chiếu, lỗi thì vẫn chạy để /ready báo chưa sẵn sàng
	if _, err := addressService.Reload(ctx); err != nil {
		logger.Error("Failed to load reference data", zap.Error(err))
	} else if mongoCache != nil {
		if err := mongoCache.WarmUp(ctx, addressService.Version(), viper.GetInt("cache.l1_size")/2); err != nil {
			logger.Warn("Failed to warm up cache", zap.Error(err))
		}
	}

	// 7. Controllers và routes
	addressController := controllers.NewAddressController(addressService, logger)
	adminController := controllers.NewAdminController(addressService, aliasStore, logger)

	if viper.GetString("app.env") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.SetupAllRoutes(router, addressController, adminController, logger)

	// 8. Khởi động server
	srv := &http.Server{
		Addr:    ":" + viper.GetString("app.port"),
		Handler: router,
	}
	go func() {
		logger.Info("Address Resolver Service starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}
