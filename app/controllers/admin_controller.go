package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/address-resolver/app/models"
	"github.com/address-resolver/app/requests"
	"github.com/address-resolver/app/responses"
	"github.com/address-resolver/app/services"
)

// AliasStore nơi lưu alias học được và thống kê database
type AliasStore interface {
	AddAlias(ctx context.Context, token, canonical string) (*models.LearnedAliases, error)
	Stats(ctx context.Context) (*services.DatabaseStats, error)
}

// AdminController controller xử lý các request admin
type AdminController struct {
	addressService *services.AddressService
	aliasStore     AliasStore
	logger         *zap.Logger
}

// NewAdminController tạo mới AdminController, aliasStore có thể nil khi không có MongoDB
func NewAdminController(addressService *services.AddressService, aliasStore AliasStore, logger *zap.Logger) *AdminController {
	return &AdminController{
		addressService: addressService,
		aliasStore:     aliasStore,
		logger:         logger,
	}
}

// Reload nạp lại dữ liệu tham chiếu
func (ac *AdminController) Reload(c *gin.Context) {
	info, err := ac.addressService.Reload(c.Request.Context())
	if err != nil {
		ac.logger.Error("Lỗi nạp lại dữ liệu tham chiếu", zap.Error(err))
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.ReloadResponse{
		PreviousVersion: info.PreviousVersion,
		DatasetVersion:  info.Version,
		Counts:          info.Counts,
		Warnings:        info.Warnings,
	})
}

// AddAlias lưu alias mới, nạp lại ngay khi có reload=1
func (ac *AdminController) AddAlias(c *gin.Context) {
	if ac.aliasStore == nil {
		abortWithError(c, http.StatusServiceUnavailable, "NOT_CONFIGURED", "Chưa cấu hình nơi lưu alias")
		return
	}

	var req requests.AddAliasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "INVALID_REQUEST", "Request không hợp lệ: "+err.Error())
		return
	}

	alias, err := ac.aliasStore.AddAlias(c.Request.Context(), req.Alias, req.Canonical)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	message := "Alias đã được lưu, có hiệu lực sau lần nạp lại tiếp theo"
	if c.Query("reload") == "1" {
		if _, err := ac.addressService.Reload(c.Request.Context()); err != nil {
			abortWithServiceError(c, err)
			return
		}
		message = "Alias đã được lưu và áp dụng"
	}

	c.JSON(http.StatusCreated, responses.SuccessResponse{
		Success:   true,
		Message:   message,
		Data:      alias,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// ClearCache xóa cache kết quả, stale=1 chỉ xóa kết quả của phiên bản cũ
func (ac *AdminController) ClearCache(c *gin.Context) {
	cache := ac.addressService.Cache()
	if cache == nil {
		abortWithError(c, http.StatusServiceUnavailable, "NOT_CONFIGURED", "Cache chưa được bật")
		return
	}

	ctx := c.Request.Context()
	var err error
	if c.Query("stale") == "1" {
		err = cache.InvalidateByDatasetVersion(ctx, ac.addressService.Version())
	} else {
		err = cache.Clear(ctx)
	}
	if err != nil {
		ac.logger.Error("Lỗi xóa cache", zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "CACHE_ERROR", "Lỗi xóa cache: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, responses.SuccessResponse{
		Success:   true,
		Message:   "Cache đã được xóa",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// GetCacheEntry kiểm tra kết quả của một địa chỉ đã nằm trong cache chưa
func (ac *AdminController) GetCacheEntry(c *gin.Context) {
	entry, err := ac.addressService.LookupCache(c.Request.Context(), c.Query("address"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.CacheEntryResponse{
		Key:            entry.Key,
		DatasetVersion: ac.addressService.Version(),
		Exists:         entry.Exists,
		TTLSeconds:     int64(entry.TTL.Seconds()),
	})
}

// GetStats lấy thống kê hệ thống
func (ac *AdminController) GetStats(c *gin.Context) {
	ctx := c.Request.Context()
	resp := responses.AdminStatsResponse{
		Jobs:          ac.addressService.JobCount(),
		UptimeSeconds: int64(time.Since(ac.addressService.GetStartTime()).Seconds()),
		Memory:        services.MemoryUsage(),
	}

	if version, counts, report, ok := ac.addressService.Snapshot(); ok {
		resp.DatasetVersion = version
		resp.Counts = counts
		resp.Report = report
	}

	if cache := ac.addressService.Cache(); cache != nil {
		stats, err := cache.GetStats(ctx)
		if err != nil {
			ac.logger.Warn("Lỗi lấy cache stats", zap.Error(err))
		} else {
			resp.Cache = stats
		}
	}

	if ac.aliasStore != nil {
		dbStats, err := ac.aliasStore.Stats(ctx)
		if err != nil {
			ac.logger.Warn("Lỗi lấy database stats", zap.Error(err))
		} else {
			resp.LearnedAliases = dbStats.LearnedAliases
		}
	}

	c.JSON(http.StatusOK, resp)
}
