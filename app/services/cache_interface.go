package services

import (
	"context"
	"errors"
	"time"

	"github.com/address-resolver/app/models"
)

// ErrCacheMiss không có kết quả trong cache
var ErrCacheMiss = errors.New("cache miss")

// CacheStats thống kê cache
type CacheStats struct {
	HitRate    float64 `json:"hit_rate"`
	TotalHits  int64   `json:"total_hits"`
	TotalMiss  int64   `json:"total_miss"`
	TotalItems int64   `json:"total_items"`
}

func newCacheStats(hits, misses, items int64) *CacheStats {
	stats := &CacheStats{TotalHits: hits, TotalMiss: misses, TotalItems: items}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	return stats
}

// ICacheService interface định nghĩa các method cần thiết cho cache
type ICacheService interface {
	// Get lấy kết quả từ cache, trả về ErrCacheMiss nếu không có
	Get(ctx context.Context, key string) (*models.AddressResult, error)

	// Set lưu kết quả vào cache
	Set(ctx context.Context, key string, result *models.AddressResult) error

	// Delete xóa kết quả khỏi cache
	Delete(ctx context.Context, key string) error

	// Clear xóa tất cả cache
	Clear(ctx context.Context) error

	// InvalidateByDatasetVersion xóa các kết quả không thuộc phiên bản dữ liệu hiện tại
	InvalidateByDatasetVersion(ctx context.Context, datasetVersion string) error

	// GetStats lấy thống kê cache
	GetStats(ctx context.Context) (*CacheStats, error)

	// Exists kiểm tra key có tồn tại không
	Exists(ctx context.Context, key string) (bool, error)

	// GetTTL lấy TTL còn lại của key
	GetTTL(ctx context.Context, key string) (time.Duration, error)

	// Close đóng kết nối (nếu cần)
	Close() error
}
