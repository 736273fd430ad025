package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/address-resolver/app/models"
)

// RedisCacheService cache service sử dụng Redis
type RedisCacheService struct {
	client *redis.Client
	logger *zap.Logger
	prefix string
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisCacheService tạo mới Redis cache service
func NewRedisCacheService(redisURL string, ttl time.Duration, logger *zap.Logger) (*RedisCacheService, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("lỗi parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("không thể kết nối Redis: %w", err)
	}

	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisCacheService{
		client: client,
		logger: logger,
		prefix: "addr_resolver:",
		ttl:    ttl,
	}, nil
}

// Get lấy kết quả từ cache
func (rcs *RedisCacheService) Get(ctx context.Context, key string) (*models.AddressResult, error) {
	cacheKey := rcs.prefix + key

	val, err := rcs.client.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		rcs.misses.Add(1)
		return nil, ErrCacheMiss
	}
	if err != nil {
		rcs.logger.Error("Lỗi get từ Redis", zap.Error(err), zap.String("key", cacheKey))
		return nil, err
	}

	var result models.AddressResult
	if err := json.Unmarshal(val, &result); err != nil {
		return nil, fmt.Errorf("lỗi unmarshal cache data: %w", err)
	}

	rcs.hits.Add(1)
	rcs.logger.Debug("Redis cache hit", zap.String("key", key))
	return &result, nil
}

// Set lưu kết quả vào cache
func (rcs *RedisCacheService) Set(ctx context.Context, key string, result *models.AddressResult) error {
	cacheKey := rcs.prefix + key

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("lỗi marshal cache data: %w", err)
	}

	if err := rcs.client.Set(ctx, cacheKey, data, rcs.ttl).Err(); err != nil {
		rcs.logger.Error("Lỗi set vào Redis", zap.Error(err), zap.String("key", cacheKey))
		return err
	}
	return nil
}

// Delete xóa key khỏi cache
func (rcs *RedisCacheService) Delete(ctx context.Context, key string) error {
	return rcs.client.Del(ctx, rcs.prefix+key).Err()
}

// Clear xóa toàn bộ cache
func (rcs *RedisCacheService) Clear(ctx context.Context) error {
	deleted, err := rcs.deleteMatching(ctx, func(string) bool { return true })
	if err != nil {
		return err
	}
	rcs.hits.Store(0)
	rcs.misses.Store(0)

	rcs.logger.Info("Đã clear Redis cache", zap.Int("keys_deleted", deleted))
	return nil
}

// InvalidateByDatasetVersion xóa các key không thuộc phiên bản dữ liệu hiện tại
//
// Key cache có dạng <version>:<fingerprint> nên chỉ cần so tiền tố.
func (rcs *RedisCacheService) InvalidateByDatasetVersion(ctx context.Context, datasetVersion string) error {
	current := rcs.prefix + datasetVersion + ":"
	deleted, err := rcs.deleteMatching(ctx, func(key string) bool {
		return !strings.HasPrefix(key, current)
	})
	if err != nil {
		return err
	}

	rcs.logger.Info("Đã invalidate Redis cache",
		zap.String("dataset_version", datasetVersion),
		zap.Int("keys_deleted", deleted))
	return nil
}

// deleteMatching quét các key có prefix bằng SCAN và xóa key thỏa điều kiện
func (rcs *RedisCacheService) deleteMatching(ctx context.Context, match func(string) bool) (int, error) {
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := rcs.client.Scan(ctx, cursor, rcs.prefix+"*", 500).Result()
		if err != nil {
			return deleted, fmt.Errorf("lỗi scan keys: %w", err)
		}

		var stale []string
		for _, k := range keys {
			if match(k) {
				stale = append(stale, k)
			}
		}
		if len(stale) > 0 {
			if err := rcs.client.Del(ctx, stale...).Err(); err != nil {
				return deleted, fmt.Errorf("lỗi xóa keys: %w", err)
			}
			deleted += len(stale)
		}

		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// GetStats lấy thống kê cache
func (rcs *RedisCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	var items int64
	var cursor uint64
	for {
		keys, next, err := rcs.client.Scan(ctx, cursor, rcs.prefix+"*", 500).Result()
		if err != nil {
			return nil, fmt.Errorf("lỗi scan keys: %w", err)
		}
		items += int64(len(keys))
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return newCacheStats(rcs.hits.Load(), rcs.misses.Load(), items), nil
}

// Exists kiểm tra key có tồn tại không
func (rcs *RedisCacheService) Exists(ctx context.Context, key string) (bool, error) {
	n, err := rcs.client.Exists(ctx, rcs.prefix+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetTTL lấy TTL của key
func (rcs *RedisCacheService) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	return rcs.client.TTL(ctx, rcs.prefix+key).Result()
}

// Close đóng kết nối Redis
func (rcs *RedisCacheService) Close() error {
	return rcs.client.Close()
}
