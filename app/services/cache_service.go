package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/address-resolver/app/models"
)

type memoryEntry struct {
	result  *models.AddressResult
	addedAt time.Time
}

// CacheService cache in-memory có giới hạn kích thước và TTL
type CacheService struct {
	cache *expirable.LRU[string, memoryEntry]
	ttl   time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCacheService tạo mới CacheService
func NewCacheService(size int, ttl time.Duration) *CacheService {
	if size <= 0 {
		size = 10000
	}
	return &CacheService{
		cache: expirable.NewLRU[string, memoryEntry](size, nil, ttl),
		ttl:   ttl,
	}
}

// Get lấy kết quả từ cache
func (cs *CacheService) Get(ctx context.Context, key string) (*models.AddressResult, error) {
	entry, ok := cs.cache.Get(key)
	if !ok {
		cs.misses.Add(1)
		return nil, ErrCacheMiss
	}
	cs.hits.Add(1)
	return entry.result, nil
}

// Set lưu kết quả vào cache
func (cs *CacheService) Set(ctx context.Context, key string, result *models.AddressResult) error {
	cs.cache.Add(key, memoryEntry{result: result, addedAt: time.Now()})
	return nil
}

// Delete xóa item khỏi cache
func (cs *CacheService) Delete(ctx context.Context, key string) error {
	cs.cache.Remove(key)
	return nil
}

// Clear xóa toàn bộ cache
func (cs *CacheService) Clear(ctx context.Context) error {
	cs.cache.Purge()
	cs.hits.Store(0)
	cs.misses.Store(0)
	return nil
}

// InvalidateByDatasetVersion xóa các kết quả của phiên bản dữ liệu cũ
func (cs *CacheService) InvalidateByDatasetVersion(ctx context.Context, datasetVersion string) error {
	for _, key := range cs.cache.Keys() {
		entry, ok := cs.cache.Peek(key)
		if ok && entry.result.DatasetVersion != datasetVersion {
			cs.cache.Remove(key)
		}
	}
	return nil
}

// GetStats lấy thống kê cache
func (cs *CacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	return newCacheStats(cs.hits.Load(), cs.misses.Load(), int64(cs.cache.Len())), nil
}

// Exists kiểm tra key có tồn tại không
func (cs *CacheService) Exists(ctx context.Context, key string) (bool, error) {
	return cs.cache.Contains(key), nil
}

// GetTTL lấy TTL còn lại của key
func (cs *CacheService) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	entry, ok := cs.cache.Peek(key)
	if !ok || cs.ttl <= 0 {
		return 0, nil
	}
	remaining := cs.ttl - time.Since(entry.addedAt)
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

// Close không cần thiết cho in-memory cache
func (cs *CacheService) Close() error {
	return nil
}
