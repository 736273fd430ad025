package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/address-resolver/app/models"
)

// HybridCacheService cache hai tầng: L1 nhanh (Redis) và L2 bền (MongoDB)
type HybridCacheService struct {
	l1     ICacheService
	l2     ICacheService
	logger *zap.Logger
}

// NewHybridCacheService tạo mới hybrid cache service
func NewHybridCacheService(l1, l2 ICacheService, logger *zap.Logger) *HybridCacheService {
	return &HybridCacheService{
		l1:     l1,
		l2:     l2,
		logger: logger,
	}
}

// Get lấy kết quả từ L1 trước, L2 sau
func (hcs *HybridCacheService) Get(ctx context.Context, key string) (*models.AddressResult, error) {
	result, err := hcs.l1.Get(ctx, key)
	switch {
	case err == nil:
		return result, nil
	case !errors.Is(err, ErrCacheMiss):
		hcs.logger.Warn("Lỗi cache L1, fallback L2", zap.Error(err))
	}

	result, err = hcs.l2.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	// đồng bộ ngược lên L1
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := hcs.l1.Set(bgCtx, key, result); err != nil {
			hcs.logger.Warn("Lỗi sync L2->L1", zap.Error(err), zap.String("key", key))
		}
	}()

	return result, nil
}

// Set lưu kết quả vào cả hai tầng song song
func (hcs *HybridCacheService) Set(ctx context.Context, key string, result *models.AddressResult) error {
	return hcs.both(func(c ICacheService) error { return c.Set(ctx, key, result) })
}

// Delete xóa key khỏi cả hai tầng
func (hcs *HybridCacheService) Delete(ctx context.Context, key string) error {
	return hcs.both(func(c ICacheService) error { return c.Delete(ctx, key) })
}

// Clear xóa toàn bộ cache
func (hcs *HybridCacheService) Clear(ctx context.Context) error {
	if err := hcs.both(func(c ICacheService) error { return c.Clear(ctx) }); err != nil {
		return err
	}
	hcs.logger.Info("Cleared hybrid cache")
	return nil
}

// InvalidateByDatasetVersion xóa cache cũ ở cả hai tầng
func (hcs *HybridCacheService) InvalidateByDatasetVersion(ctx context.Context, datasetVersion string) error {
	return hcs.both(func(c ICacheService) error { return c.InvalidateByDatasetVersion(ctx, datasetVersion) })
}

// GetStats cộng dồn thống kê của hai tầng
func (hcs *HybridCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	l1Stats, l1Err := hcs.l1.GetStats(ctx)
	l2Stats, l2Err := hcs.l2.GetStats(ctx)

	switch {
	case l1Err != nil && l2Err != nil:
		return nil, errors.Join(l1Err, l2Err)
	case l1Err != nil:
		return l2Stats, nil
	case l2Err != nil:
		return l1Stats, nil
	}

	// miss ở L1 rơi xuống L2 nên chỉ tính miss cuối cùng
	hits := l1Stats.TotalHits + l2Stats.TotalHits
	return newCacheStats(hits, l2Stats.TotalMiss, l2Stats.TotalItems), nil
}

// Exists kiểm tra L1 trước, L2 sau
func (hcs *HybridCacheService) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := hcs.l1.Exists(ctx, key)
	if err != nil {
		hcs.logger.Warn("Lỗi check L1 exists, fallback L2", zap.Error(err))
	} else if exists {
		return true, nil
	}
	return hcs.l2.Exists(ctx, key)
}

// GetTTL lấy TTL của key từ L1
func (hcs *HybridCacheService) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	return hcs.l1.GetTTL(ctx, key)
}

// Close đóng cả hai tầng
func (hcs *HybridCacheService) Close() error {
	return hcs.both(func(c ICacheService) error { return c.Close() })
}

func (hcs *HybridCacheService) both(op func(ICacheService) error) error {
	errCh := make(chan error, 2)
	for _, c := range []ICacheService{hcs.l1, hcs.l2} {
		go func(c ICacheService) {
			errCh <- op(c)
		}(c)
	}

	var errs []error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
