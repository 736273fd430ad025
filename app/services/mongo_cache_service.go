package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/address-resolver/app/models"
)

// MongoCacheService persistent cache service sử dụng MongoDB + LRU in-memory
type MongoCacheService struct {
	collection *mongo.Collection
	l1Cache    *lru.Cache[string, *models.AddressResult]
	logger     *zap.Logger

	l1Hits    atomic.Int64
	mongoHits atomic.Int64
	misses    atomic.Int64
}

// NewMongoCacheService tạo mới MongoCacheService
func NewMongoCacheService(db *mongo.Database, l1Size int, logger *zap.Logger) (*MongoCacheService, error) {
	l1Cache, err := lru.New[string, *models.AddressResult](l1Size)
	if err != nil {
		return nil, fmt.Errorf("không thể tạo LRU cache: %w", err)
	}

	collection := db.Collection("address_cache")

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "fingerprint", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{bson.E{Key: "dataset_version", Value: 1}},
		},
		{
			Keys: bson.D{bson.E{Key: "last_accessed", Value: 1}},
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		logger.Warn("Không thể tạo indexes cho address_cache", zap.Error(err))
	}

	return &MongoCacheService{
		collection: collection,
		l1Cache:    l1Cache,
		logger:     logger,
	}, nil
}

// Get lấy kết quả từ cache (L1 → MongoDB)
func (mcs *MongoCacheService) Get(ctx context.Context, key string) (*models.AddressResult, error) {
	if result, found := mcs.l1Cache.Get(key); found {
		mcs.l1Hits.Add(1)
		return result, nil
	}

	filter := bson.M{"fingerprint": key}
	update := bson.M{
		"$set": bson.M{"last_accessed": time.Now()},
		"$inc": bson.M{"access_count": 1},
	}

	var entry models.AddressCache
	err := mcs.collection.FindOneAndUpdate(ctx, filter, update).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		mcs.misses.Add(1)
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("lỗi query MongoDB cache: %w", err)
	}

	mcs.mongoHits.Add(1)
	mcs.l1Cache.Add(key, &entry.Result)

	mcs.logger.Debug("MongoDB cache hit", zap.String("key", key))
	return &entry.Result, nil
}

// Set lưu kết quả vào cache (L1 + MongoDB)
func (mcs *MongoCacheService) Set(ctx context.Context, key string, result *models.AddressResult) error {
	mcs.l1Cache.Add(key, result)

	entry := models.NewAddressCache(key, *result)
	opts := options.Replace().SetUpsert(true)
	filter := bson.M{"fingerprint": key}

	if _, err := mcs.collection.ReplaceOne(ctx, filter, entry, opts); err != nil {
		mcs.logger.Error("Lỗi lưu vào MongoDB cache", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("lỗi lưu vào MongoDB cache: %w", err)
	}
	return nil
}

// Delete xóa kết quả khỏi cache
func (mcs *MongoCacheService) Delete(ctx context.Context, key string) error {
	mcs.l1Cache.Remove(key)

	if _, err := mcs.collection.DeleteOne(ctx, bson.M{"fingerprint": key}); err != nil {
		return fmt.Errorf("lỗi xóa khỏi MongoDB cache: %w", err)
	}
	return nil
}

// Clear xóa tất cả cache
func (mcs *MongoCacheService) Clear(ctx context.Context) error {
	mcs.l1Cache.Purge()

	if _, err := mcs.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("lỗi clear MongoDB cache: %w", err)
	}

	mcs.l1Hits.Store(0)
	mcs.mongoHits.Store(0)
	mcs.misses.Store(0)
	return nil
}

// InvalidateByDatasetVersion xóa các bản ghi của phiên bản dữ liệu cũ
func (mcs *MongoCacheService) InvalidateByDatasetVersion(ctx context.Context, datasetVersion string) error {
	mcs.l1Cache.Purge()

	filter := bson.M{"dataset_version": bson.M{"$ne": datasetVersion}}
	result, err := mcs.collection.DeleteMany(ctx, filter)
	if err != nil {
		return fmt.Errorf("lỗi invalidate cache theo dataset version: %w", err)
	}

	mcs.logger.Info("Đã invalidate cache",
		zap.String("dataset_version", datasetVersion),
		zap.Int64("deleted_count", result.DeletedCount))
	return nil
}

// GetStats lấy thống kê cache
func (mcs *MongoCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	count, err := mcs.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("lỗi đếm documents trong MongoDB cache: %w", err)
	}

	hits := mcs.l1Hits.Load() + mcs.mongoHits.Load()
	mcs.logger.Debug("Cache stats",
		zap.Int64("l1_hits", mcs.l1Hits.Load()),
		zap.Int64("mongo_hits", mcs.mongoHits.Load()),
		zap.Int("l1_size", mcs.l1Cache.Len()),
		zap.Int64("mongo_count", count))

	return newCacheStats(hits, mcs.misses.Load(), count), nil
}

// Exists kiểm tra key có tồn tại không
func (mcs *MongoCacheService) Exists(ctx context.Context, key string) (bool, error) {
	if mcs.l1Cache.Contains(key) {
		return true, nil
	}

	count, err := mcs.collection.CountDocuments(ctx, bson.M{"fingerprint": key})
	if err != nil {
		return false, fmt.Errorf("lỗi check exists trong MongoDB: %w", err)
	}
	return count > 0, nil
}

// GetTTL MongoDB cache không có TTL, luôn trả về 0
func (mcs *MongoCacheService) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	return 0, nil
}

// Close kết nối MongoDB do caller quản lý
func (mcs *MongoCacheService) Close() error {
	return nil
}

// WarmUp nạp các bản ghi được truy cập nhiều nhất của phiên bản hiện tại vào L1
func (mcs *MongoCacheService) WarmUp(ctx context.Context, datasetVersion string, limit int) error {
	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "access_count", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := mcs.collection.Find(ctx, bson.M{"dataset_version": datasetVersion}, opts)
	if err != nil {
		return fmt.Errorf("lỗi warm up cache: %w", err)
	}
	defer cursor.Close(ctx)

	count := 0
	for cursor.Next(ctx) {
		var entry models.AddressCache
		if err := cursor.Decode(&entry); err != nil {
			mcs.logger.Warn("Lỗi decode cache entry trong warm up", zap.Error(err))
			continue
		}
		result := entry.Result
		mcs.l1Cache.Add(entry.Fingerprint, &result)
		count++
	}

	mcs.logger.Info("Cache warm up hoàn thành",
		zap.Int("loaded_items", count),
		zap.Int("l1_size", mcs.l1Cache.Len()))
	return cursor.Err()
}
