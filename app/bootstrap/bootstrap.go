// Package bootstrap dựng các thành phần dùng chung cho HTTP server và các lệnh CLI
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/address-resolver/app/config"
	"github.com/address-resolver/app/services"
	"github.com/address-resolver/internal/gazetteer"
	"github.com/address-resolver/internal/parser"
	"github.com/address-resolver/internal/search"
)

// LoadConfig load cấu hình tiến trình bằng viper và cấu hình engine từ resolver.config
func LoadConfig() {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("mongo.url", "")
	viper.SetDefault("mongo.database", "address_resolver")
	viper.SetDefault("redis.url", "")
	viper.SetDefault("meilisearch.url", "")
	viper.SetDefault("meilisearch.master_key", "")
	viper.SetDefault("meilisearch.index", "admin_units")
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.l1_size", 10000)
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("resolver.config", "config/resolver.yaml")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Cannot read config file: %v", err)
	}

	if err := config.Load(viper.GetString("resolver.config")); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Fatalf("Cannot load resolver config: %v", err)
		}
		log.Printf("Warning: resolver config not found, using defaults")
	}
}

// InitLogger khởi tạo structured logger
func InitLogger() *zap.Logger {
	var cfg zap.Config
	if viper.GetString("app.env") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		log.Fatal("Cannot initialize logger:", err)
	}
	return logger
}

// InitMongoDB kết nối MongoDB, trả về nil khi chưa cấu hình mongo.url
func InitMongoDB(ctx context.Context, logger *zap.Logger) (*mongo.Database, error) {
	mongoURL := viper.GetString("mongo.url")
	if mongoURL == "" {
		return nil, nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	dbName := viper.GetString("mongo.database")
	logger.Info("Connected to MongoDB", zap.String("database", dbName))
	return client.Database(dbName), nil
}

// InitReferenceStore tạo ReferenceStore, trả về nil khi chưa cấu hình meilisearch.url
func InitReferenceStore(logger *zap.Logger) (*search.ReferenceStore, error) {
	host := viper.GetString("meilisearch.url")
	if host == "" {
		return nil, nil
	}

	cfg := search.SearchConfig{
		Host:      host,
		APIKey:    viper.GetString("meilisearch.master_key"),
		IndexName: viper.GetString("meilisearch.index"),
		Timeout:   30 * time.Second,
	}
	store := search.NewReferenceStore(search.NewClient(cfg), cfg, logger)
	if err := store.Ping(); err != nil {
		return nil, err
	}
	logger.Info("Connected to Meilisearch", zap.String("host", cfg.Host), zap.String("index", cfg.IndexName))
	return store, nil
}

// InitCache chọn cache theo hạ tầng có sẵn: Redis + MongoDB dùng hybrid, thiếu cả hai dùng bộ nhớ
func InitCache(db *mongo.Database, logger *zap.Logger) (services.ICacheService, *services.MongoCacheService, error) {
	if !viper.GetBool("cache.enabled") {
		return nil, nil, nil
	}

	l1Size := viper.GetInt("cache.l1_size")
	ttl := viper.GetDuration("cache.ttl")

	var redisCache *services.RedisCacheService
	if url := viper.GetString("redis.url"); url != "" {
		var err error
		redisCache, err = services.NewRedisCacheService(url, ttl, logger)
		if err != nil {
			return nil, nil, err
		}
	}

	var mongoCache *services.MongoCacheService
	if db != nil {
		var err error
		mongoCache, err = services.NewMongoCacheService(db, l1Size, logger)
		if err != nil {
			return nil, nil, err
		}
	}

	switch {
	case redisCache != nil && mongoCache != nil:
		return services.NewHybridCacheService(redisCache, mongoCache, logger), mongoCache, nil
	case redisCache != nil:
		return redisCache, nil, nil
	case mongoCache != nil:
		return mongoCache, mongoCache, nil
	default:
		return services.NewCacheService(l1Size, ttl), nil, nil
	}
}

// SelectSource chọn nguồn dữ liệu tham chiếu theo cấu hình
func SelectSource(cfg config.ReferenceCfg, db *mongo.Database, store *search.ReferenceStore) (gazetteer.Source, error) {
	switch cfg.Source {
	case "", "dir":
		return gazetteer.NewDirSource(cfg.Dir), nil
	case "mongo":
		if db == nil {
			return nil, errors.New("reference source mongo requires mongo.url")
		}
		return services.NewMongoReferenceSource(db), nil
	case "meilisearch":
		if store == nil {
			return nil, errors.New("reference source meilisearch requires meilisearch.url")
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown reference source %q", cfg.Source)
	}
}

// ServiceOptions chuyển cấu hình engine thành tùy chọn service
func ServiceOptions(cfg config.ResolverCfg) services.ServiceOptions {
	return services.ServiceOptions{
		Threshold:  cfg.Threshold,
		TieBreaker: cfg.TieBreaker,
		Batch: parser.BatchOptions{
			Workers: cfg.Batch.Workers,
			Timeout: cfg.Batch.RequestTimeout(),
		},
		MaxJobs: cfg.Batch.MaxJobs,
	}
}
