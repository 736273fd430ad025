package services

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/address-resolver/app/models"
	"github.com/address-resolver/internal/gazetteer"
	"github.com/address-resolver/internal/search"
	"github.com/address-resolver/internal/trie"
)

const (
	adminUnitsCollection     = "admin_units"
	learnedAliasesCollection = "learned_aliases"
	addressCacheCollection   = "address_cache"
)

// ErrInvalidAlias alias thiếu vế hoặc token có nhiều hơn một từ
var ErrInvalidAlias = errors.New("invalid alias")

// AdminService service quản lý dữ liệu tham chiếu và alias
type AdminService struct {
	db     *mongo.Database
	store  *search.ReferenceStore
	logger *zap.Logger
}

// SeedResult kết quả seed dữ liệu tham chiếu
type SeedResult struct {
	DatasetVersion   string `json:"dataset_version"`
	UnitsProcessed   int    `json:"units_processed"`
	DocumentsIndexed int    `json:"documents_indexed"`
	ProcessingTimeMs int64  `json:"processing_time_ms"`
}

// DatabaseStats thống kê database
type DatabaseStats struct {
	AdminUnits     int64 `json:"admin_units"`
	AddressCache   int64 `json:"address_cache"`
	LearnedAliases int64 `json:"learned_aliases"`
}

// NewAdminService tạo mới AdminService, store có thể nil khi không dùng Meilisearch
func NewAdminService(db *mongo.Database, store *search.ReferenceStore, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		db:     db,
		store:  store,
		logger: logger,
	}
}

// MongoReferenceSource đọc bộ dữ liệu tham chiếu từ collection admin_units
type MongoReferenceSource struct {
	collection *mongo.Collection
}

// NewMongoReferenceSource tạo mới MongoReferenceSource
func NewMongoReferenceSource(db *mongo.Database) *MongoReferenceSource {
	return &MongoReferenceSource{collection: db.Collection(adminUnitsCollection)}
}

// Load đọc toàn bộ admin_units theo cấp, loại và thứ tự dòng gốc
func (s *MongoReferenceSource) Load(ctx context.Context) (*gazetteer.Dataset, error) {
	opts := options.Find().SetSort(bson.D{
		bson.E{Key: "level", Value: 1},
		bson.E{Key: "kind", Value: 1},
		bson.E{Key: "seq", Value: 1},
	})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("lỗi query admin_units: %w", err)
	}
	defer cursor.Close(ctx)

	var units []models.AdminUnit
	if err := cursor.All(ctx, &units); err != nil {
		return nil, fmt.Errorf("lỗi decode admin_units: %w", err)
	}

	ds := DatasetFromUnits(units)
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("mongodb %s: %w", adminUnitsCollection, err)
	}
	return ds, nil
}

// DatasetFromUnits dựng bộ dữ liệu từ các AdminUnit đã sắp theo seq
func DatasetFromUnits(units []models.AdminUnit) *gazetteer.Dataset {
	ds := &gazetteer.Dataset{Source: "mongodb:" + adminUnitsCollection}
	for i := range units {
		u := &units[i]
		if !u.IsValidLevel() {
			continue
		}
		data := ds.Level(trie.Level(u.Level))
		if u.Kind == models.UnitKindStandard {
			data.Standard = append(data.Standard, u.Line())
		} else {
			data.Raw = append(data.Raw, u.Line())
		}
	}
	return ds
}

// UnitsFromDataset chuyển bộ dữ liệu thành AdminUnit để lưu MongoDB
func UnitsFromDataset(ds *gazetteer.Dataset) []models.AdminUnit {
	version := ds.Version()
	now := time.Now()

	var units []models.AdminUnit
	for _, level := range []trie.Level{trie.LevelProvince, trie.LevelDistrict, trie.LevelWard} {
		data := ds.Level(level)
		for i, line := range data.Raw {
			units = append(units, models.AdminUnit{
				Level:          int(level),
				Kind:           models.UnitKindRaw,
				Seq:            i,
				Name:           line,
				DatasetVersion: version,
				CreatedAt:      now,
			})
		}
		for i, line := range data.Standard {
			name, ok := trie.ParseStandardLine(line, level)
			if !ok {
				continue
			}
			units = append(units, models.AdminUnit{
				Level:          int(level),
				Kind:           models.UnitKindStandard,
				Seq:            i,
				Name:           name.Text,
				District:       name.District,
				Province:       name.Province,
				DatasetVersion: version,
				CreatedAt:      now,
			})
		}
	}
	return units
}

// SeedReference ghi đè admin_units bằng bộ dữ liệu mới và seed Meilisearch nếu có
func (as *AdminService) SeedReference(ctx context.Context, ds *gazetteer.Dataset) (*SeedResult, error) {
	startTime := time.Now()

	if err := ds.Validate(); err != nil {
		return nil, err
	}

	units := UnitsFromDataset(ds)
	collection := as.db.Collection(adminUnitsCollection)

	deleteResult, err := collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("lỗi xóa dữ liệu cũ: %w", err)
	}
	as.logger.Info("Deleted old admin units", zap.Int64("deleted_count", deleteResult.DeletedCount))

	documents := make([]interface{}, len(units))
	for i := range units {
		documents[i] = units[i]
	}
	if _, err := collection.InsertMany(ctx, documents); err != nil {
		return nil, fmt.Errorf("lỗi insert dữ liệu mới: %w", err)
	}

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{bson.E{Key: "level", Value: 1}, bson.E{Key: "kind", Value: 1}, bson.E{Key: "seq", Value: 1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		as.logger.Warn("Không thể tạo indexes cho admin_units", zap.Error(err))
	}

	// alias của bộ dữ liệu được lưu như alias thủ công để gộp lại khi nạp
	for _, token := range sortedKeys(ds.Aliases) {
		if _, err := as.AddAlias(ctx, token, ds.Aliases[token]); err != nil {
			as.logger.Warn("Bỏ qua alias không hợp lệ", zap.String("token", token), zap.Error(err))
		}
	}

	result := &SeedResult{
		DatasetVersion: ds.Version(),
		UnitsProcessed: len(units),
	}

	if as.store != nil {
		if err := as.store.Configure(); err != nil {
			as.logger.Warn("Lỗi cấu hình Meilisearch index", zap.Error(err))
		}
		indexed, err := as.store.Seed(ctx, ds, 0)
		if err != nil {
			return nil, fmt.Errorf("lỗi seed Meilisearch: %w", err)
		}
		result.DocumentsIndexed = indexed
	}

	result.ProcessingTimeMs = time.Since(startTime).Milliseconds()
	as.logger.Info("Reference seed completed",
		zap.String("dataset_version", result.DatasetVersion),
		zap.Int("units_processed", result.UnitsProcessed),
		zap.Int("documents_indexed", result.DocumentsIndexed),
		zap.Int64("processing_time_ms", result.ProcessingTimeMs))
	return result, nil
}

// AddAlias thêm hoặc cập nhật alias thủ công
func (as *AdminService) AddAlias(ctx context.Context, token, canonical string) (*models.LearnedAliases, error) {
	alias := models.NewLearnedAliases(token, canonical, models.SourceManual)
	if !alias.IsValid() {
		return nil, fmt.Errorf("%w: %q -> %q", ErrInvalidAlias, token, canonical)
	}

	filter := bson.M{"original_token": alias.OriginalToken}
	update := bson.M{
		"$set": bson.M{
			"canonical_form": alias.CanonicalForm,
			"source":         alias.Source,
			"last_used":      alias.LastUsed,
		},
		"$setOnInsert": bson.M{"created_at": alias.CreatedAt},
		"$inc":         bson.M{"usage_count": 1},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := as.db.Collection(learnedAliasesCollection).UpdateOne(ctx, filter, update, opts); err != nil {
		return nil, fmt.Errorf("lỗi lưu learned alias: %w", err)
	}

	as.logger.Info("Learned alias saved",
		zap.String("token", alias.OriginalToken),
		zap.String("canonical", alias.CanonicalForm))
	return alias, nil
}

// LearnedAliases đọc toàn bộ alias hợp lệ dưới dạng bảng token -> tên chuẩn
func (as *AdminService) LearnedAliases(ctx context.Context) (map[string]string, error) {
	cursor, err := as.db.Collection(learnedAliasesCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("lỗi lấy learned_aliases: %w", err)
	}
	defer cursor.Close(ctx)

	aliases := make(map[string]string)
	for cursor.Next(ctx) {
		var alias models.LearnedAliases
		if err := cursor.Decode(&alias); err != nil {
			as.logger.Warn("Lỗi decode learned alias", zap.Error(err))
			continue
		}
		if !alias.IsValid() {
			continue
		}
		aliases[alias.OriginalToken] = alias.CanonicalForm
	}
	return aliases, cursor.Err()
}

// Stats đếm bản ghi của các collection
func (as *AdminService) Stats(ctx context.Context) (*DatabaseStats, error) {
	stats := &DatabaseStats{}
	counts := []struct {
		name   string
		target *int64
	}{
		{adminUnitsCollection, &stats.AdminUnits},
		{addressCacheCollection, &stats.AddressCache},
		{learnedAliasesCollection, &stats.LearnedAliases},
	}
	for _, c := range counts {
		n, err := as.db.Collection(c.name).CountDocuments(ctx, bson.M{})
		if err != nil {
			return nil, fmt.Errorf("lỗi đếm %s: %w", c.name, err)
		}
		*c.target = n
	}
	return stats, nil
}

// MemoryUsage thông số bộ nhớ của tiến trình, tính theo MB
func MemoryUsage() map[string]uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return map[string]uint64{
		"alloc_mb":       bToMb(m.Alloc),
		"total_alloc_mb": bToMb(m.TotalAlloc),
		"sys_mb":         bToMb(m.Sys),
		"num_gc":         uint64(m.NumGC),
	}
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
