package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"

	"github.com/address-resolver/internal/gazetteer"
	"github.com/address-resolver/internal/trie"
)

// ReferenceDoc một dòng dữ liệu tham chiếu lưu trong Meilisearch
type ReferenceDoc struct {
	ID     string `json:"id"`
	Seq    int    `json:"seq"`
	Level  int    `json:"level"`
	Kind   string `json:"kind"`
	Line   string `json:"line"`
	Target string `json:"target,omitempty"`
}

// ReferenceStore đọc và ghi bộ dữ liệu tham chiếu trên một index Meilisearch
type ReferenceStore struct {
	client    meilisearch.ServiceManager
	logger    *zap.Logger
	indexName string
	pageSize  int64
}

// NewReferenceStore tạo mới ReferenceStore
func NewReferenceStore(client meilisearch.ServiceManager, cfg SearchConfig, logger *zap.Logger) *ReferenceStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceStore{
		client:    client,
		logger:    logger,
		indexName: cfg.IndexName,
		pageSize:  cfg.pageSize(),
	}
}

// Ping kiểm tra kết nối Meilisearch
func (s *ReferenceStore) Ping() error {
	if _, err := s.client.Health(); err != nil {
		return fmt.Errorf("không thể kết nối Meilisearch: %w", err)
	}
	return nil
}

// Load đọc toàn bộ document theo từng cấp và loại, theo thứ tự seq
func (s *ReferenceStore) Load(ctx context.Context) (*gazetteer.Dataset, error) {
	ds := &gazetteer.Dataset{Source: "meilisearch:" + s.indexName}

	for _, level := range []trie.Level{trie.LevelProvince, trie.LevelDistrict, trie.LevelWard} {
		data := ds.Level(level)

		raw, err := s.fetch(ctx, FilterLevelKind(int(level), KindRaw))
		if err != nil {
			return nil, err
		}
		standard, err := s.fetch(ctx, FilterLevelKind(int(level), KindStandard))
		if err != nil {
			return nil, err
		}
		for _, d := range raw {
			data.Raw = append(data.Raw, d.Line)
		}
		for _, d := range standard {
			data.Standard = append(data.Standard, d.Line)
		}
	}

	aliases, err := s.fetch(ctx, FilterKind(KindAlias))
	if err != nil {
		return nil, err
	}
	if len(aliases) > 0 {
		ds.Aliases = make(map[string]string, len(aliases))
		for _, d := range aliases {
			ds.Aliases[d.Line] = d.Target
		}
	}

	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("meilisearch index %s: %w", s.indexName, err)
	}

	s.logger.Info("Đã đọc dữ liệu tham chiếu từ Meilisearch",
		zap.String("index", s.indexName),
		zap.Int("provinces", ds.Provinces.Len()),
		zap.Int("districts", ds.Districts.Len()),
		zap.Int("wards", ds.Wards.Len()))
	return ds, nil
}

// fetch đọc từng trang cho tới khi trang trả về thiếu
func (s *ReferenceStore) fetch(ctx context.Context, filter string) ([]ReferenceDoc, error) {
	index := s.client.Index(s.indexName)

	var docs []ReferenceDoc
	for offset := int64(0); ; offset += s.pageSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := index.Search("", &meilisearch.SearchRequest{
			Filter: filter,
			Sort:   []string{"seq:asc"},
			Limit:  s.pageSize,
			Offset: offset,
		})
		if err != nil {
			return nil, fmt.Errorf("lỗi tìm kiếm với filter %s: %w", filter, err)
		}

		page := parseHits(result.Hits)
		docs = append(docs, page...)
		if int64(len(result.Hits)) < s.pageSize {
			return docs, nil
		}
	}
}

// parseHits parse kết quả từ Meilisearch thành ReferenceDoc
func parseHits(hits []interface{}) []ReferenceDoc {
	docs := make([]ReferenceDoc, 0, len(hits))
	for _, hit := range hits {
		hitMap, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}

		doc := ReferenceDoc{}
		if id, ok := hitMap["id"].(string); ok {
			doc.ID = id
		}
		if seq, ok := hitMap["seq"].(float64); ok {
			doc.Seq = int(seq)
		}
		if level, ok := hitMap["level"].(float64); ok {
			doc.Level = int(level)
		}
		if kind, ok := hitMap["kind"].(string); ok {
			doc.Kind = kind
		}
		if line, ok := hitMap["line"].(string); ok {
			doc.Line = line
		}
		if target, ok := hitMap["target"].(string); ok {
			doc.Target = target
		}
		if doc.Line == "" {
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

// Configure cấu hình index cho việc lọc và phân trang
func (s *ReferenceStore) Configure() error {
	index := s.client.Index(s.indexName)

	task, err := index.UpdateSettings(&meilisearch.Settings{
		SearchableAttributes: []string{"line", "target"},
		FilterableAttributes: []string{"level", "kind"},
		SortableAttributes:   []string{"seq"},
		Pagination:           &meilisearch.Pagination{MaxTotalHits: 100000},
	})
	if err != nil {
		return fmt.Errorf("lỗi cấu hình index: %w", err)
	}

	s.logger.Info("Đã cấu hình index Meilisearch thành công", zap.Int64("task_uid", task.TaskUID))
	return nil
}

// Seed nạp bộ dữ liệu vào Meilisearch theo từng batch
func (s *ReferenceStore) Seed(ctx context.Context, ds *gazetteer.Dataset, batchSize int) (int, error) {
	if err := ds.Validate(); err != nil {
		return 0, err
	}
	if batchSize <= 0 {
		batchSize = 1000
	}

	documents := Documents(ds)
	if len(documents) == 0 {
		return 0, errors.New("không có dữ liệu để seed")
	}

	index := s.client.Index(s.indexName)
	for i := 0; i < len(documents); i += batchSize {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		end := i + batchSize
		if end > len(documents) {
			end = len(documents)
		}

		task, err := index.AddDocuments(documents[i:end], "id")
		if err != nil {
			return i, fmt.Errorf("lỗi thêm documents batch %d-%d: %w", i, end, err)
		}

		s.logger.Info("Đã thêm batch documents",
			zap.Int("from", i),
			zap.Int("to", end),
			zap.Int64("task_uid", task.TaskUID))
	}

	s.logger.Info("Đã seed data thành công", zap.Int("total_documents", len(documents)))
	return len(documents), nil
}

// Documents chuyển bộ dữ liệu thành document, seq giữ thứ tự dòng gốc
func Documents(ds *gazetteer.Dataset) []ReferenceDoc {
	var docs []ReferenceDoc
	add := func(level int, kind, line, target string) {
		docs = append(docs, ReferenceDoc{
			ID:     docID(level, kind, line),
			Seq:    len(docs),
			Level:  level,
			Kind:   kind,
			Line:   line,
			Target: target,
		})
	}

	for _, level := range []trie.Level{trie.LevelProvince, trie.LevelDistrict, trie.LevelWard} {
		data := ds.Level(level)
		for _, line := range data.Raw {
			add(int(level), KindRaw, line, "")
		}
		for _, line := range data.Standard {
			add(int(level), KindStandard, line, "")
		}
	}
	for _, key := range sortedAliasKeys(ds.Aliases) {
		add(0, KindAlias, key, ds.Aliases[key])
	}
	return docs
}

// docID tạo khóa hợp lệ cho Meilisearch từ nội dung dòng
func docID(level int, kind, line string) string {
	sum := sha256.Sum256([]byte(strconv.Itoa(level) + "|" + kind + "|" + line))
	return hex.EncodeToString(sum[:12])
}

func sortedAliasKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
