// Package search lưu và đọc dữ liệu tham chiếu trên Meilisearch
package search

import (
	"fmt"
	"time"

	ms "github.com/meilisearch/meilisearch-go"
)

// Loại document trong index tham chiếu
const (
	KindRaw      = "raw"
	KindStandard = "standard"
	KindAlias    = "alias"
)

// SearchConfig cấu hình cho Meilisearch
type SearchConfig struct {
	Host      string
	APIKey    string
	IndexName string
	Timeout   time.Duration
	PageSize  int
}

func (c SearchConfig) pageSize() int64 {
	if c.PageSize <= 0 {
		return 1000
	}
	return int64(c.PageSize)
}

// NewClient tạo Meilisearch client
func NewClient(cfg SearchConfig) ms.ServiceManager {
	return ms.New(cfg.Host, ms.WithAPIKey(cfg.APIKey))
}

// FilterLevelKind tạo filter theo cấp và loại document
func FilterLevelKind(level int, kind string) string {
	return fmt.Sprintf("level = %d AND kind = %q", level, kind)
}

// FilterKind tạo filter theo loại document
func FilterKind(kind string) string {
	return fmt.Sprintf("kind = %q", kind)
}
