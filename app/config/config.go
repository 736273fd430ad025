package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ReferenceCfg nơi lấy dữ liệu tham chiếu
type ReferenceCfg struct {
	Source string `yaml:"source" json:"source"` // dir, mongo hoặc meilisearch
	Dir    string `yaml:"dir" json:"dir"`       // Thư mục file text khi source=dir
}

// BatchCfg cấu hình xử lý hàng loạt
type BatchCfg struct {
	Workers   int `yaml:"workers" json:"workers"`
	TimeoutMs int `yaml:"timeout_ms" json:"timeout_ms"` // Giới hạn thời gian cho mỗi địa chỉ
	MaxJobs   int `yaml:"max_jobs" json:"max_jobs"`     // Số job giữ lại trong bộ nhớ
}

// ResolverCfg cấu hình engine phân giải
type ResolverCfg struct {
	Threshold  float64      `yaml:"threshold" json:"threshold"`
	TieBreaker string       `yaml:"tie_breaker" json:"tie_breaker"`
	Batch      BatchCfg     `yaml:"batch" json:"batch"`
	Reference  ReferenceCfg `yaml:"reference" json:"reference"`
}

// C cấu hình đang dùng
var C = Default()

// Default cấu hình mặc định
func Default() ResolverCfg {
	return ResolverCfg{
		Threshold:  2.0,
		TieBreaker: "reverse_lexical",
		Batch: BatchCfg{
			Workers:   8,
			TimeoutMs: 1500,
			MaxJobs:   100,
		},
		Reference: ReferenceCfg{
			Source: "dir",
			Dir:    "data/reference",
		},
	}
}

// Load đọc file yaml đè lên cấu hình mặc định, sau đó áp biến môi trường
func Load(path string) error {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return err
	}
	applyEnv(&cfg)
	C = cfg
	return nil
}

// ENV overrides
func applyEnv(cfg *ResolverCfg) {
	if v, err := strconv.Atoi(os.Getenv("RESOLVER_WORKERS")); err == nil && v > 0 {
		cfg.Batch.Workers = v
	}
	if v, err := strconv.Atoi(os.Getenv("RESOLVER_TIMEOUT_MS")); err == nil && v > 0 {
		cfg.Batch.TimeoutMs = v
	}
	if v := os.Getenv("RESOLVER_REFERENCE_DIR"); v != "" {
		cfg.Reference.Dir = v
	}
}

// RequestTimeout giới hạn thời gian cho một địa chỉ
func (b BatchCfg) RequestTimeout() time.Duration {
	if b.TimeoutMs <= 0 {
		return 1500 * time.Millisecond
	}
	return time.Duration(b.TimeoutMs) * time.Millisecond
}
