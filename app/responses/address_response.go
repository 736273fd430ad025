package responses

import (
	"github.com/address-resolver/app/models"
	"github.com/address-resolver/internal/gazetteer"
)

// ResolveAddressResponse response phân giải địa chỉ đơn lẻ
type ResolveAddressResponse struct {
	DatasetVersion   string               `json:"dataset_version"`    // Phiên bản dữ liệu tham chiếu
	Result           models.AddressResult `json:"result"`             // Kết quả phân giải
	ProcessingTimeMs int64                `json:"processing_time_ms"` // Thời gian xử lý (ms)
	CacheHit         bool                 `json:"cache_hit"`          // Có hit cache không
}

// BatchResolveResponse response phân giải hàng loạt đồng bộ
type BatchResolveResponse struct {
	DatasetVersion   string                 `json:"dataset_version"`
	Results          []models.AddressResult `json:"results"`
	ProcessingTimeMs int64                  `json:"processing_time_ms"`
}

// BatchJobResponse response khi tạo job chạy nền
type BatchJobResponse struct {
	JobID          string `json:"job_id"`          // ID của job
	TotalAddresses int    `json:"total_addresses"` // Tổng số địa chỉ
	Message        string `json:"message"`         // Thông báo
}

// JobStatusResponse response trạng thái job
type JobStatusResponse struct {
	models.BatchJob
}

// AdminStatsResponse response thống kê admin
type AdminStatsResponse struct {
	DatasetVersion string            `json:"dataset_version"`
	Counts         map[string]int    `json:"counts"`
	Report         *gazetteer.Report `json:"report,omitempty"`
	Cache          interface{}       `json:"cache,omitempty"`
	LearnedAliases int64             `json:"learned_aliases"`
	Jobs           int               `json:"jobs"`
	UptimeSeconds  int64             `json:"uptime_seconds"`
	Memory         map[string]uint64 `json:"memory"`
}

// CacheEntryResponse trạng thái cache của một địa chỉ
type CacheEntryResponse struct {
	Key            string `json:"key"`
	DatasetVersion string `json:"dataset_version"`
	Exists         bool   `json:"exists"`
	TTLSeconds     int64  `json:"ttl_seconds"`
}

// ReloadResponse response nạp lại dữ liệu tham chiếu
type ReloadResponse struct {
	PreviousVersion string         `json:"previous_version"`
	DatasetVersion  string         `json:"dataset_version"`
	Counts          map[string]int `json:"counts"`
	Warnings        int            `json:"warnings"`
}

// ErrorResponse response lỗi
type ErrorResponse struct {
	Error     string      `json:"error"`                // Mã lỗi
	Message   string      `json:"message"`              // Thông báo lỗi
	Details   interface{} `json:"details,omitempty"`    // Chi tiết lỗi
	Timestamp string      `json:"timestamp"`            // Thời gian xảy ra lỗi
	RequestID string      `json:"request_id,omitempty"` // ID của request
}

// SuccessResponse response thành công
type SuccessResponse struct {
	Success   bool        `json:"success"`        // Có thành công không
	Message   string      `json:"message"`        // Thông báo
	Data      interface{} `json:"data,omitempty"` // Dữ liệu
	Timestamp string      `json:"timestamp"`      // Thời gian
}

// HealthCheckResponse response kiểm tra sức khỏe
type HealthCheckResponse struct {
	Status    string            `json:"status"`    // Trạng thái sức khỏe
	Timestamp string            `json:"timestamp"` // Thời gian kiểm tra
	Uptime    string            `json:"uptime"`    // Thời gian hoạt động
	Version   string            `json:"version"`   // Phiên bản dữ liệu tham chiếu
	Services  map[string]string `json:"services"`  // Trạng thái các service
}
