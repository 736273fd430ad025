package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddressCache bản ghi cache kết quả phân giải trong MongoDB
type AddressCache struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Fingerprint    string             `bson:"fingerprint" json:"fingerprint"`         // Khóa cache
	RawAddress     string             `bson:"raw_address" json:"raw_address"`         // Địa chỉ gốc
	Result         AddressResult      `bson:"result" json:"result"`                   // Kết quả phân giải
	DatasetVersion string             `bson:"dataset_version" json:"dataset_version"` // Phiên bản dữ liệu tham chiếu
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	LastAccessed   time.Time          `bson:"last_accessed" json:"last_accessed"`
	AccessCount    int                `bson:"access_count" json:"access_count"`
}

// NewAddressCache tạo mới một AddressCache
func NewAddressCache(fingerprint string, result AddressResult) *AddressCache {
	now := time.Now()
	return &AddressCache{
		Fingerprint:    fingerprint,
		RawAddress:     result.Raw,
		Result:         result,
		DatasetVersion: result.DatasetVersion,
		CreatedAt:      now,
		LastAccessed:   now,
		AccessCount:    1,
	}
}

// IsValidDatasetVersion kiểm tra phiên bản dữ liệu có khớp không
func (ac *AddressCache) IsValidDatasetVersion(currentVersion string) bool {
	return ac.DatasetVersion == currentVersion
}
