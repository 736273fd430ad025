package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminUnit một dòng dữ liệu tham chiếu lưu trong collection admin_units
type AdminUnit struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Level          int                `bson:"level" json:"level"`                         // 1=province, 2=district, 3=ward
	Kind           string             `bson:"kind" json:"kind"`                           // raw hoặc standard
	Seq            int                `bson:"seq" json:"seq"`                             // Thứ tự dòng trong danh sách gốc
	Name           string             `bson:"name" json:"name"`                           // Tên đơn vị hành chính
	District       string             `bson:"district,omitempty" json:"district,omitempty"` // Quận/huyện cha (chỉ cấp xã)
	Province       string             `bson:"province,omitempty" json:"province,omitempty"` // Tỉnh/thành cha
	DatasetVersion string             `bson:"dataset_version" json:"dataset_version"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// Kind constants
const (
	UnitKindRaw      = "raw"
	UnitKindStandard = "standard"
)

// Level constants
const (
	LevelProvince = 1
	LevelDistrict = 2
	LevelWard     = 3
)

// IsValidLevel kiểm tra level có hợp lệ không
func (au *AdminUnit) IsValidLevel() bool {
	return au.Level >= LevelProvince && au.Level <= LevelWard
}

// Line dựng lại dòng dữ liệu gốc, dòng chuẩn có dạng "Tên, Cha, Ông"
func (au *AdminUnit) Line() string {
	if au.Kind != UnitKindStandard {
		return au.Name
	}
	parts := []string{au.Name}
	if au.Level == LevelWard {
		parts = append(parts, au.District)
	}
	if au.Level >= LevelDistrict {
		parts = append(parts, au.Province)
	}
	return strings.Join(parts, ", ")
}
