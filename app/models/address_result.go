package models

// AddressResult kết quả phân giải một địa chỉ
type AddressResult struct {
	Raw            string       `json:"raw" bson:"raw"`                                         // Địa chỉ gốc
	Province       string       `json:"province" bson:"province"`                               // Tỉnh/thành
	District       string       `json:"district" bson:"district"`                               // Quận/huyện
	Ward           string       `json:"ward" bson:"ward"`                                       // Phường/xã
	DistrictAbsent bool         `json:"district_absent,omitempty" bson:"district_absent"`       // Địa chỉ bỏ trống phần quận/huyện
	Status         string       `json:"status" bson:"status"`                                   // Trạng thái phân giải
	Matches        []LevelMatch `json:"matches,omitempty" bson:"matches,omitempty"`             // Vết khớp từng cấp
	Fingerprint    string       `json:"fingerprint" bson:"fingerprint"`                         // sha256 của địa chỉ gốc
	DatasetVersion string       `json:"dataset_version" bson:"dataset_version"`                 // Phiên bản dữ liệu tham chiếu
	Error          string       `json:"error,omitempty" bson:"error,omitempty"`                 // Lỗi khi xử lý trong batch
}

// LevelMatch cách một cấp đã được khớp
type LevelMatch struct {
	Level    string  `json:"level" bson:"level"`
	Name     string  `json:"name" bson:"name"`
	Strategy string  `json:"strategy" bson:"strategy"`
	Distance float64 `json:"distance" bson:"distance"`
	Consumed int     `json:"consumed" bson:"consumed"`
}

// Status constants
const (
	StatusMatched   = "matched"
	StatusPartial   = "partial"
	StatusUnmatched = "unmatched"
	StatusInvalid   = "invalid"
)

// ComputeStatus xác định trạng thái từ số cấp đã khớp
func (ar *AddressResult) ComputeStatus() string {
	switch {
	case ar.Province == "" && ar.District == "" && ar.Ward == "":
		return StatusUnmatched
	case ar.Province != "" && ar.Ward != "" && (ar.District != "" || ar.DistrictAbsent):
		return StatusMatched
	default:
		return StatusPartial
	}
}

// IsValidStatus kiểm tra status có hợp lệ không
func (ar *AddressResult) IsValidStatus() bool {
	switch ar.Status {
	case StatusMatched, StatusPartial, StatusUnmatched, StatusInvalid:
		return true
	}
	return false
}
