package requests

// ResolveAddressRequest request phân giải địa chỉ đơn lẻ
type ResolveAddressRequest struct {
	Address string         `json:"address" binding:"required"` // Địa chỉ cần phân giải
	Options ResolveOptions `json:"options,omitempty"`          // Tùy chọn
}

// ResolveOptions tùy chọn phân giải
type ResolveOptions struct {
	UseCache    *bool `json:"use_cache,omitempty"`    // Có dùng cache không, mặc định có
	ReturnTrace bool  `json:"return_trace,omitempty"` // Có trả về vết khớp từng cấp không
}

// CacheEnabled cache được bật khi không chỉ định
func (o ResolveOptions) CacheEnabled() bool {
	return o.UseCache == nil || *o.UseCache
}

// BatchResolveRequest request phân giải hàng loạt địa chỉ
type BatchResolveRequest struct {
	Addresses []string       `json:"addresses" binding:"required,min=1,max=20000"` // Danh sách địa chỉ (tối đa 20k)
	Options   ResolveOptions `json:"options,omitempty"`                            // Tùy chọn
	Async     bool           `json:"async,omitempty"`                              // Chạy nền và trả về job_id
}

// AddAliasRequest request thêm alias
type AddAliasRequest struct {
	Alias     string `json:"alias" binding:"required"`     // Token viết tắt
	Canonical string `json:"canonical" binding:"required"` // Tên chuẩn
}
