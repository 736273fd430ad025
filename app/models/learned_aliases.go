package models

import (
	"strings"
	"time"
)

// LearnedAliases alias do người vận hành bổ sung, gộp vào bảng viết tắt khi nạp lại
type LearnedAliases struct {
	OriginalToken string    `bson:"original_token" json:"original_token"` // Token gốc, viết thường
	CanonicalForm string    `bson:"canonical_form" json:"canonical_form"` // Tên chuẩn thay thế
	Source        string    `bson:"source" json:"source"`                 // Nguồn (manual/auto_learned)
	UsageCount    int       `bson:"usage_count" json:"usage_count"`       // Số lần được ghi nhận
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	LastUsed      time.Time `bson:"last_used" json:"last_used"`
}

// Source constants
const (
	SourceManual      = "manual"
	SourceAutoLearned = "auto_learned"
)

// NewLearnedAliases tạo mới một LearnedAliases
func NewLearnedAliases(originalToken, canonicalForm, source string) *LearnedAliases {
	now := time.Now()
	return &LearnedAliases{
		OriginalToken: strings.ToLower(strings.TrimSpace(originalToken)),
		CanonicalForm: strings.TrimSpace(canonicalForm),
		Source:        source,
		UsageCount:    1,
		CreatedAt:     now,
		LastUsed:      now,
	}
}

// IsValidSource kiểm tra source có hợp lệ không
func (la *LearnedAliases) IsValidSource() bool {
	return la.Source == SourceManual || la.Source == SourceAutoLearned
}

// IsValid alias dùng được khi cả hai vế đều có và token là một từ
func (la *LearnedAliases) IsValid() bool {
	if la.OriginalToken == "" || la.CanonicalForm == "" {
		return false
	}
	return !strings.ContainsAny(la.OriginalToken, " ,") && la.IsValidSource()
}
