package parser

import (
	"strings"

	"github.com/address-resolver/internal/trie"
)

// MatchStrategy chiến lược đã khớp một cấp
type MatchStrategy string

const (
	StrategyExact       MatchStrategy = "exact"
	StrategySubstring   MatchStrategy = "substring"
	StrategyApproximate MatchStrategy = "approximate"
)

// match kết quả so khớp của một cấp; consumed là số token cuối đã dùng
type match struct {
	name     string
	consumed int
	strategy MatchStrategy
	distance float64
}

func (m match) ok() bool { return m.name != "" }

// resolutionContext trạng thái riêng của một địa chỉ, không chia sẻ giữa các goroutine
type resolutionContext struct {
	tokens      []string
	province    string
	district    string
	ward        string
	consumed    int
	hasDistrict bool
}

func newResolutionContext(tokens []string, hasDistrict bool) *resolutionContext {
	return &resolutionContext{tokens: tokens, hasDistrict: hasDistrict}
}

// residual phần địa chỉ còn lại, suy ra từ tokens
func (rc *resolutionContext) residual() string {
	return strings.Join(rc.tokens, " ")
}

// accept ghi nhận tên đã khớp và cắt các token đã dùng ở cuối
func (rc *resolutionContext) accept(level trie.Level, m match) {
	switch level {
	case trie.LevelProvince:
		rc.province = m.name
	case trie.LevelDistrict:
		rc.district = m.name
	case trie.LevelWard:
		rc.ward = m.name
	}

	n := m.consumed
	if n > len(rc.tokens) {
		n = len(rc.tokens)
	}
	rc.tokens = rc.tokens[:len(rc.tokens)-n]
	rc.consumed += n
}

// scope ràng buộc cha cho cấp sắp giải
func (rc *resolutionContext) scope(level trie.Level) scope {
	sc := scope{level: level}
	if level >= trie.LevelDistrict {
		sc.province = rc.province
	}
	if level == trie.LevelWard {
		sc.district = rc.district
	}
	return sc
}

// scope lọc ứng viên theo tỉnh/huyện đã giải
type scope struct {
	level    trie.Level
	province string
	district string
}

// allows kiểm tra tập tổ tiên có phù hợp với các cấp cha đã giải
func (s scope) allows(set []trie.Ancestry) bool {
	switch {
	case s.level == trie.LevelProvince:
		return true
	case s.level == trie.LevelWard && s.district != "":
		return trie.HasDistrict(set, s.district, s.province)
	case s.province != "":
		return trie.HasProvince(set, s.province)
	default:
		return true
	}
}

// allowsName áp dụng cùng quy tắc cho một tên ứng viên
func (s scope) allowsName(n trie.Name) bool {
	return s.allows([]trie.Ancestry{n.Ancestry()})
}
