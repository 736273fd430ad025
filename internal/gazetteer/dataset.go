// Package gazetteer nạp danh sách tên hành chính tham chiếu và dựng chỉ mục
package gazetteer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/address-resolver/internal/normalizer"
	"github.com/address-resolver/internal/trie"
)

// ErrEmptyDataset bộ dữ liệu không có tỉnh/thành nào
var ErrEmptyDataset = errors.New("reference dataset is empty")

// LevelData danh sách tên thô và các dòng chuẩn "Tên , Cha , Ông" của một cấp
type LevelData struct {
	Raw      []string `json:"raw" bson:"raw"`
	Standard []string `json:"standard" bson:"standard"`
}

// Len tổng số dòng
func (l LevelData) Len() int {
	return len(l.Raw) + len(l.Standard)
}

// Dataset dữ liệu tham chiếu cho cả ba cấp
type Dataset struct {
	Source    string
	Provinces LevelData
	Districts LevelData
	Wards     LevelData
	Aliases   map[string]string
}

// Source nơi cung cấp dữ liệu tham chiếu
type Source interface {
	Load(ctx context.Context) (*Dataset, error)
}

// Level trả về dữ liệu của cấp đã cho
func (d *Dataset) Level(level trie.Level) *LevelData {
	switch level {
	case trie.LevelProvince:
		return &d.Provinces
	case trie.LevelDistrict:
		return &d.Districts
	default:
		return &d.Wards
	}
}

// Validate kiểm tra bộ dữ liệu dùng được
func (d *Dataset) Validate() error {
	if d == nil || d.Provinces.Len() == 0 {
		return ErrEmptyDataset
	}
	return nil
}

// Version mã băm nội dung, đổi khi dữ liệu tham chiếu đổi
func (d *Dataset) Version() string {
	h := sha256.New()
	for _, level := range []trie.Level{trie.LevelProvince, trie.LevelDistrict, trie.LevelWard} {
		data := d.Level(level)
		fmt.Fprintf(h, "%d|", level)
		for _, line := range data.Raw {
			fmt.Fprintf(h, "r:%s\n", line)
		}
		for _, line := range data.Standard {
			fmt.Fprintf(h, "s:%s\n", line)
		}
	}
	for _, key := range sortedKeys(d.Aliases) {
		fmt.Fprintf(h, "a:%s=%s\n", key, d.Aliases[key])
	}
	return hex.EncodeToString(h.Sum(nil))[:12]
}

// Variants bảng biến thể chính tả theo cấp
type Variants struct {
	District map[string]string
	Ward     map[string]string
}

// DefaultVariants load bảng biến thể nhúng sẵn
func DefaultVariants() (Variants, error) {
	rules, err := normalizer.LoadRulesConfig()
	if err != nil {
		return Variants{}, err
	}
	return Variants{District: rules.DistrictVariants, Ward: rules.WardVariants}, nil
}

// BuildIndex đối chiếu từng cấp và dựng chỉ mục trie
func (d *Dataset) BuildIndex(variants Variants) (*trie.Index, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	provinces := trie.Reconcile(d.Provinces.Raw, d.Provinces.Standard, trie.LevelProvince)
	districts := trie.Reconcile(DedupeVariants(d.Districts.Raw, variants.District), d.Districts.Standard, trie.LevelDistrict)
	wards := trie.Reconcile(DedupeVariants(d.Wards.Raw, variants.Ward), d.Wards.Standard, trie.LevelWard)

	return trie.NewIndex(provinces, districts, wards), nil
}

// DedupeVariants đổi tên biến thể về cách viết chuẩn và bỏ dòng trùng
func DedupeVariants(lines []string, variants map[string]string) []string {
	canonical := make(map[string]string, len(variants))
	for from, to := range variants {
		canonical[trie.CleanText(from)] = trie.CleanText(to)
	}

	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		text := trie.CleanText(line)
		if to, ok := canonical[text]; ok {
			text = to
		}
		if text == "" {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		out = append(out, text)
	}
	return out
}
