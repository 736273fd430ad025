package gazetteer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/address-resolver/internal/normalizer"
)

// SourceUnit một đơn vị hành chính trong file export dạng JSON phẳng
type SourceUnit struct {
	ID         int    `json:"id"`
	Level      int    `json:"unit_level"` // 1=tỉnh, 2=quận/huyện, 3=phường/xã
	Name       string `json:"name"`
	KeyWord    string `json:"key_word"`
	ProvinceID int    `json:"province_id"`
	DistrictID int    `json:"district_id"`
}

// adminPrefixes tiền tố loại đơn vị, dài trước ngắn sau
var adminPrefixes = []string{
	"Thành phố ", "Thị trấn ", "Thị xã ", "Tỉnh ", "Quận ", "Huyện ", "Phường ", "Xã ", "TP. ", "TP ",
}

// StripAdminPrefix bỏ tiền tố loại đơn vị khỏi tên
func StripAdminPrefix(name string) string {
	name = strings.TrimSpace(normalizer.Compose(name))
	for _, p := range adminPrefixes {
		if rest, ok := strings.CutPrefix(name, p); ok && strings.TrimSpace(rest) != "" {
			return strings.TrimSpace(rest)
		}
	}
	return name
}

// ConvertStats số đơn vị đã chuyển và số đơn vị bị bỏ vì thiếu cha
type ConvertStats struct {
	Provinces int
	Districts int
	Wards     int
	Orphans   int
}

// FromUnits dựng bộ dữ liệu từ danh sách đơn vị có liên kết cha theo ID
func FromUnits(units []SourceUnit) (*Dataset, ConvertStats) {
	var stats ConvertStats
	ds := &Dataset{Source: "convert", Aliases: make(map[string]string)}

	provinces := make(map[int]string)
	type district struct{ name, province string }
	districts := make(map[int]district)

	for _, u := range units {
		if u.Level != 1 {
			continue
		}
		name := StripAdminPrefix(u.Name)
		if name == "" {
			continue
		}
		provinces[u.ID] = name
		ds.Provinces.Raw = appendIfMissing(ds.Provinces.Raw, name)
		ds.Provinces.Standard = appendIfMissing(ds.Provinces.Standard, name)
		stats.Provinces++

		key := aliasKey(u.KeyWord, name)
		if _, taken := ds.Aliases[key]; key != "" && !taken {
			ds.Aliases[key] = name
		}
	}

	for _, u := range units {
		if u.Level != 2 {
			continue
		}
		province, ok := provinces[u.ProvinceID]
		name := StripAdminPrefix(u.Name)
		if !ok || name == "" {
			stats.Orphans++
			continue
		}
		districts[u.ID] = district{name: name, province: province}
		ds.Districts.Raw = appendIfMissing(ds.Districts.Raw, name)
		ds.Districts.Standard = append(ds.Districts.Standard, name+", "+province)
		stats.Districts++
	}

	for _, u := range units {
		if u.Level != 3 {
			continue
		}
		parent, ok := districts[u.DistrictID]
		name := StripAdminPrefix(u.Name)
		if !ok || name == "" {
			stats.Orphans++
			continue
		}
		ds.Wards.Raw = appendIfMissing(ds.Wards.Raw, name)
		ds.Wards.Standard = append(ds.Wards.Standard, name+", "+parent.name+", "+parent.province)
		stats.Wards++
	}

	if len(ds.Aliases) == 0 {
		ds.Aliases = nil
	}
	return ds, stats
}

// aliasKey viết liền không dấu, dùng làm alias cho token cuối
func aliasKey(keyWord, name string) string {
	src := keyWord
	if strings.TrimSpace(src) == "" {
		src = name
	}
	key := strings.Join(strings.Fields(normalizer.Fold(src)), "")
	if key == strings.ToLower(name) {
		return ""
	}
	return key
}

// WriteDir ghi bộ dữ liệu ra thư mục theo định dạng mà DirSource đọc được
func WriteDir(ds *Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	files := []struct {
		name  string
		lines []string
	}{
		{ProvinceFile, ds.Provinces.Raw},
		{ProvinceStandardFile, ds.Provinces.Standard},
		{DistrictFile, ds.Districts.Raw},
		{DistrictStandardFile, ds.Districts.Standard},
		{WardFile, ds.Wards.Raw},
		{WardStandardFile, ds.Wards.Standard},
	}
	for _, f := range files {
		content := strings.Join(f.lines, "\n")
		if content != "" {
			content += "\n"
		}
		if err := os.WriteFile(filepath.Join(dir, f.name), []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}

	if len(ds.Aliases) == 0 {
		return nil
	}
	out, err := yaml.Marshal(ds.Aliases)
	if err != nil {
		return fmt.Errorf("encode aliases: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, AliasFile), out, 0o644)
}
