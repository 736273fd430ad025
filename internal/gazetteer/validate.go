package gazetteer

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/address-resolver/internal/normalizer"
	"github.com/address-resolver/internal/trie"
)

// Warning cặp tên cùng cha gần như trùng nhau sau khi bỏ dấu
type Warning struct {
	Level    string `json:"level"`
	Parent   string `json:"parent"`
	First    string `json:"first"`
	Second   string `json:"second"`
	Distance int    `json:"distance"`
}

// Report tổng hợp số dòng và cảnh báo của bộ dữ liệu
type Report struct {
	Version  string         `json:"version"`
	Source   string         `json:"source"`
	Lines    map[string]int `json:"lines"`
	Warnings []Warning      `json:"warnings"`
}

// NearDuplicateDistance khoảng cách Levenshtein tối đa để coi là gần trùng
const NearDuplicateDistance = 1

// Inspect rà các dòng chuẩn, nhóm theo cha và báo các tên gần trùng
func Inspect(d *Dataset) Report {
	report := Report{
		Version: d.Version(),
		Source:  d.Source,
		Lines:   make(map[string]int, 3),
	}

	for _, level := range []trie.Level{trie.LevelProvince, trie.LevelDistrict, trie.LevelWard} {
		data := d.Level(level)
		report.Lines[level.String()] = data.Len()

		groups := make(map[string][]string)
		for _, line := range data.Standard {
			name, ok := trie.ParseStandardLine(line, level)
			if !ok {
				continue
			}
			parent := strings.Join(nonEmpty(name.District, name.Province), ", ")
			groups[parent] = appendIfMissing(groups[parent], name.Text)
		}
		if len(data.Standard) == 0 {
			groups[""] = DedupeVariants(data.Raw, nil)
		}

		parents := make([]string, 0, len(groups))
		for p := range groups {
			parents = append(parents, p)
		}
		sort.Strings(parents)

		for _, parent := range parents {
			report.Warnings = append(report.Warnings, nearDuplicates(level, parent, groups[parent])...)
		}
	}
	return report
}

func nearDuplicates(level trie.Level, parent string, names []string) []Warning {
	folded := make([]string, len(names))
	for i, n := range names {
		folded[i] = normalizer.Fold(n)
	}

	var out []Warning
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			// phường số liền nhau không phải lỗi chính tả
			if normalizer.IsNumeric(folded[i]) && normalizer.IsNumeric(folded[j]) {
				continue
			}
			d := levenshtein.ComputeDistance(folded[i], folded[j])
			if d > NearDuplicateDistance {
				continue
			}
			out = append(out, Warning{
				Level:    level.String(),
				Parent:   parent,
				First:    names[i],
				Second:   names[j],
				Distance: d,
			})
		}
	}
	return out
}

func nonEmpty(values ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func appendIfMissing(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}
