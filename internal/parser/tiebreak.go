package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/address-resolver/internal/normalizer"
	"github.com/address-resolver/internal/trie"
	"github.com/xrash/smetrics"
)

// TieBreaker chọn một ứng viên trong các ứng viên cùng khoảng cách nhỏ nhất
type TieBreaker interface {
	Pick(window string, tied []trie.Name) trie.Name
}

// ReverseLexical sắp giảm dần theo tên, lấy phần tử đầu
type ReverseLexical struct{}

// Pick implements TieBreaker
func (ReverseLexical) Pick(_ string, tied []trie.Name) trie.Name {
	sorted := append([]trie.Name(nil), tied...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Text > sorted[j].Text
	})
	return sorted[0]
}

// JaroWinkler ưu tiên ứng viên gần nhất theo Jaro-Winkler trên dạng không dấu,
// hòa điểm thì dùng ReverseLexical
type JaroWinkler struct{}

// Pick implements TieBreaker
func (JaroWinkler) Pick(window string, tied []trie.Name) trie.Name {
	query := normalizer.Fold(window)
	width := len(strings.Fields(window))

	best := -1.0
	var top []trie.Name
	for _, name := range tied {
		words := name.Words()
		if len(words) > width {
			words = words[len(words)-width:]
		}
		score := smetrics.JaroWinkler(query, normalizer.Fold(strings.Join(words, " ")), 0.7, 4)
		switch {
		case score > best:
			best = score
			top = append(top[:0], name)
		case score == best:
			top = append(top, name)
		}
	}
	return ReverseLexical{}.Pick(window, top)
}

// TieBreakerByName tra cứu TieBreaker theo tên cấu hình
func TieBreakerByName(name string) (TieBreaker, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "reverse_lexical":
		return ReverseLexical{}, nil
	case "jaro_winkler":
		return JaroWinkler{}, nil
	default:
		return nil, fmt.Errorf("unknown tie breaker %q", name)
	}
}
