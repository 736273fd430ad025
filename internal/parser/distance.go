package parser

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const vietnameseVowels = "aàáảãạăằắẳẵặâầấẩẫậeèéẻẽẹêềếểễệiìíỉĩịoòóỏõọôồốổỗộơờớởỡợuùúủũụưừứửữựyỳýỷỹỵ"

// vowelBase ánh xạ nguyên âm có dấu về chữ cái gốc sau khi tách dấu (NFD)
var vowelBase = func() map[rune]rune {
	bases := make(map[rune]rune, 72)
	for _, v := range vietnameseVowels {
		decomposed := []rune(norm.NFD.String(string(v)))
		bases[v] = decomposed[0]
	}
	return bases
}()

// vowelGroup nhóm các chữ cái gốc hay bị gõ nhầm lẫn nhau
var vowelGroup = map[rune]int{
	'a': 1, 'ă': 1, 'â': 1,
	'e': 2, 'ê': 2,
	'o': 3, 'ô': 3, 'ơ': 3,
	'u': 4, 'ư': 4,
	'i': 5, 'y': 5,
}

// substitutionCost chi phí thay ký tự a bằng b
func substitutionCost(a, b rune) float64 {
	if a == b {
		return 0
	}
	baseA, okA := vowelBase[a]
	baseB, okB := vowelBase[b]
	if !okA || !okB {
		return 1
	}
	if baseA == baseB {
		return 0.3
	}
	if g := vowelGroup[baseA]; g != 0 && g == vowelGroup[baseB] {
		return 0.6
	}
	return 1
}

// Distance khoảng cách chỉnh sửa có trọng số theo dấu thanh tiếng Việt, làm tròn 2 chữ số
func Distance(a, b string) float64 {
	s := []rune(strings.ToLower(norm.NFC.String(a)))
	t := []rune(strings.ToLower(norm.NFC.String(b)))

	prev := make([]float64, len(t)+1)
	cur := make([]float64, len(t)+1)
	for j := range prev {
		prev[j] = float64(j)
	}

	for i := 1; i <= len(s); i++ {
		cur[0] = float64(i)
		for j := 1; j <= len(t); j++ {
			cur[j] = math.Min(
				math.Min(prev[j]+1, cur[j-1]+1),
				prev[j-1]+substitutionCost(s[i-1], t[j-1]),
			)
		}
		prev, cur = cur, prev
	}

	return math.Round(prev[len(t)]*100) / 100
}
