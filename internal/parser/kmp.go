package parser

import "unicode"

// failure bảng tiền tố-hậu tố dài nhất của pattern
func failure(pattern []rune) []int {
	fail := make([]int, len(pattern))
	k := 0
	for i := 1; i < len(pattern); i++ {
		for k > 0 && pattern[i] != pattern[k] {
			k = fail[k-1]
		}
		if pattern[i] == pattern[k] {
			k++
		}
		fail[i] = k
	}
	return fail
}

// lastIndex tìm vị trí bắt đầu của lần xuất hiện phải nhất của pattern trong text,
// quét từ phải sang trái. Hai chữ số khác nhau bị so sánh thì dừng và trả về -1.
func lastIndex(text, pattern []rune) int {
	n, m := len(text), len(pattern)
	if m == 0 || m > n {
		return -1
	}

	p := reversed(pattern)
	fail := failure(p)
	k := 0
	for i := 0; i < n; i++ {
		c := text[n-1-i]
		for k > 0 && c != p[k] {
			if digitClash(c, p[k]) {
				return -1
			}
			k = fail[k-1]
		}
		if c == p[k] {
			k++
			if k == m {
				return n - 1 - i
			}
		} else if digitClash(c, p[k]) {
			return -1
		}
	}
	return -1
}

func digitClash(a, b rune) bool {
	return a != b && unicode.IsDigit(a) && unicode.IsDigit(b)
}

func reversed(r []rune) []rune {
	out := make([]rune, len(r))
	for i, c := range r {
		out[len(r)-1-i] = c
	}
	return out
}
