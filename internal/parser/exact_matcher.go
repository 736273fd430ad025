package parser

import (
	"strings"
	"unicode"

	"github.com/address-resolver/internal/normalizer"
	"github.com/address-resolver/internal/trie"
)

// matchExact khớp hậu tố dài nhất của tokens với trie, phải sang trái.
// Trượt trie thì thử tìm khóa con như chuỗi con bằng KMP (từ dính liền, dấu câu chen vào).
func matchExact(tokens []string, root *trie.Node, sc scope) match {
	if len(tokens) == 0 || root == nil {
		return match{}
	}

	if node, n := descend(root, tokens, sc); node != nil {
		return match{name: node.Name, consumed: n, strategy: StrategyExact}
	}
	return matchSubstring(tokens, root, sc)
}

// descend trả về nút kết thúc sâu nhất được chấp nhận và số token đã dùng
func descend(node *trie.Node, tokens []string, sc scope) (*trie.Node, int) {
	if len(tokens) == 0 {
		return nil, 0
	}

	last := len(tokens) - 1
	child := node.Child(tokens[last])
	if child == nil || !sc.allows(child.Candidates) {
		return nil, 0
	}

	if hit, n := descend(child, tokens[:last], sc); hit != nil {
		return hit, n + 1
	}
	if child.Terminal && sc.allows(child.Parents) {
		return child, 1
	}
	return nil, 0
}

// matchSubstring tìm tên trong chuỗi khóa nối của tokens
func matchSubstring(tokens []string, root *trie.Node, sc scope) match {
	keys := make([]string, len(tokens))
	for i, t := range tokens {
		keys[i] = normalizer.Key(t)
	}
	text := []rune(strings.Join(keys, " "))

	node, start := searchKeys(root, text, sc, true)
	if node == nil {
		return match{}
	}

	// token chứa vị trí bắt đầu và mọi token sau nó đều bị tiêu thụ
	idx := 0
	for _, r := range text[:start] {
		if r == ' ' {
			idx++
		}
	}
	return match{name: node.Name, consumed: len(tokens) - idx, strategy: StrategySubstring}
}

// searchKeys thử từng khóa con của node trong text.
// Ở gốc, lần xuất hiện chỉ cần kết thúc ở ranh giới từ; ở các mức sâu hơn nó phải nằm sát cuối text.
func searchKeys(node *trie.Node, text []rune, sc scope, atRoot bool) (*trie.Node, int) {
	for _, key := range node.Keys() {
		child := node.ChildByKey(key)
		if !sc.allows(child.Candidates) {
			continue
		}

		pattern := []rune(key)
		end := len(text)
		for end >= len(pattern) {
			start := lastIndex(text[:end], pattern)
			if start < 0 {
				break
			}
			stop := start + len(pattern)

			if acceptable(text, start, stop, pattern, atRoot) {
				rest := trimRightNoise(text[:start])
				if hit, s := searchKeys(child, rest, sc, false); hit != nil {
					return hit, s
				}
				if child.Terminal && sc.allows(child.Parents) {
					return child, start
				}
			}

			if !atRoot {
				break
			}
			end = stop - 1
		}
	}
	return nil, -1
}

func acceptable(text []rune, start, stop int, pattern []rune, atRoot bool) bool {
	if !atRoot && stop != len(text) {
		return false
	}
	if atRoot && stop < len(text) && isWordRune(text[stop]) {
		return false
	}
	if normalizer.IsNumeric(string(pattern)) {
		if start > 0 && unicode.IsDigit(text[start-1]) {
			return false
		}
		if stop < len(text) && unicode.IsDigit(text[stop]) {
			return false
		}
	}
	return true
}

func trimRightNoise(text []rune) []rune {
	end := len(text)
	for end > 0 && !isWordRune(text[end-1]) {
		end--
	}
	return text[:end]
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
