// Package trie lưu tên đơn vị hành chính theo thứ tự từ cuối lên đầu
package trie

import (
	"strings"

	"github.com/address-resolver/internal/normalizer"
)

// Level cấp hành chính
type Level int

const (
	LevelProvince Level = 1
	LevelDistrict Level = 2
	LevelWard     Level = 3
)

// String trả về tên cấp
func (l Level) String() string {
	switch l {
	case LevelProvince:
		return "province"
	case LevelDistrict:
		return "district"
	case LevelWard:
		return "ward"
	default:
		return "unknown"
	}
}

// Ancestry bộ (tỉnh, huyện, xã) của một tên đã chèn vào trie
type Ancestry struct {
	Province string
	District string
	Ward     string
}

// Name một tên hành chính kèm cha của nó
type Name struct {
	Text     string
	Level    Level
	Province string
	District string
}

// Words trả về các từ có nghĩa của tên
func (n Name) Words() []string {
	return normalizer.Tokenize(n.Text)
}

// Ancestry suy ra bộ tổ tiên theo cấp của tên
func (n Name) Ancestry() Ancestry {
	switch n.Level {
	case LevelProvince:
		return Ancestry{Province: n.Text}
	case LevelDistrict:
		return Ancestry{Province: n.Province, District: n.Text}
	default:
		return Ancestry{Province: n.Province, District: n.District, Ward: n.Text}
	}
}

// Node một nút trong trie, sở hữu các nút con
type Node struct {
	Word     string
	Level    Level
	Terminal bool
	// Name là tên hiển thị đầy đủ khi nút là điểm kết thúc
	Name string

	// Candidates gồm tổ tiên của mọi tên đi qua nút
	Candidates []Ancestry
	// Parents gồm tổ tiên của các tên kết thúc tại nút
	Parents []Ancestry

	children map[string]*Node
	keys     []string
}

func newNode(word string, level Level) *Node {
	return &Node{Word: word, Level: level, children: make(map[string]*Node)}
}

// Child tra cứu nút con theo từ (đã chuẩn hóa khóa)
func (n *Node) Child(word string) *Node {
	return n.children[normalizer.Key(word)]
}

// ChildByKey tra cứu nút con theo khóa đã chuẩn hóa
func (n *Node) ChildByKey(key string) *Node {
	return n.children[key]
}

// Keys trả về khóa các nút con theo thứ tự chèn
func (n *Node) Keys() []string {
	return n.keys
}

// Len số nút con
func (n *Node) Len() int {
	return len(n.keys)
}

func (n *Node) child(word string) *Node {
	key := normalizer.Key(word)
	c, ok := n.children[key]
	if !ok {
		c = newNode(word, n.Level)
		n.children[key] = c
		n.keys = append(n.keys, key)
	}
	return c
}

// Insert chèn tên từ từ cuối về từ đầu
func (n *Node) Insert(name Name) {
	words := name.Words()
	if len(words) == 0 {
		return
	}
	anc := name.Ancestry()

	cur := n
	for i := len(words) - 1; i >= 0; i-- {
		cur = cur.child(words[i])
		cur.Candidates = appendUnique(cur.Candidates, anc)
	}
	if !cur.Terminal {
		cur.Terminal = true
		cur.Name = strings.TrimSpace(name.Text)
	}
	cur.Parents = appendUnique(cur.Parents, anc)
}

// HasProvince kiểm tra có tổ tiên thuộc tỉnh đã cho
func HasProvince(set []Ancestry, province string) bool {
	for _, a := range set {
		if a.Province == province {
			return true
		}
	}
	return false
}

// HasDistrict kiểm tra có tổ tiên thuộc huyện (và tỉnh, nếu có) đã cho
func HasDistrict(set []Ancestry, district, province string) bool {
	for _, a := range set {
		if a.District == district && (province == "" || a.Province == province) {
			return true
		}
	}
	return false
}

func appendUnique(set []Ancestry, a Ancestry) []Ancestry {
	for _, existing := range set {
		if existing == a {
			return set
		}
	}
	return append(set, a)
}
