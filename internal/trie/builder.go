package trie

import (
	"strings"

	"github.com/address-resolver/internal/normalizer"
)

// Build dựng trie cho một cấp từ danh sách tên
func Build(names []Name, level Level) *Node {
	root := newNode("", level)
	for _, name := range names {
		if name.Level == 0 {
			name.Level = level
		}
		root.Insert(name)
	}
	return root
}

// Reconcile đối chiếu danh sách tên thô với các dòng chuẩn "Tên , Cha , Ông"
//
// Dòng chuẩn được ưu tiên khi phần đầu của nó trùng tên thô; tên thô không có dòng chuẩn
// được giữ lại với cha rỗng. Chỉ các tên xuất hiện trong danh sách thô được đưa vào,
// trừ khi danh sách thô rỗng thì dùng toàn bộ dòng chuẩn.
func Reconcile(raw, standard []string, level Level) []Name {
	canonical := make([]Name, 0, len(standard))
	byHead := make(map[string][]Name)
	for _, line := range standard {
		name, ok := ParseStandardLine(line, level)
		if !ok {
			continue
		}
		canonical = append(canonical, name)
		byHead[name.Text] = append(byHead[name.Text], name)
	}

	observed := uniqueTexts(raw)
	if len(observed) == 0 {
		return canonical
	}

	out := make([]Name, 0, len(observed))
	for _, text := range observed {
		if matches, ok := byHead[text]; ok {
			out = append(out, matches...)
			continue
		}
		out = append(out, Name{Text: text, Level: level})
	}
	return out
}

// ParseStandardLine tách dòng chuẩn thành tên và cha theo cấp
func ParseStandardLine(line string, level Level) (Name, bool) {
	if level == LevelProvince {
		text := CleanText(line)
		return Name{Text: text, Level: level}, text != ""
	}

	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = CleanText(parts[i])
	}
	if parts[0] == "" {
		return Name{}, false
	}

	name := Name{Text: parts[0], Level: level}
	switch level {
	case LevelDistrict:
		if len(parts) > 1 {
			name.Province = parts[1]
		}
	case LevelWard:
		if len(parts) > 1 {
			name.District = parts[1]
		}
		if len(parts) > 2 {
			name.Province = parts[2]
		}
	}
	return name, true
}

// CleanText đưa về NFC và gộp khoảng trắng
func CleanText(s string) string {
	return strings.Join(strings.Fields(normalizer.Compose(s)), " ")
}

func uniqueTexts(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		text := CleanText(line)
		if text == "" {
			continue
		}
		if _, ok := seen[text]; ok {
			continue
		}
		seen[text] = struct{}{}
		out = append(out, text)
	}
	return out
}
