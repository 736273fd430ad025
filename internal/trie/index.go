package trie

// LevelIndex trie và danh sách ứng viên của một cấp
type LevelIndex struct {
	Root  *Node
	Names []Name
}

// Index gom ba cấp, chỉ đọc sau khi tạo
type Index struct {
	levels [3]LevelIndex
}

// NewIndex dựng trie cho ba cấp từ danh sách tên đã đối chiếu
func NewIndex(provinces, districts, wards []Name) *Index {
	idx := &Index{}
	for i, names := range [][]Name{provinces, districts, wards} {
		level := Level(i + 1)
		idx.levels[i] = LevelIndex{Root: Build(names, level), Names: names}
	}
	return idx
}

// Level trả về chỉ mục của cấp đã cho
func (idx *Index) Level(level Level) LevelIndex {
	if level < LevelProvince || level > LevelWard {
		return LevelIndex{Root: newNode("", level)}
	}
	return idx.levels[level-1]
}

// Counts số tên theo từng cấp
func (idx *Index) Counts() map[string]int {
	counts := make(map[string]int, 3)
	for i := range idx.levels {
		counts[Level(i+1).String()] = len(idx.levels[i].Names)
	}
	return counts
}
