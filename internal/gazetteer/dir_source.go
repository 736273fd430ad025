package gazetteer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/edsrzf/mmap-go"
	"gopkg.in/yaml.v3"
)

// Tên file trong thư mục dữ liệu tham chiếu
const (
	ProvinceFile         = "provinces.txt"
	ProvinceStandardFile = "provinces_standard.txt"
	DistrictFile         = "districts.txt"
	DistrictStandardFile = "districts_standard.txt"
	WardFile             = "wards.txt"
	WardStandardFile     = "wards_standard.txt"
	AliasFile            = "aliases.yaml"
)

// DirSource đọc dữ liệu tham chiếu từ thư mục file text, mỗi dòng một tên
type DirSource struct {
	Dir string
}

// NewDirSource tạo mới DirSource
func NewDirSource(dir string) *DirSource {
	return &DirSource{Dir: dir}
}

// Load đọc toàn bộ file trong thư mục, file thiếu được coi là rỗng
func (s *DirSource) Load(ctx context.Context) (*Dataset, error) {
	info, err := os.Stat(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("reference dir %s: %w", s.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("reference dir %s: not a directory", s.Dir)
	}

	ds := &Dataset{Source: "dir:" + s.Dir}
	targets := []struct {
		file string
		dst  *[]string
	}{
		{ProvinceFile, &ds.Provinces.Raw},
		{ProvinceStandardFile, &ds.Provinces.Standard},
		{DistrictFile, &ds.Districts.Raw},
		{DistrictStandardFile, &ds.Districts.Standard},
		{WardFile, &ds.Wards.Raw},
		{WardStandardFile, &ds.Wards.Standard},
	}
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines, err := readLines(filepath.Join(s.Dir, t.file))
		if err != nil {
			return nil, err
		}
		*t.dst = lines
	}

	aliases, err := readAliases(filepath.Join(s.Dir, AliasFile))
	if err != nil {
		return nil, err
	}
	ds.Aliases = aliases

	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("reference dir %s: %w", s.Dir, err)
	}
	return ds, nil
}

// readLines map file vào bộ nhớ rồi tách dòng, bỏ dòng trống
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	// mmap không map được file rỗng
	if info.Size() == 0 {
		return nil, nil
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	defer data.Unmap()

	return splitLines(string(data)), nil
}

func splitLines(content string) []string {
	content = strings.TrimPrefix(content, "\ufeff")
	raw := strings.Split(content, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func readAliases(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var aliases map[string]string
	if err := yaml.Unmarshal(content, &aliases); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return aliases, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
