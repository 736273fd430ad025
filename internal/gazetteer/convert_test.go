package gazetteer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportUnits() []SourceUnit {
	return []SourceUnit{
		{ID: 1, Level: 1, Name: "Thành phố Hà Nội", KeyWord: "ha noi"},
		{ID: 79, Level: 1, Name: "Thành phố Hồ Chí Minh"},
		{ID: 101, Level: 2, Name: "Quận Ba Đình", ProvinceID: 1},
		{ID: 760, Level: 2, Name: "Quận 1", ProvinceID: 79},
		{ID: 769, Level: 2, Name: "Thành phố Thủ Đức", ProvinceID: 79},
		{ID: 900, Level: 2, Name: "Huyện Mồ Côi", ProvinceID: 404},
		{ID: 1001, Level: 3, Name: "Phường Phúc Xá", ProvinceID: 1, DistrictID: 101},
		{ID: 26734, Level: 3, Name: "Phường Bến Nghé", ProvinceID: 79, DistrictID: 760},
		{ID: 26800, Level: 3, Name: "Phường Thảo Điền", ProvinceID: 79, DistrictID: 769},
		{ID: 9999, Level: 3, Name: "Xã Lạc Loài", DistrictID: 900},
	}
}

func TestStripAdminPrefix(t *testing.T) {
	cases := map[string]string{
		"Thành phố Hà Nội":  "Hà Nội",
		"Tỉnh Bắc Ninh":     "Bắc Ninh",
		"Quận 1":            "1",
		"Thị trấn Đông Anh": "Đông Anh",
		"Xã Tân Phú":        "Tân Phú",
		"Phường ":           "Phường",
		"Bến Nghé":          "Bến Nghé",
	}
	for in, want := range cases {
		assert.Equal(t, want, StripAdminPrefix(in), in)
	}
}

func TestFromUnits(t *testing.T) {
	ds, stats := FromUnits(exportUnits())

	assert.Equal(t, ConvertStats{Provinces: 2, Districts: 3, Wards: 3, Orphans: 2}, stats)
	assert.Equal(t, []string{"Hà Nội", "Hồ Chí Minh"}, ds.Provinces.Raw)
	assert.Equal(t, []string{"Ba Đình", "1", "Thủ Đức"}, ds.Districts.Raw)
	assert.Equal(t, []string{"Ba Đình, Hà Nội", "1, Hồ Chí Minh", "Thủ Đức, Hồ Chí Minh"}, ds.Districts.Standard)
	assert.Equal(t, []string{
		"Phúc Xá, Ba Đình, Hà Nội",
		"Bến Nghé, 1, Hồ Chí Minh",
		"Thảo Điền, Thủ Đức, Hồ Chí Minh",
	}, ds.Wards.Standard)
	assert.Equal(t, map[string]string{"hanoi": "Hà Nội", "hochiminh": "Hồ Chí Minh"}, ds.Aliases)
	assert.NoError(t, ds.Validate())
}

func TestWriteDir_RoundTrip(t *testing.T) {
	ds, _ := FromUnits(exportUnits())
	dir := filepath.Join(t.TempDir(), "reference")

	require.NoError(t, WriteDir(ds, dir))

	loaded, err := NewDirSource(dir).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ds.Provinces, loaded.Provinces)
	assert.Equal(t, ds.Districts, loaded.Districts)
	assert.Equal(t, ds.Wards, loaded.Wards)
	assert.Equal(t, ds.Aliases, loaded.Aliases)
	assert.Equal(t, ds.Version(), loaded.Version())
}

func TestWriteDir_NoAliases(t *testing.T) {
	ds := &Dataset{Provinces: LevelData{Raw: []string{"Hà Nội"}}}
	dir := t.TempDir()

	require.NoError(t, WriteDir(ds, dir))

	loaded, err := NewDirSource(dir).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Hà Nội"}, loaded.Provinces.Raw)
	assert.Nil(t, loaded.Aliases)
}
