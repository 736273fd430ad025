package parser

import (
	"context"
	"testing"

	"github.com/address-resolver/internal/trie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchExact(t *testing.T) {
	idx := newTestIndex()
	provinces := idx.Level(trie.LevelProvince).Root
	anyProvince := scope{level: trie.LevelProvince}

	t.Run("longest suffix", func(t *testing.T) {
		m := matchExact([]string{"123", "Hồ", "Chí", "Minh"}, provinces, anyProvince)
		assert.Equal(t, match{name: "Hồ Chí Minh", consumed: 3, strategy: StrategyExact}, m)
	})

	t.Run("punctuation glued to token", func(t *testing.T) {
		m := matchExact([]string{"Hồ", "Chí", "Minh;"}, provinces, anyProvince)
		assert.Equal(t, match{name: "Hồ Chí Minh", consumed: 3, strategy: StrategySubstring}, m)
	})

	t.Run("merged words", func(t *testing.T) {
		m := matchExact([]string{"Nghé", "HồChíMinh"}, provinces, anyProvince)
		assert.Equal(t, match{name: "Hồ Chí Minh", consumed: 1, strategy: StrategySubstring}, m)
	})

	t.Run("trailing country name", func(t *testing.T) {
		m := matchExact([]string{"Ba", "Đình", "Hà", "Nội", "Việt", "Nam"}, provinces, anyProvince)
		assert.Equal(t, match{name: "Hà Nội", consumed: 4, strategy: StrategySubstring}, m)
	})

	t.Run("name inside a longer word is ignored", func(t *testing.T) {
		m := matchExact([]string{"Trebien"}, provinces, anyProvince)
		assert.False(t, m.ok())
	})

	t.Run("wrong parent rejected", func(t *testing.T) {
		districts := idx.Level(trie.LevelDistrict).Root
		m := matchExact([]string{"1"}, districts, scope{level: trie.LevelDistrict, province: "Hà Nội"})
		assert.False(t, m.ok())

		m = matchExact([]string{"1"}, districts, scope{level: trie.LevelDistrict, province: "Hồ Chí Minh"})
		assert.Equal(t, "1", m.name)
	})

	t.Run("numbers never match inside other numbers", func(t *testing.T) {
		wards := idx.Level(trie.LevelWard).Root
		m := matchExact([]string{"phường12"}, wards, scope{level: trie.LevelWard, province: "Hồ Chí Minh", district: "5"})
		assert.False(t, m.ok())
	})

	t.Run("empty input", func(t *testing.T) {
		assert.False(t, matchExact(nil, provinces, anyProvince).ok())
	})
}

func TestMatchApproximate(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	t.Run("missing tones", func(t *testing.T) {
		m, err := matchApproximate(ctx, []string{"Ha", "Noi"}, idx.Level(trie.LevelProvince).Names,
			scope{level: trie.LevelProvince}, DefaultThreshold, ReverseLexical{})
		require.NoError(t, err)
		assert.Equal(t, match{name: "Hà Nội", consumed: 2, strategy: StrategyApproximate, distance: 0.6}, m)
	})

	t.Run("filtered by resolved parents", func(t *testing.T) {
		sc := scope{level: trie.LevelWard, province: "Hồ Chí Minh", district: "1"}
		m, err := matchApproximate(ctx, []string{"Ben", "Nghe"}, idx.Level(trie.LevelWard).Names, sc, DefaultThreshold, ReverseLexical{})
		require.NoError(t, err)
		assert.Equal(t, "Bến Nghé", m.name)
		assert.Equal(t, 2, m.consumed)

		sc = scope{level: trie.LevelWard, province: "Hà Nội", district: "Ba Đình"}
		m, err = matchApproximate(ctx, []string{"Ben", "Nghe"}, idx.Level(trie.LevelWard).Names, sc, DefaultThreshold, ReverseLexical{})
		require.NoError(t, err)
		assert.False(t, m.ok())
	})

	t.Run("numeric token needs a literal match", func(t *testing.T) {
		sc := scope{level: trie.LevelWard, province: "Hồ Chí Minh", district: "5"}
		m, err := matchApproximate(ctx, []string{"7"}, idx.Level(trie.LevelWard).Names, sc, DefaultThreshold, ReverseLexical{})
		require.NoError(t, err)
		assert.False(t, m.ok())

		m, err = matchApproximate(ctx, []string{"02"}, idx.Level(trie.LevelWard).Names, sc, DefaultThreshold, ReverseLexical{})
		require.NoError(t, err)
		assert.Equal(t, "2", m.name)
	})

	t.Run("threshold", func(t *testing.T) {
		m, err := matchApproximate(ctx, []string{"Hai", "Phong"}, idx.Level(trie.LevelProvince).Names,
			scope{level: trie.LevelProvince}, DefaultThreshold, ReverseLexical{})
		require.NoError(t, err)
		assert.False(t, m.ok())
	})

	t.Run("shorter exact candidate beats longer partial", func(t *testing.T) {
		names := []trie.Name{
			{Text: "An", Level: trie.LevelWard},
			{Text: "Bình An", Level: trie.LevelWard},
		}
		m, err := matchApproximate(ctx, []string{"Tân", "An"}, names, scope{level: trie.LevelWard}, DefaultThreshold, ReverseLexical{})
		require.NoError(t, err)
		assert.Equal(t, match{name: "An", consumed: 1, strategy: StrategyApproximate, distance: 0}, m)
	})

	t.Run("empty candidates", func(t *testing.T) {
		m, err := matchApproximate(ctx, []string{"x"}, nil, scope{level: trie.LevelWard}, DefaultThreshold, ReverseLexical{})
		require.NoError(t, err)
		assert.False(t, m.ok())
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := matchApproximate(cctx, []string{"Ha", "Noi"}, idx.Level(trie.LevelProvince).Names,
			scope{level: trie.LevelProvince}, DefaultThreshold, ReverseLexical{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestTieBreakers(t *testing.T) {
	tied := []trie.Name{{Text: "Xuân An"}, {Text: "An Hòa"}}

	assert.Equal(t, "Xuân An", ReverseLexical{}.Pick("an hoa", tied).Text)
	assert.Equal(t, "An Hòa", JaroWinkler{}.Pick("an hoa", tied).Text)

	tb, err := TieBreakerByName("jaro_winkler")
	require.NoError(t, err)
	assert.IsType(t, JaroWinkler{}, tb)

	tb, err = TieBreakerByName("")
	require.NoError(t, err)
	assert.IsType(t, ReverseLexical{}, tb)

	_, err = TieBreakerByName("coin_flip")
	assert.Error(t, err)
}
