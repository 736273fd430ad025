package parser

import (
	"testing"

	"github.com/address-resolver/internal/normalizer"
	"github.com/address-resolver/internal/trie"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	testProvinces = []string{
		"Hồ Chí Minh",
		"Hà Nội",
		"Nam Định",
		"Bình Định",
		"Bến Tre",
		"Đà Nẵng",
		"Bà Rịa - Vũng Tàu",
	}
	testDistricts = []string{
		"1 , Hồ Chí Minh",
		"3 , Hồ Chí Minh",
		"5 , Hồ Chí Minh",
		"Bình Thạnh , Hồ Chí Minh",
		"Ba Đình , Hà Nội",
		"Cầu Giấy , Hà Nội",
		"Châu Thành , Bến Tre",
		"Hải Châu , Đà Nẵng",
	}
	testWards = []string{
		"Bến Nghé , 1 , Hồ Chí Minh",
		"1 , 5 , Hồ Chí Minh",
		"2 , 5 , Hồ Chí Minh",
		"10 , 5 , Hồ Chí Minh",
		"1 , 3 , Hồ Chí Minh",
		"Phúc Xá , Ba Đình , Hà Nội",
		"Dịch Vọng , Cầu Giấy , Hà Nội",
		"Tân Thạch , Châu Thành , Bến Tre",
		"Thạch Thang , Hải Châu , Đà Nẵng",
	}
)

func newTestIndex() *trie.Index {
	return trie.NewIndex(
		trie.Reconcile(testProvinces, testProvinces, trie.LevelProvince),
		trie.Reconcile(nil, testDistricts, trie.LevelDistrict),
		trie.Reconcile(nil, testWards, trie.LevelWard),
	)
}

func newTestResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	rules, err := normalizer.LoadRulesConfig()
	require.NoError(t, err)
	return NewResolver(newTestIndex(), normalizer.NewNormalizer(rules.ProvinceAbbreviations), zap.NewNop(), opts...)
}
