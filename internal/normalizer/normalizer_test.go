package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	rules, err := LoadRulesConfig()
	require.NoError(t, err)
	return NewNormalizer(rules.ProvinceAbbreviations)
}

func TestNormalize_Pipeline(t *testing.T) {
	n := newTestNormalizer(t)

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "keywords and short forms",
			input:    "123 Lê Lợi, Phường 1, Quận 5, TP Hồ Chí Minh",
			expected: "123 Lê Lợi 1 5 Hồ Chí Minh",
		},
		{
			name:     "uppercase keywords",
			input:    "PHƯỜNG BẾN NGHÉ, QUẬN 1",
			expected: "BẾN NGHÉ 1",
		},
		{
			name:     "joined hyphen",
			input:    "Bà Rịa-Vũng Tàu",
			expected: "Bà Rịa Vũng Tàu",
		},
		{
			name:     "locality markers",
			input:    "Số nhà 5, Tổ 3, Thôn An, Xã Bình Minh",
			expected: "Thôn An Bình Minh",
		},
		{
			name:     "dotted abbreviations",
			input:    "Lê Duẩn, P.Bến Nghé, Q.1",
			expected: "Lê Duẩn Bến Nghé 1",
		},
		{
			name:     "district number glued to abbreviation",
			input:    "Nguyễn Trãi Q5",
			expected: "Nguyễn Trãi 5",
		},
		{
			name:     "keywords without tones",
			input:    "Phuong Ben Nghe, Quan 1, Ho Chi Minh",
			expected: "Ben Nghe 1 Ho Chi Minh",
		},
		{
			name:     "keywords without tones at every segment",
			input:    "Xa Tan Thach, Huyen Chau Thanh, Tinh Ben Tre",
			expected: "Tan Thach Chau Thanh Ben Tre",
		},
		{
			name:     "numbered keywords without tones",
			input:    "12 Nguyen Trai phuong 10 quan 5",
			expected: "12 Nguyen Trai 10 5",
		},
		{
			name:     "short names starting with a keyword are kept",
			input:    "Xa La, Ha Dong, Ha Noi",
			expected: "Xa La Ha Dong Ha Noi",
		},
		{
			name:     "locality markers without tones",
			input:    "So nha 5, To 3, Thon An",
			expected: "Thon An",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, n.Normalize(tc.input))
		})
	}
}

func TestNormalize_HouseNumberAfterPreprocess(t *testing.T) {
	n := newTestNormalizer(t)

	text, hasDistrict := n.Preprocess("12/3A, Nguyễn Trãi, Q.1, TP.HCM")
	assert.True(t, hasDistrict)
	assert.Equal(t, "12/3A, Nguyễn Trãi, Q.1, Hồ Chí Minh", text)
	assert.Equal(t, "Nguyễn Trãi 1 Hồ Chí Minh", n.Normalize(text))
}

func TestNormalize_Idempotent(t *testing.T) {
	n := newTestNormalizer(t)

	inputs := []string{
		"123 Lê Lợi, Phường 1, Quận 5, TP Hồ Chí Minh",
		"T H Q.3 P.7",
		"a-b-c-d, ,, tp.",
		"Số 12 khu phố 3, tổ 4, Thị xã Sơn Tây",
		"  ,,, . ",
		"Thị trấn Đông Anh, Huyện Đông Anh, Thành phố Hà Nội",
		"Phuong Quan Hoa, Quan Cau Giay, Thanh pho Ha Noi",
		"Xa Tan Thach, Huyen Chau Thanh, Tinh Ben Tre",
		"",
	}

	for _, in := range inputs {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), "input %q", in)
	}
}

func TestPreprocess_MissingDistrictSegment(t *testing.T) {
	n := newTestNormalizer(t)

	testCases := []struct {
		input       string
		hasDistrict bool
	}{
		{"Phường 1, Quận 3, Hồ Chí Minh", true},
		{"Phường 1,, Hồ Chí Minh", false},
		{"Phường 1, , Hồ Chí Minh", false},
		{"Hồ Chí Minh", true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			_, hasDistrict := n.Preprocess(tc.input)
			assert.Equal(t, tc.hasDistrict, hasDistrict)
		})
	}
}

func TestPreprocess_LastTokenAlias(t *testing.T) {
	n := NewNormalizer(map[string]string{"HCM": "Hồ Chí Minh"})

	text, _ := n.Preprocess("Quận 1, hcm.")
	assert.Equal(t, "Quận 1, Hồ Chí Minh", text)

	// chỉ token cuối được thay
	text, _ = n.Preprocess("hcm Quận 1")
	assert.Equal(t, "hcm Quận 1", text)
}

func TestPreprocess_CorrectsMisplacedTone(t *testing.T) {
	n := NewNormalizer(nil)

	text, _ := n.Preprocess("xã ià, huyện oà")
	assert.Equal(t, "xã ìa, huyện òa", text)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "hồ", Key("Hồ"))
	assert.Equal(t, "ìa", Key("IÀ"))
	// dạng tổ hợp (NFD) được đưa về dạng dựng sẵn
	assert.Equal(t, "nội", Key("No\u0323\u0302i"))
}

func TestAccents(t *testing.T) {
	assert.Equal(t, "Ho Chi Minh", StripDiacritics("Hồ Chí Minh"))
	assert.Equal(t, "da nang", Fold("Đà Nẵng"))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"Bà", "Rịa", "Vũng", "Tàu"}, Tokenize("Bà Rịa - Vũng Tàu"))
	assert.Empty(t, Tokenize(" ; - "))
	assert.True(t, IsNumeric("05"))
	assert.False(t, IsNumeric("5a"))
}

func TestLoadRulesConfig(t *testing.T) {
	rules, err := LoadRulesConfig()
	require.NoError(t, err)

	assert.Equal(t, "Hồ Chí Minh", rules.ProvinceAbbreviations["hcm"])
	assert.Equal(t, "Quy Nhơn", rules.DistrictVariants["Qui Nhơn"])
	assert.Equal(t, "1", rules.WardVariants["01"])
	assert.Equal(t, "Hòa Bình", rules.WardVariants["Hoà Bình"])
}
