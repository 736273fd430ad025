package parser

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/address-resolver/internal/normalizer"
	"github.com/address-resolver/internal/trie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Process(t *testing.T) {
	r := newTestResolver(t)

	testCases := []struct {
		name     string
		input    string
		expected Result
	}{
		{
			name:     "full address with keywords and house number",
			input:    "123 Lê Lợi, Phường 1, Quận 5, TP Hồ Chí Minh",
			expected: Result{Province: "Hồ Chí Minh", District: "5", Ward: "1"},
		},
		{
			name:     "missing tones",
			input:    "Ha Noi",
			expected: Result{Province: "Hà Nội"},
		},
		{
			name:     "missing district segment",
			input:    "Phường Bến Nghé,, TP HCM",
			expected: Result{Province: "Hồ Chí Minh", Ward: "Bến Nghé", DistrictAbsent: true},
		},
		{
			name:     "ward from another province is rejected",
			input:    "Phúc Xá, Quận 1, Hồ Chí Minh",
			expected: Result{Province: "Hồ Chí Minh", District: "1"},
		},
		{
			name:     "merged province words",
			input:    "Bến Nghé, Quận 1, HồChíMinh",
			expected: Result{Province: "Hồ Chí Minh", District: "1", Ward: "Bến Nghé"},
		},
		{
			name:     "typo in ward",
			input:    "Phường Ben Nghe, Quận 1, Hồ Chí Minh",
			expected: Result{Province: "Hồ Chí Minh", District: "1", Ward: "Bến Nghé"},
		},
		{
			name:     "numeric ward not guessed",
			input:    "Phường 7, Quận 5, Hồ Chí Minh",
			expected: Result{Province: "Hồ Chí Minh", District: "5"},
		},
		{
			name:     "ward resolved by province when district is unknown",
			input:    "Xã Tân Thạch, Huyện Mỏ Cày, Bến Tre",
			expected: Result{Province: "Bến Tre", Ward: "Tân Thạch"},
		},
		{
			name:     "keywords and names without tones",
			input:    "Phuong Ben Nghe, Quan 1, Ho Chi Minh",
			expected: Result{Province: "Hồ Chí Minh", District: "1", Ward: "Bến Nghé"},
		},
		{
			name:     "hyphenated province",
			input:    "Bà Rịa-Vũng Tàu",
			expected: Result{Province: "Bà Rịa - Vũng Tàu"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.Process(context.Background(), tc.input)
			require.NoError(t, err)

			got.Matches = nil
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestResolver_MatchTrace(t *testing.T) {
	r := newTestResolver(t)

	got, err := r.Process(context.Background(), "Ha Noi")
	require.NoError(t, err)
	require.Len(t, got.Matches, 1)
	assert.Equal(t, LevelMatch{Level: "province", Name: "Hà Nội", Strategy: StrategyApproximate, Distance: 0.6, Consumed: 2}, got.Matches[0])
}

func TestResolver_InvalidInput(t *testing.T) {
	r := newTestResolver(t)

	for _, in := range []string{"", "   ", "\t\n"} {
		_, err := r.Process(context.Background(), in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	// địa chỉ không khớp gì vẫn là kết quả hợp lệ
	got, err := r.Process(context.Background(), "qwerty")
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestResolver_Deterministic(t *testing.T) {
	r := newTestResolver(t)
	input := "Bến Nghé, Quận 1, HồChíMinh"

	first, err := r.Process(context.Background(), input)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := r.Process(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestResolver_HierarchyInvariant(t *testing.T) {
	r := newTestResolver(t)
	idx := newTestIndex()

	inputs := []string{
		"123 Lê Lợi, Phường 1, Quận 5, TP Hồ Chí Minh",
		"Phúc Xá, Ba Đình, Hà Nội",
		"Ba Đình, Hồ Chí Minh",
		"Châu Thành, Đà Nẵng",
		"1, Hà Nội",
	}
	for _, in := range inputs {
		got, err := r.Process(context.Background(), in)
		require.NoError(t, err)
		if got.District == "" || got.Province == "" {
			continue
		}
		found := false
		for _, n := range idx.Level(trie.LevelDistrict).Names {
			if n.Text == got.District && n.Province == got.Province {
				found = true
			}
		}
		assert.True(t, found, "input %q resolved %+v", in, got)
	}
}

func TestResolver_CancelledContext(t *testing.T) {
	r := newTestResolver(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := r.Process(ctx, "Ha Noi")
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, got.Empty())
}

func TestResolver_ProcessBatch(t *testing.T) {
	r := newTestResolver(t)
	addresses := []string{
		"Ha Noi",
		"",
		"123 Lê Lợi, Phường 1, Quận 5, TP Hồ Chí Minh",
		"Phúc Xá, Ba Đình, Hà Nội",
	}

	results := r.ProcessBatch(context.Background(), addresses, BatchOptions{Workers: 2, Timeout: time.Second})
	require.Len(t, results, len(addresses))

	assert.Equal(t, "Hà Nội", results[0].Province)
	assert.True(t, results[1].Empty())
	assert.Equal(t, "1", results[2].Ward)
	assert.Equal(t, "Phúc Xá", results[3].Ward)
	assert.Equal(t, "Ba Đình", results[3].District)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, res := range r.ProcessBatch(ctx, addresses, BatchOptions{}) {
		assert.True(t, res.Empty())
	}
}

// slowTieBreaker chậm với các cửa sổ chứa marker để làm quá hạn đúng một địa chỉ
type slowTieBreaker struct {
	marker string
	delay  time.Duration
}

func (s slowTieBreaker) Pick(window string, tied []trie.Name) trie.Name {
	if strings.Contains(normalizer.Fold(window), s.marker) {
		time.Sleep(s.delay)
	}
	return ReverseLexical{}.Pick(window, tied)
}

func TestResolver_ProcessBatchPerAddressTimeout(t *testing.T) {
	r := newTestResolver(t, WithTieBreaker(slowTieBreaker{marker: "noi", delay: 300 * time.Millisecond}))
	addresses := []string{
		"123 Lê Lợi, Phường 1, Quận 5, TP Hồ Chí Minh",
		"Ha Noi",
		"Phúc Xá, Ba Đình, Hà Nội",
		"Bến Nghé, Quận 1, Hồ Chí Minh",
	}

	results := r.ProcessBatch(context.Background(), addresses, BatchOptions{Workers: 4, Timeout: 100 * time.Millisecond})
	require.Len(t, results, len(addresses))

	assert.Equal(t, Result{Province: "Hồ Chí Minh", District: "5", Ward: "1"}, withoutTrace(results[0]))
	assert.True(t, results[1].Empty())
	assert.Equal(t, Result{Province: "Hà Nội", District: "Ba Đình", Ward: "Phúc Xá"}, withoutTrace(results[2]))
	assert.Equal(t, Result{Province: "Hồ Chí Minh", District: "1", Ward: "Bến Nghé"}, withoutTrace(results[3]))

	got, err := r.Process(context.Background(), "Ha Noi")
	require.NoError(t, err)
	assert.Equal(t, "Hà Nội", got.Province)
}

func withoutTrace(res Result) Result {
	res.Matches = nil
	return res
}

func TestResolver_Options(t *testing.T) {
	strict := newTestResolver(t, WithThreshold(0.5), WithTieBreaker(JaroWinkler{}))

	got, err := strict.Process(context.Background(), "Ha Noi")
	require.NoError(t, err)
	assert.Empty(t, got.Province)

	assert.IsType(t, JaroWinkler{}, strict.tieBreaker)
}
