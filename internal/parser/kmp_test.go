package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailure(t *testing.T) {
	assert.Equal(t, []int{0, 1, 0, 1, 2, 2}, failure([]rune("aabaaa")))
	assert.Equal(t, []int{0}, failure([]rune("x")))
}

func TestLastIndex(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		pattern  string
		expected int
	}{
		{"rightmost occurrence", "abcabc", "abc", 3},
		{"not found", "abc", "d", -1},
		{"pattern longer than text", "ab", "abc", -1},
		{"empty pattern", "abc", "", -1},
		{"merged words", "hồchíminh", "minh", 5},
		{"number in text", "phường 12 x", "12", 7},
		{"digit clash aborts", "ab12", "13", -1},
		{"overlapping", "aaaa", "aa", 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, lastIndex([]rune(tc.text), []rune(tc.pattern)))
		})
	}
}
