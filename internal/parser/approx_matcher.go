package parser

import (
	"context"
	"math"
	"strings"

	"github.com/address-resolver/internal/normalizer"
	"github.com/address-resolver/internal/trie"
)

// DefaultThreshold khoảng cách lớn nhất còn được chấp nhận
const DefaultThreshold = 2.0

type scored struct {
	name  trie.Name
	words []string
	dist  float64
}

// matchApproximate mở rộng cửa sổ token từ phải sang, so với phần đuôi cùng độ dài của từng ứng viên.
// Sau mỗi vòng chỉ giữ các ứng viên hòa ở khoảng cách nhỏ nhất; ứng viên ngắn hơn cửa sổ
// giữ khoảng cách của cả tên.
func matchApproximate(ctx context.Context, tokens []string, names []trie.Name, sc scope, threshold float64, tb TieBreaker) (match, error) {
	if len(tokens) == 0 {
		return match{}, nil
	}

	pool := make([]scored, 0, len(names))
	for _, name := range names {
		if !sc.allowsName(name) {
			continue
		}
		if words := name.Words(); len(words) > 0 {
			pool = append(pool, scored{name: name, words: words})
		}
	}
	if len(pool) == 0 {
		return match{}, nil
	}

	width := 0
	minDist := math.Inf(1)
	for w := 1; w <= len(tokens) && len(pool) > 0; w++ {
		if err := ctx.Err(); err != nil {
			return match{}, err
		}

		window := strings.Join(tokens[len(tokens)-w:], " ")
		roundMin := math.Inf(1)
		for i := range pool {
			c := &pool[i]
			if len(c.words) >= w {
				c.dist = Distance(strings.Join(c.words[len(c.words)-w:], " "), window)
			}
			if c.dist < roundMin {
				roundMin = c.dist
			}
		}

		tied := make([]scored, 0, len(pool))
		longest := 0
		for _, c := range pool {
			if c.dist == roundMin {
				tied = append(tied, c)
				if len(c.words) > longest {
					longest = len(c.words)
				}
			}
		}
		pool, minDist, width = tied, roundMin, w

		if longest <= w {
			break
		}
	}

	if minDist > threshold {
		return match{}, nil
	}

	if width == 1 && normalizer.IsNumeric(tokens[len(tokens)-1]) {
		pool = sameNumber(pool, tokens[len(tokens)-1])
		if len(pool) == 0 {
			return match{}, nil
		}
	}

	tied := make([]trie.Name, len(pool))
	for i, c := range pool {
		tied[i] = c.name
	}
	window := strings.Join(tokens[len(tokens)-width:], " ")
	chosen := tb.Pick(window, tied)

	consumed := len(chosen.Words())
	if consumed > width {
		consumed = width
	}
	return match{name: chosen.Text, consumed: consumed, strategy: StrategyApproximate, distance: minDist}, nil
}

// sameNumber giữ các ứng viên có từ cuối là đúng số đó (bỏ qua số 0 đứng đầu)
func sameNumber(pool []scored, token string) []scored {
	want := strings.TrimLeft(token, "0")
	out := pool[:0]
	for _, c := range pool {
		if strings.TrimLeft(c.words[len(c.words)-1], "0") == want {
			out = append(out, c)
		}
	}
	return out
}
