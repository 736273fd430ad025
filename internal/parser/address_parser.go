package parser

import (
	"context"
	"errors"
	"strings"

	"github.com/address-resolver/internal/normalizer"
	"github.com/address-resolver/internal/trie"
	"go.uber.org/zap"
)

// ErrInvalidInput địa chỉ rỗng, khác với kết quả không khớp
var ErrInvalidInput = errors.New("invalid input: empty address")

// Result ba trường hành chính đã giải, chuỗi rỗng là chưa giải được
type Result struct {
	Province string `json:"province"`
	District string `json:"district"`
	Ward     string `json:"ward"`

	// DistrictAbsent địa chỉ có phân đoạn quận/huyện bỏ trống (",,"), không phải lỗi khớp
	DistrictAbsent bool         `json:"district_absent,omitempty"`
	Matches        []LevelMatch `json:"matches,omitempty"`
}

// LevelMatch vết so khớp của một cấp
type LevelMatch struct {
	Level    string        `json:"level"`
	Name     string        `json:"name"`
	Strategy MatchStrategy `json:"strategy"`
	Distance float64       `json:"distance"`
	Consumed int           `json:"consumed"`
}

// Empty kiểm tra không cấp nào được giải
func (r Result) Empty() bool {
	return r.Province == "" && r.District == "" && r.Ward == ""
}

// Resolver giải địa chỉ theo thứ tự tỉnh → huyện → xã; an toàn khi dùng đồng thời
type Resolver struct {
	index      *trie.Index
	normalizer *normalizer.Normalizer
	threshold  float64
	tieBreaker TieBreaker
	logger     *zap.Logger
}

// Option tùy chọn cho Resolver
type Option func(*Resolver)

// WithThreshold đặt ngưỡng khoảng cách của bộ khớp gần đúng
func WithThreshold(threshold float64) Option {
	return func(r *Resolver) {
		if threshold > 0 {
			r.threshold = threshold
		}
	}
}

// WithTieBreaker thay quy tắc chọn khi hòa
func WithTieBreaker(tb TieBreaker) Option {
	return func(r *Resolver) {
		if tb != nil {
			r.tieBreaker = tb
		}
	}
}

// NewResolver tạo mới Resolver trên chỉ mục chỉ đọc
func NewResolver(index *trie.Index, norm *normalizer.Normalizer, logger *zap.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Resolver{
		index:      index,
		normalizer: norm,
		threshold:  DefaultThreshold,
		tieBreaker: ReverseLexical{},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Index chỉ mục đang dùng
func (r *Resolver) Index() *trie.Index {
	return r.index
}

// Process giải một địa chỉ. Context hết hạn thì trả về Result rỗng cùng lỗi của context.
func (r *Resolver) Process(ctx context.Context, raw string) (Result, error) {
	if strings.TrimSpace(raw) == "" {
		return Result{}, ErrInvalidInput
	}

	text, hasDistrict := r.normalizer.Preprocess(raw)
	tokens := normalizer.Tokenize(r.normalizer.Normalize(text))
	rc := newResolutionContext(tokens, hasDistrict)

	result := Result{DistrictAbsent: !hasDistrict}
	for _, level := range []trie.Level{trie.LevelProvince, trie.LevelDistrict, trie.LevelWard} {
		if level == trie.LevelDistrict && !rc.hasDistrict {
			continue
		}

		m, err := r.resolveLevel(ctx, rc, level)
		if err != nil {
			return Result{}, err
		}
		if !m.ok() {
			r.logger.Debug("Không khớp cấp", zap.Stringer("level", level), zap.Int("tokens", len(rc.tokens)))
			continue
		}

		rc.accept(level, m)
		result.Matches = append(result.Matches, LevelMatch{
			Level:    level.String(),
			Name:     m.name,
			Strategy: m.strategy,
			Distance: m.distance,
			Consumed: m.consumed,
		})
		r.logger.Debug("Đã khớp cấp",
			zap.Stringer("level", level),
			zap.String("strategy", string(m.strategy)),
			zap.Float64("distance", m.distance),
			zap.String("residual", rc.residual()))
	}

	result.Province, result.District, result.Ward = rc.province, rc.district, rc.ward
	return result, nil
}

// resolveLevel thử khớp chính xác rồi mới tới khớp gần đúng
func (r *Resolver) resolveLevel(ctx context.Context, rc *resolutionContext, level trie.Level) (match, error) {
	if err := ctx.Err(); err != nil {
		return match{}, err
	}

	li := r.index.Level(level)
	sc := rc.scope(level)
	if m := matchExact(rc.tokens, li.Root, sc); m.ok() {
		return m, nil
	}
	return matchApproximate(ctx, rc.tokens, li.Names, sc, r.threshold, r.tieBreaker)
}
