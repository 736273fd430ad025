package parser

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchOptions giới hạn song song và thời gian cho mỗi địa chỉ
type BatchOptions struct {
	Workers int
	Timeout time.Duration
}

// ProcessBatch giải nhiều địa chỉ song song trên cùng chỉ mục.
// Địa chỉ lỗi hoặc quá hạn cho Result rỗng tại đúng vị trí, không làm hỏng cả batch.
func (r *Resolver) ProcessBatch(ctx context.Context, addresses []string, opts BatchOptions) []Result {
	results := make([]Result, len(addresses))

	g, gctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}

	for i, addr := range addresses {
		i, addr := i, addr
		g.Go(func() error {
			actx, cancel := gctx, context.CancelFunc(func() {})
			if opts.Timeout > 0 {
				actx, cancel = context.WithTimeout(gctx, opts.Timeout)
			}
			defer cancel()

			res, err := r.Process(actx, addr)
			if err != nil {
				if !errors.Is(err, ErrInvalidInput) {
					r.logger.Warn("Bỏ qua địa chỉ trong batch", zap.Int("index", i), zap.Error(err))
				}
				return nil
			}
			results[i] = res
			return nil
		})
	}

	_ = g.Wait()
	return results
}
