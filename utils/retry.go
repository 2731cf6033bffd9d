package utils

import (
	"context"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Retry calls fn until it succeeds or maxRetry attempts have failed, waiting
// on limiter before every attempt. fn always runs at least once.
func Retry(ctx context.Context, limiter *rate.Limiter, fn func() error, maxRetry int) error {
	var err error
	for i := 0; i < max(maxRetry, 1); i++ {
		if werr := limiter.Wait(ctx); werr != nil {
			if err != nil {
				return err
			}
			return werr
		}
		err = fn()
		if err == nil {
			return nil
		}
		zap.L().Warn("attempt failed", zap.Int("attempt", i+1), zap.Int("max", maxRetry), zap.Error(err))
	}
	return err
}
