package resilience

import (
	"context"

	"github.com/richxcame/finsight/pkg/logger"
	"go.uber.org/zap"
)

// FallbackFunc decides the result of a call the breaker rejected
type FallbackFunc func(ctx context.Context, err error) (interface{}, error)

// RejectFallback reports ErrCircuitOpen and nothing else
func RejectFallback(ctx context.Context, err error) (interface{}, error) {
	return nil, ErrCircuitOpen
}

// WarnAndReject logs the rejection against dependency and reports
// ErrCircuitOpen. Cache callers treat that as a miss.
func WarnAndReject(dependency string) FallbackFunc {
	return func(ctx context.Context, err error) (interface{}, error) {
		logger.WithContext(ctx).Warn("circuit open, skipping call",
			zap.String("dependency", dependency),
			zap.Error(err),
		)
		return nil, ErrCircuitOpen
	}
}
