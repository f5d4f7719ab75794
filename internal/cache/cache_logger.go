package cache

import (
	"context"
	"log/slog"
)

// SafeDelete deletes cache keys and logs failures without propagating them.
// Cache invalidation failures must never fail the underlying write.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if helper == nil || len(keys) == 0 {
		return
	}

	if err := helper.Delete(ctx, keys...); err != nil {
		slog.WarnContext(ctx, "Cache invalidation failed",
			"error", err,
			"keys", keys)
	}
}

// SafeInvalidatePattern invalidates keys matching a pattern, logging failures.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if helper == nil {
		return
	}

	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.WarnContext(ctx, "Cache pattern invalidation failed",
			"error", err,
			"pattern", pattern)
	}
}
