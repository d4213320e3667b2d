package cache

import (
	"context"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateUserCache drops the cached row of a user after a profile change or deletion
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userID uint) {
	if !cm.Enabled() {
		return
	}
	SafeDelete(ctx, cm.User, UserKey(userID))
}

// InvalidateCatalog drops every cached reference list
func InvalidateCatalog(ctx context.Context, cm *CacheManager) {
	if !cm.Enabled() {
		return
	}
	SafeInvalidatePattern(ctx, cm.Catalog, "*")
}
