package cache

import (
	"context"
	"fmt"
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

// InvalidateRosterCache invalidates roster caches for a class after any
// student or class mutation.
func InvalidateRosterCache(ctx context.Context, cm *CacheManager, classID string) {
	SafeDelete(ctx, cm.Roster, fmt.Sprintf("class:%s", classID))
	SafeInvalidatePattern(ctx, cm.Roster, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("class:%s:*", classID))
}

// InvalidateUserCache invalidates the cached user lookups by id and email.
func InvalidateUserCache(ctx context.Context, cm *CacheManager, id, email string) {
	SafeDelete(ctx, cm.User,
		fmt.Sprintf("id:%s", id),
		fmt.Sprintf("email:%s", email))
}

// InvalidateAllCaches drops every repository cache. Used after a snapshot
// import replaces the dataset wholesale. Token revocation entries share the
// "attendance:" prefix and must survive, so only the attendance data keys
// are matched there.
func InvalidateAllCaches(ctx context.Context, cm *CacheManager) {
	SafeInvalidatePattern(ctx, cm.Roster, "*")
	SafeInvalidatePattern(ctx, cm.Stats, "*")
	SafeInvalidatePattern(ctx, cm.Exists, "*")
	SafeInvalidatePattern(ctx, cm.User, "*")
	SafeInvalidatePattern(ctx, cm.Attendance, "student:*")
}

// InvalidateAttendanceCache invalidates attendance caches after a sheet
// submission or an override.
func InvalidateAttendanceCache(ctx context.Context, cm *CacheManager, classID, studentID, date string) {
	SafeDelete(ctx, cm.Attendance,
		fmt.Sprintf("student:%s:date:%s", studentID, date))
	SafeDelete(ctx, cm.Exists,
		fmt.Sprintf("sheet:%s:%s", classID, date))
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("class:%s:*", classID))
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("student:%s:*", studentID))
	SafeInvalidatePattern(ctx, cm.Stats, "overview:*")
}
