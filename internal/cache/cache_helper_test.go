package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCacheHelper(client, "roster:"), mr
}

func TestCacheHelper_SetGet(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	type roster struct {
		ClassID  string   `json:"class_id"`
		Students []string `json:"students"`
	}

	want := roster{ClassID: "c1", Students: []string{"STD-5090", "STD-5091"}}
	if err := helper.Set(ctx, "class:c1", want, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got roster
	if err := helper.Get(ctx, "class:c1", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ClassID != "c1" || len(got.Students) != 2 {
		t.Errorf("unexpected cached value: %+v", got)
	}
}

func TestCacheHelper_GetMiss(t *testing.T) {
	helper, _ := newTestHelper(t)

	var dest string
	err := helper.Get(context.Background(), "missing", &dest)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Fatalf("expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "roster:")
	ctx := context.Background()

	if err := helper.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Errorf("Set with nil client should be a no-op, got %v", err)
	}

	var dest string
	if err := helper.Get(ctx, "k", &dest); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return []string{"STD-5090"}, nil
	}

	var first []string
	if err := helper.CacheOrExecute(ctx, "class:c1", &first, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 fetch, got %d", calls)
	}

	// Cache population is async; wait for the key before the second call.
	deadline := time.Now().Add(time.Second)
	for !mrExists(t, helper, "class:c1") && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	var second []string
	if err := helper.CacheOrExecute(ctx, "class:c1", &second, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("second call should be served from cache, fetch ran %d times", calls)
	}
	if len(second) != 1 || second[0] != "STD-5090" {
		t.Errorf("unexpected cached value: %v", second)
	}
}

func mrExists(t *testing.T, helper *CacheHelper, key string) bool {
	t.Helper()
	ok, err := helper.Exists(context.Background(), key)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	return ok
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	helper, mr := newTestHelper(t)
	ctx := context.Background()

	if err := helper.SetString(ctx, "class:c1", "x", time.Minute); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}
	if err := helper.SetString(ctx, "class:c2", "y", time.Minute); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}

	if err := helper.InvalidatePattern(ctx, "class:*"); err != nil {
		t.Fatalf("InvalidatePattern failed: %v", err)
	}

	if mr.Exists("roster:class:c1") || mr.Exists("roster:class:c2") {
		t.Error("pattern invalidation should remove both keys")
	}
}

func TestCacheManager_RosterInvalidation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cm := NewCacheManager(client)
	ctx := context.Background()

	if err := cm.Roster.SetString(ctx, "class:c1", "cached", time.Minute); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}

	InvalidateRosterCache(ctx, cm, "c1")

	if mr.Exists("roster:class:c1") {
		t.Error("roster cache should be invalidated")
	}
}

func TestCacheManager_ClassMoveInvalidatesBothRosters(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cm := NewCacheManager(client)
	ctx := context.Background()

	// A student moving from c1 to c2: both class rosters were cached and
	// both must be dropped, or c1 keeps listing the moved student.
	if err := cm.Roster.SetString(ctx, "class:c1", `["STD-5090"]`, time.Minute); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}
	if err := cm.Roster.SetString(ctx, "class:c2", `[]`, time.Minute); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}

	InvalidateRosterCache(ctx, cm, "c2")
	InvalidateRosterCache(ctx, cm, "c1")

	if mr.Exists("roster:class:c1") {
		t.Error("old class roster must be invalidated after a move")
	}
	if mr.Exists("roster:class:c2") {
		t.Error("new class roster must be invalidated after a move")
	}
}

func TestCacheManager_UserInvalidation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cm := NewCacheManager(client)
	ctx := context.Background()

	// Keys written the way the user repository's read-through caching does.
	if err := cm.User.SetString(ctx, "id:u_1", "cached", time.Minute); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}
	if err := cm.User.SetString(ctx, "email:lec@school.com", "cached", time.Minute); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}

	InvalidateUserCache(ctx, cm, "u_1", "lec@school.com")

	if mr.Exists("user:id:u_1") || mr.Exists("user:email:lec@school.com") {
		t.Error("user cache keys should be invalidated")
	}
}

func TestCacheManager_InvalidateAllCaches(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cm := NewCacheManager(client)
	ctx := context.Background()

	seed := map[*CacheHelper]string{
		cm.Roster:     "class:c1",
		cm.Stats:      "class:c1:2025-09-01:2025-09-30",
		cm.Exists:     "sheet:c1:2025-09-01",
		cm.User:       "email:lec@school.com",
		cm.Attendance: "student:STD-5090:date:2025-09-01",
	}
	for helper, key := range seed {
		if err := helper.SetString(ctx, key, "cached", time.Minute); err != nil {
			t.Fatalf("SetString failed: %v", err)
		}
	}

	// Token revocation entries live next to the attendance cache keys and
	// must survive a full cache wipe.
	if err := client.Set(ctx, "attendance:revoked:jti-1", "1", time.Minute).Err(); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	InvalidateAllCaches(ctx, cm)

	for _, key := range []string{
		"roster:class:c1",
		"stats:class:c1:2025-09-01:2025-09-30",
		"exists:sheet:c1:2025-09-01",
		"user:email:lec@school.com",
		"attendance:student:STD-5090:date:2025-09-01",
	} {
		if mr.Exists(key) {
			t.Errorf("key %s should be invalidated", key)
		}
	}

	if !mr.Exists("attendance:revoked:jti-1") {
		t.Error("token revocation entries must survive cache invalidation")
	}
}
