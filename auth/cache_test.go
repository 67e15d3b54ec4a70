package auth

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingLookup struct {
	calls atomic.Int32
	roles map[uint]Role
}

func (c *countingLookup) LookupPrincipal(_ context.Context, id uint) (Principal, error) {
	c.calls.Add(1)
	role, ok := c.roles[id]
	if !ok {
		return Principal{}, errors.New("not found")
	}
	return Principal{UserID: id, Role: role}, nil
}

func TestPrincipalCache(t *testing.T) {
	ctx := context.Background()
	inner := &countingLookup{roles: map[uint]Role{1: RoleCoach}}
	cache := NewPrincipalCache(inner, time.Minute)

	for i := 0; i < 3; i++ {
		p, err := cache.LookupPrincipal(ctx, 1)
		if err != nil || p.Role != RoleCoach {
			t.Fatalf("lookup: %+v %v", p, err)
		}
	}
	if n := inner.calls.Load(); n != 1 {
		t.Errorf("expected 1 inner call, got %d", n)
	}

	inner.roles[1] = RoleAdmin
	cache.Invalidate(1)
	p, _ := cache.LookupPrincipal(ctx, 1)
	if p.Role != RoleAdmin {
		t.Errorf("expected refreshed role, got %s", p.Role)
	}

	if _, err := cache.LookupPrincipal(ctx, 99); err == nil {
		t.Error("missing user must fail")
	}
	// failures are not cached
	if _, err := cache.LookupPrincipal(ctx, 99); err == nil {
		t.Error("missing user must still fail")
	}
	if n := inner.calls.Load(); n != 4 {
		t.Errorf("expected 4 inner calls, got %d", n)
	}
}

func TestPrincipalCacheExpiry(t *testing.T) {
	inner := &countingLookup{roles: map[uint]Role{1: RoleCoach}}
	cache := NewPrincipalCache(inner, time.Millisecond)
	_, _ = cache.LookupPrincipal(context.Background(), 1)
	time.Sleep(5 * time.Millisecond)
	_, _ = cache.LookupPrincipal(context.Background(), 1)
	if n := inner.calls.Load(); n != 2 {
		t.Errorf("expected refetch after ttl, got %d calls", n)
	}
}
