package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCacheStore_SetGetExpire(t *testing.T) {
	s := NewCacheStore()
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "dogs"); err != nil || ok {
		t.Fatalf("expected miss on empty store, ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "dogs", []byte("v1"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := s.Get(ctx, "dogs")
	if err != nil || !ok || string(got) != "v1" {
		t.Fatalf("expected hit v1, got %q ok=%v err=%v", got, ok, err)
	}

	// el valor devuelto es una copia
	got[0] = 'X'
	again, _, _ := s.Get(ctx, "dogs")
	if string(again) != "v1" {
		t.Fatalf("stored value mutated through returned slice: %q", again)
	}

	now = now.Add(time.Hour)
	if _, ok, _ := s.Get(ctx, "dogs"); ok {
		t.Fatalf("expected entry to expire after ttl")
	}
}

func TestCacheStore_SetNXAndCompareAndDelete(t *testing.T) {
	s := NewCacheStore()
	ctx := context.Background()

	ok, err := s.SetNX(ctx, "lock", []byte("owner-1"), time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first SetNX to succeed, ok=%v err=%v", ok, err)
	}
	ok, _ = s.SetNX(ctx, "lock", []byte("owner-2"), time.Minute)
	if ok {
		t.Fatalf("expected second SetNX to fail while held")
	}

	deleted, _ := s.CompareAndDelete(ctx, "lock", []byte("owner-2"))
	if deleted {
		t.Fatalf("non-holder must not release the lock")
	}
	deleted, _ = s.CompareAndDelete(ctx, "lock", []byte("owner-1"))
	if !deleted {
		t.Fatalf("holder should release the lock")
	}

	ok, _ = s.SetNX(ctx, "lock", []byte("owner-2"), time.Minute)
	if !ok {
		t.Fatalf("expected SetNX after release to succeed")
	}
}

func TestCacheStore_SetNXAfterExpiry(t *testing.T) {
	s := NewCacheStore()
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = s.SetNX(ctx, "lock", []byte("crashed"), 45*time.Second)
	now = now.Add(46 * time.Second)

	ok, err := s.SetNX(ctx, "lock", []byte("next"), 45*time.Second)
	if err != nil || !ok {
		t.Fatalf("expected expired lock to be acquirable, ok=%v err=%v", ok, err)
	}
}

func TestCacheStore_SetNXConcurrentSingleWinner(t *testing.T) {
	s := NewCacheStore()
	ctx := context.Background()

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := s.SetNX(ctx, "lock", []byte("x"), time.Minute); ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
}

func TestCacheStore_RejectsEmptyKey(t *testing.T) {
	s := NewCacheStore()
	if _, _, err := s.Get(context.Background(), " "); err != ErrKeyRequired {
		t.Fatalf("expected ErrKeyRequired, got %v", err)
	}
}
