package cache

import (
	"testing"
	"time"
)

func TestTTLCacheSetGet(t *testing.T) {
	c := NewTTLCache()
	c.Set("k", 42, time.Minute)
	v, ok := c.Get("k")
	if !ok {
		t.Fatalf("expected hit")
	}
	if v.(int) != 42 {
		t.Fatalf("got %v, want 42", v)
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatalf("expected miss for unknown key")
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	c := NewTTLCacheWithClock(func() time.Time { return now })
	c.Set("k", "v", 30*time.Second)

	now = now.Add(29 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatalf("expected hit before expiry")
	}

	now = now.Add(2 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected miss after expiry")
	}
	// expired entry is removed, not just hidden
	c.mu.RLock()
	_, present := c.m["k"]
	c.mu.RUnlock()
	if present {
		t.Fatalf("expired entry should be deleted on read")
	}
}

func TestTTLCacheZeroTTLNeverExpires(t *testing.T) {
	now := time.Unix(1000, 0)
	c := NewTTLCacheWithClock(func() time.Time { return now })
	c.Set("k", "v", 0)
	now = now.Add(24 * time.Hour)
	if _, ok := c.Get("k"); !ok {
		t.Fatalf("zero TTL entry must not expire")
	}
}

func TestTTLCacheBytes(t *testing.T) {
	c := NewTTLCache()
	if err := c.SetBytes("b", []byte("payload"), time.Minute); err != nil {
		t.Fatalf("SetBytes: %v", err)
	}
	b, ok, err := c.GetBytes("b")
	if err != nil || !ok {
		t.Fatalf("GetBytes ok=%v err=%v", ok, err)
	}
	if string(b) != "payload" {
		t.Fatalf("got %q", b)
	}
	// non-byte values are reported as a miss
	c.Set("i", 7, time.Minute)
	if _, ok, _ := c.GetBytes("i"); ok {
		t.Fatalf("non-bytes value should miss")
	}
}
