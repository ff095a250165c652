package cache

import (
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestCache() (*Cache[int], *clock) {
	clk := &clock{t: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)}
	c := New[int]()
	c.now = clk.now
	return c, clk
}

func TestSetAndGet(t *testing.T) {
	c, _ := newTestCache()
	c.Set("stats:u1", 3, time.Minute)
	val, ok := c.Get("stats:u1")
	if !ok || val != 3 {
		t.Fatalf("expected 3, got %v, exists=%v", val, ok)
	}
}

func TestExpiration(t *testing.T) {
	c, clk := newTestCache()
	c.Set("stats:u1", 3, time.Minute)
	clk.t = clk.t.Add(time.Minute)
	if _, ok := c.Get("stats:u1"); ok {
		t.Fatalf("expected expired key to return false")
	}
}

func TestDelete(t *testing.T) {
	c, _ := newTestCache()
	c.Set("stats:u1", 3, time.Minute)
	c.Delete("stats:u1")
	if _, ok := c.Get("stats:u1"); ok {
		t.Fatalf("expected deleted key to return false")
	}
}

func TestInvalidate(t *testing.T) {
	c, _ := newTestCache()
	c.Set("stats:u1", 1, time.Minute)
	c.Set("stats:u2", 2, time.Minute)
	c.Set("venues:v1", 3, time.Minute)

	if n := c.Invalidate("stats:"); n != 2 {
		t.Fatalf("expected 2 keys invalidated, got %d", n)
	}
	_, ok1 := c.Get("stats:u1")
	_, ok2 := c.Get("stats:u2")
	_, ok3 := c.Get("venues:v1")
	if ok1 || ok2 {
		t.Fatalf("expected stats keys to be invalidated")
	}
	if !ok3 {
		t.Fatalf("expected venues:v1 to still exist")
	}
}

func TestSweep(t *testing.T) {
	c, clk := newTestCache()
	c.Set("short", 1, time.Second)
	c.Set("long", 2, time.Hour)
	clk.t = clk.t.Add(time.Minute)

	c.Sweep()
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry after sweep, got %d", c.Len())
	}
	if _, ok := c.Get("long"); !ok {
		t.Fatalf("expected long-lived entry to survive")
	}
}
