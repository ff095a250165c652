package ratelimit

import (
	"testing"
	"time"
)

func TestAllowWithinWindow(t *testing.T) {
	l := NewLimiter(2, time.Minute)
	defer l.Stop()

	if !l.Allow("user-1") || !l.Allow("user-1") {
		t.Fatalf("first two requests should pass")
	}
	if l.Allow("user-1") {
		t.Fatalf("third request should be limited")
	}
	if !l.Allow("user-2") {
		t.Fatalf("limits must be per key")
	}
}

func TestAllowEmptyKeyIsUnlimited(t *testing.T) {
	l := NewLimiter(1, time.Minute)
	defer l.Stop()
	for i := 0; i < 5; i++ {
		if !l.Allow("") {
			t.Fatalf("empty key should never be limited")
		}
	}
}

func TestWindowSlides(t *testing.T) {
	l := NewLimiter(1, 50*time.Millisecond)
	defer l.Stop()
	if !l.Allow("k") {
		t.Fatalf("first request should pass")
	}
	time.Sleep(80 * time.Millisecond)
	if !l.Allow("k") {
		t.Fatalf("request after the window should pass")
	}
}

func TestAllowStrictSeparateBucket(t *testing.T) {
	l := NewLimiter(10, time.Minute)
	defer l.Stop()
	if !l.AllowStrict("10.0.0.1", 1, time.Minute) {
		t.Fatalf("first strict request should pass")
	}
	if l.AllowStrict("10.0.0.1", 1, time.Minute) {
		t.Fatalf("second strict request should be limited")
	}
	if !l.Allow("10.0.0.1") {
		t.Fatalf("strict bucket must not consume the default bucket")
	}
	l.Stop()
}
