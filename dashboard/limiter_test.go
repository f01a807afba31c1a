package dashboard

import (
	"testing"
	"time"
)

func TestRateLimiterBlocksAfterMax(t *testing.T) {
	limiter := newRateLimiter(2, 200*time.Millisecond)
	defer limiter.close()
	ip := "203.0.113.10"

	if !limiter.allow(ip) {
		t.Fatalf("expected first request to be allowed")
	}
	if !limiter.allow(ip) {
		t.Fatalf("expected second request to be allowed")
	}
	if limiter.allow(ip) {
		t.Fatalf("expected third request to be blocked")
	}
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	limiter := newRateLimiter(1, time.Minute)
	defer limiter.close()
	now := time.Date(2015, time.July, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	ip := "203.0.113.20"

	if !limiter.allow(ip) {
		t.Fatalf("expected first request to be allowed")
	}
	if limiter.allow(ip) {
		t.Fatalf("expected second request to be blocked")
	}

	now = now.Add(61 * time.Second)
	if !limiter.allow(ip) {
		t.Fatalf("expected request after window to be allowed")
	}
}

func TestRateLimiterIsPerIP(t *testing.T) {
	limiter := newRateLimiter(1, 200*time.Millisecond)
	defer limiter.close()

	if !limiter.allow("203.0.113.30") {
		t.Fatalf("expected first ip to be allowed")
	}
	if !limiter.allow("203.0.113.31") {
		t.Fatalf("expected second ip to be allowed independently")
	}
	if limiter.allow("203.0.113.30") {
		t.Fatalf("expected first ip to be blocked after max")
	}
}
