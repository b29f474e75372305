package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func fixedClock(sec int64) func() time.Time {
	return func() time.Time { return time.Unix(sec, 0) }
}

func TestTokenBucketRefillsEachSecond(t *testing.T) {
	tb := NewTokenBucket(2)
	tb.now = fixedClock(100)
	tb.lastSec = 100
	ctx := context.Background()
	if !tb.Allow(ctx) || !tb.Allow(ctx) {
		t.Fatal("first two requests should pass")
	}
	if tb.Allow(ctx) {
		t.Fatal("third request in the same second should be rejected")
	}
	tb.now = fixedClock(101)
	if !tb.Allow(ctx) {
		t.Fatal("bucket should refill in the next second")
	}
}

func TestRedisWindowKey(t *testing.T) {
	rw := NewRedisWindow(nil, 5)
	rw.now = fixedClock(1700000000)
	if got := rw.key(); got != "frontend:rl:1700000000" {
		t.Fatalf("key = %q", got)
	}
	if !rw.Allow(context.Background()) {
		t.Fatal("nil client should always allow")
	}
}

func TestWrapRejectsAndExemptsStatus(t *testing.T) {
	tb := NewTokenBucket(1)
	tb.now = fixedClock(5)
	tb.lastSec = 5
	h := Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), tb)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ip/1.2.3.4", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status check throttled: %d", rec.Code)
		}
	}
}

func TestWrapNilLimiter(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	if h := Wrap(inner, nil); h == nil {
		t.Fatal("Wrap returned nil")
	}
}
