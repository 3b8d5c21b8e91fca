package ratelimit_test

import (
	"testing"
	"time"

	"github.com/pricewise-go/pricewise/internal/search/ratelimit"
)

func TestLimiter_AllowsWithinBurst(t *testing.T) {
	l := ratelimit.New(5, time.Minute)
	defer l.Close()

	for i := 0; i < 5; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
}

func TestLimiter_RejectsOverBurst(t *testing.T) {
	l := ratelimit.New(3, time.Minute)
	defer l.Close()

	for i := 0; i < 3; i++ {
		l.Allow("1.2.3.4")
	}
	if l.Allow("1.2.3.4") {
		t.Error("request over the allowance should be rejected")
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l := ratelimit.New(1, time.Minute)
	defer l.Close()

	if !l.Allow("1.2.3.4") {
		t.Fatal("first key should be allowed")
	}
	if l.Allow("1.2.3.4") {
		t.Error("first key should now be exhausted")
	}
	if !l.Allow("5.6.7.8") {
		t.Error("a different key must have its own bucket")
	}
}

func TestLimiter_Refills(t *testing.T) {
	// 10 per 100ms refills one token every 10ms.
	l := ratelimit.New(10, 100*time.Millisecond)
	defer l.Close()

	for i := 0; i < 10; i++ {
		l.Allow("1.2.3.4")
	}
	if l.Allow("1.2.3.4") {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(30 * time.Millisecond)
	if !l.Allow("1.2.3.4") {
		t.Error("bucket should have refilled a token")
	}
}
