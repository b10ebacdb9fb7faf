package downloader

import (
	"context"
	"testing"
	"time"
)

func TestRetryPolicyExhausted(t *testing.T) {
	bounded := RetryPolicy{MaxAttempts: 3}
	if bounded.Exhausted(2) {
		t.Error("2 failures should not exhaust a bound of 3")
	}
	if !bounded.Exhausted(3) {
		t.Error("3 failures should exhaust a bound of 3")
	}
	unlimited := RetryPolicy{}
	if unlimited.Exhausted(1000) {
		t.Error("MaxAttempts 0 should never be exhausted")
	}
}

func TestRetryPolicyBackoff(t *testing.T) {
	p := RetryPolicy{InitialDelay: 100 * time.Millisecond, MaxDelay: 1 * time.Second}
	for retry, base := range map[int]time.Duration{
		1: 100 * time.Millisecond,
		2: 200 * time.Millisecond,
		3: 400 * time.Millisecond,
		5: 1 * time.Second,
		40: 1 * time.Second,
	} {
		for i := 0; i < 20; i++ {
			got := p.Backoff(retry)
			if got < base*3/4 || got > base*5/4 {
				t.Fatalf("Backoff(%d) = %v, want within 25%% of %v", retry, got, base)
			}
		}
	}
	if got := p.Backoff(0); got != 0 {
		t.Errorf("Backoff(0) = %v, want 0", got)
	}
	if got := (RetryPolicy{}).Backoff(3); got != 0 {
		t.Errorf("zero policy Backoff = %v, want 0", got)
	}
}

func TestSleepContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := sleepContext(ctx, time.Minute); err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if time.Since(start) > time.Second {
		t.Error("sleepContext did not return promptly")
	}
}
