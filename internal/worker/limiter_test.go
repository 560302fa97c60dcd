package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_DefaultBurst(t *testing.T) {
	l := NewLimiter(10, -1)
	if l.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for non-positive input, got %d", l.defaultBurst)
	}
}

func TestLimiter_SeparateHosts(t *testing.T) {
	l := NewLimiter(1, 1)
	ctx := context.Background()

	// Burst of one per host: a second host must not be blocked by the
	// first host's spent token.
	start := time.Now()
	if err := l.Wait(ctx, "https://www.rbi.org.in/rates"); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if err := l.Wait(ctx, "https://www.sebi.gov.in/circulars"); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("independent hosts blocked each other: %v", elapsed)
	}
}

func TestLimiter_SameHostThrottled(t *testing.T) {
	l := NewLimiter(20, 1)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx, "https://www.rbi.org.in/page"); err != nil {
			t.Fatalf("wait: %v", err)
		}
	}
	// Two waits beyond the burst at 20 rps is at least ~100ms.
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("expected throttling on repeated host, elapsed %v", elapsed)
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	l := NewLimiter(1, 1)
	l.SetHostRate("fast.example.com", 1000, 100)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 10; i++ {
		if err := l.Wait(ctx, "https://fast.example.com/x"); err != nil {
			t.Fatalf("wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("host override not applied, elapsed %v", elapsed)
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	l := NewLimiter(100, 10)
	ctx := context.Background()

	start := time.Now()
	if err := l.WaitWithDelay(ctx, "https://www.rbi.org.in/x", 50*time.Millisecond); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("crawl delay not honored, elapsed %v", elapsed)
	}
}

func TestLimiter_CancelledContext(t *testing.T) {
	l := NewLimiter(0.1, 1)
	ctx, cancel := context.WithCancel(context.Background())

	// Spend the burst token, then cancel while the next wait blocks.
	if err := l.Wait(ctx, "https://slow.example.com/a"); err != nil {
		t.Fatalf("wait: %v", err)
	}
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	if err := l.Wait(ctx, "https://slow.example.com/b"); err == nil {
		t.Error("expected error from cancelled context")
	}

	if err := l.WaitWithDelay(ctx, "https://slow.example.com/c", time.Second); err == nil {
		t.Error("expected error from cancelled context in WaitWithDelay")
	}
}

func TestLimiter_BadURL(t *testing.T) {
	l := NewLimiter(10, 5)
	if err := l.Wait(context.Background(), "http://bad url with spaces\x7f"); err == nil {
		t.Error("expected parse error for malformed URL")
	}
}
