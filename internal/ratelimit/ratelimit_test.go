package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestKeyed_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		key      string
		calls    int
		wantPass int
	}{
		{
			name:     "burst allows initial requests",
			rps:      1,
			burst:    3,
			key:      "google_books",
			calls:    3,
			wantPass: 3,
		},
		{
			name:     "exceeding burst blocks",
			rps:      1,
			burst:    2,
			key:      "google_books",
			calls:    5,
			wantPass: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst)

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if rl.Allow(tt.key) {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyed_Wait(t *testing.T) {
	rl := New(10, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	if err := rl.Wait(ctx, "open_library"); err != nil {
		t.Errorf("first Wait() failed: %v", err)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Error("first Wait() should be immediate")
	}

	// Second call should wait one token interval, ~100ms at 10 rps
	start = time.Now()
	if err := rl.Wait(ctx, "open_library"); err != nil {
		t.Errorf("second Wait() failed: %v", err)
	}
	elapsed := time.Since(start)
	if elapsed < 80*time.Millisecond || elapsed > 200*time.Millisecond {
		t.Errorf("second Wait() took %v, want ~100ms", elapsed)
	}
}

func TestKeyed_WaitContextCancelled(t *testing.T) {
	rl := New(0.1, 1)

	// Exhaust the burst
	rl.Allow("google_books")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx, "google_books"); err == nil {
		t.Error("Wait() should fail when context canceled")
	}
}

func TestKeyed_IndependentKeys(t *testing.T) {
	rl := New(1, 1)

	rl.Allow("google_books")
	if rl.Allow("google_books") {
		t.Error("google_books should be exhausted")
	}

	if !rl.Allow("open_library") {
		t.Error("open_library should be independent and allowed")
	}
}

func TestNewInterval(t *testing.T) {
	rl := NewInterval(0, 1)
	for i := 0; i < 10; i++ {
		if !rl.Allow("any") {
			t.Fatal("zero interval should never limit")
		}
	}

	rl = NewInterval(time.Second, 1)
	rl.Allow("paced")
	if rl.Allow("paced") {
		t.Error("one second interval should block the second call")
	}
}
