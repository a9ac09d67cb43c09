package timeutil

import (
	"testing"
	"time"
)

func TestRealClockNow(t *testing.T) {
	clock := RealClock{}
	before := time.Now()
	now := clock.Now()
	after := time.Now()

	if now.Before(before) || now.After(after) {
		t.Errorf("RealClock.Now() = %v, expected between %v and %v", now, before, after)
	}
}

func TestRealClockTicker(t *testing.T) {
	clock := RealClock{}
	ticker := clock.NewTicker(time.Millisecond)
	defer ticker.Stop()

	select {
	case <-ticker.C():
	case <-time.After(time.Second):
		t.Fatal("ticker did not fire within 1s")
	}
}

func TestMockClockNowAndSet(t *testing.T) {
	start := time.Date(2026, 3, 14, 10, 15, 0, 0, time.UTC)
	clock := NewMockClock(start)

	if !clock.Now().Equal(start) {
		t.Errorf("Now() = %v, want %v", clock.Now(), start)
	}

	later := start.Add(time.Hour)
	clock.Set(later)
	if !clock.Now().Equal(later) {
		t.Errorf("Now() after Set = %v, want %v", clock.Now(), later)
	}
}

func TestMockClockSince(t *testing.T) {
	start := time.Date(2026, 3, 14, 10, 15, 0, 0, time.UTC)
	clock := NewMockClock(start)
	clock.Advance(90 * time.Second)

	if got := clock.Since(start); got != 90*time.Second {
		t.Errorf("Since = %v, want 90s", got)
	}
}

func TestMockClockAdvanceFiresTicker(t *testing.T) {
	start := time.Date(2026, 3, 14, 10, 15, 0, 0, time.UTC)
	clock := NewMockClock(start)
	ticker := clock.NewTicker(5 * time.Second)
	defer ticker.Stop()

	// Not yet due.
	clock.Advance(2 * time.Second)
	select {
	case <-ticker.C():
		t.Fatal("ticker fired before its interval elapsed")
	default:
	}

	clock.Advance(3 * time.Second)
	select {
	case <-ticker.C():
	default:
		t.Fatal("ticker did not fire at its interval")
	}
}

func TestMockTickerStop(t *testing.T) {
	start := time.Date(2026, 3, 14, 10, 15, 0, 0, time.UTC)
	clock := NewMockClock(start)
	ticker := clock.NewTicker(time.Second)
	ticker.Stop()

	clock.Advance(5 * time.Second)
	select {
	case <-ticker.C():
		t.Fatal("stopped ticker should not fire")
	default:
	}
}

func TestMockTickerTrigger(t *testing.T) {
	start := time.Date(2026, 3, 14, 10, 15, 0, 0, time.UTC)
	clock := NewMockClock(start)
	ticker := clock.NewTicker(time.Hour).(*MockTicker)

	ticker.Trigger(start)
	select {
	case got := <-ticker.C():
		if !got.Equal(start) {
			t.Errorf("tick time = %v, want %v", got, start)
		}
	default:
		t.Fatal("Trigger did not deliver a tick")
	}
}
