package politeness

import (
	"context"
	"testing"
	"time"
)

func TestDrawStaysInRange(t *testing.T) {
	t.Parallel()

	min := 5 * time.Millisecond
	max := 15 * time.Millisecond
	d := NewRandomDelayer(min, max)

	for i := 0; i < 1000; i++ {
		pause := d.draw()
		if pause < min || pause > max {
			t.Fatalf("draw %v outside [%v, %v]", pause, min, max)
		}
	}
}

func TestZeroRangeIsNoop(t *testing.T) {
	t.Parallel()

	d := NewRandomDelayer(0, 0)

	start := time.Now()
	d.Wait(context.Background())
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Fatalf("zero-range wait took %v", elapsed)
	}
}

func TestWaitHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	d := NewRandomDelayer(time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		d.Wait(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return on cancelled context")
	}
}

func TestRangeIsNormalized(t *testing.T) {
	t.Parallel()

	d := NewRandomDelayer(10*time.Millisecond, time.Millisecond)
	if d.min != 10*time.Millisecond || d.max != 10*time.Millisecond {
		t.Fatalf("inverted range not collapsed: min=%v max=%v", d.min, d.max)
	}

	d = NewRandomDelayer(-time.Second, time.Millisecond)
	if d.min != 0 {
		t.Fatalf("negative min not clamped: %v", d.min)
	}
}
