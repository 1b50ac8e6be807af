package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerBasic(t *testing.T) {
	s := newSpinner("Augmenting plates...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	// Stop cancels the internal context, so Cancelled reports true
	// after a plain Stop as well.
	if !s.Cancelled() {
		t.Error("Cancelled should report the stopped context")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinnerWithContext(ctx, "Augmenting plates...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled with its context")
	}
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, "Augmenting plates...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Augmenting plates...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithSuccess(t *testing.T) {
	s := newSpinner("Augmenting plates...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithSuccess("Augmented 3 images")
}

func TestSpinnerStopWithError(t *testing.T) {
	s := newSpinner("Augmenting plates...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.StopWithError("Augmented 1 image, 2 failed")
}
