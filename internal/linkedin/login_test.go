package linkedin

import (
	"context"
	"testing"
	"time"
)

func TestPaceCompletes(t *testing.T) {
	t.Parallel()

	if err := pace(context.Background(), 5*time.Millisecond); err != nil {
		t.Fatalf("pace: %v", err)
	}
}

func TestPaceHonorsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := pace(ctx, 10*time.Second)
	if err == nil {
		t.Fatal("expected context error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("pace did not return promptly, took %s", elapsed)
	}
}
