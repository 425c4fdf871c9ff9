package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/BradenHooton/roomgate/internal/auth"
	"github.com/stretchr/testify/assert"
)

func TestTimingDelay_PadFailure_WaitsForBase(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{BaseDelayMs: 60, RandomDelayMs: 20})
	start := time.Now()

	timing.PadFailure(context.Background(), start)

	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestTimingDelay_PadFailure_AccountsForElapsed(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{BaseDelayMs: 50})
	start := time.Now().Add(-time.Second)

	before := time.Now()
	timing.PadFailure(context.Background(), start)

	assert.Less(t, time.Since(before), 20*time.Millisecond)
}

func TestTimingDelay_PadFailure_StopsOnCancel(t *testing.T) {
	timing := auth.NewTimingDelay(auth.TimingConfig{BaseDelayMs: 5000})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	before := time.Now()
	timing.PadFailure(ctx, before)

	assert.Less(t, time.Since(before), 100*time.Millisecond)
}

func TestTimingDelay_NilNeverWaits(t *testing.T) {
	var timing *auth.TimingDelay

	before := time.Now()
	timing.PadFailure(context.Background(), before)

	assert.Less(t, time.Since(before), 10*time.Millisecond)
}
