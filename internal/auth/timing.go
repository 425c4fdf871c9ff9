package auth

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"time"
)

// TimingConfig holds configuration for failure padding
type TimingConfig struct {
	BaseDelayMs   int // Minimum time a failed credential check takes
	RandomDelayMs int // Extra random jitter added on top of the base
}

// TimingDelay pads failed credential checks to a similar duration so that
// "no such account" and "wrong password" cannot be told apart by latency.
// A nil *TimingDelay is valid and never waits.
type TimingDelay struct {
	config TimingConfig
}

func NewTimingDelay(config TimingConfig) *TimingDelay {
	return &TimingDelay{config: config}
}

// cryptoRandIntn returns a secure random number in [0, max)
func cryptoRandIntn(max int) int {
	if max <= 0 {
		return 0
	}

	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return 0
	}

	return int(binary.BigEndian.Uint64(randomBytes) % uint64(max))
}

// target returns base + jitter for one failure
func (td *TimingDelay) target() time.Duration {
	base := time.Duration(td.config.BaseDelayMs) * time.Millisecond
	jitter := time.Duration(cryptoRandIntn(td.config.RandomDelayMs)) * time.Millisecond
	return base + jitter
}

// PadFailure blocks until at least the target delay has elapsed since start,
// or ctx is done.
func (td *TimingDelay) PadFailure(ctx context.Context, start time.Time) {
	if td == nil {
		return
	}

	remaining := td.target() - time.Since(start)
	if remaining <= 0 {
		return
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
