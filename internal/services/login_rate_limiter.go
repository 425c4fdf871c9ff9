package services

import (
	"log/slog"
	"sync"
	"time"

	"github.com/BradenHooton/roomgate/internal/metrics"
	"github.com/BradenHooton/roomgate/internal/models"
	pkglogger "github.com/BradenHooton/roomgate/pkg/logger"
	"github.com/cespare/xxhash/v2"
)

const (
	DefaultMaxFailedAttempts = 5
	DefaultLockoutDuration   = 15 * time.Minute
	DefaultLimiterShards     = 32

	// shardSweepThreshold is the shard size above which expired records are
	// pruned while recording a failure
	shardSweepThreshold = 1024
)

// LoginRateLimiterConfig holds configuration for the failed-login lockout
type LoginRateLimiterConfig struct {
	MaxFailedAttempts int           // Failures that lock an identifier
	LockoutDuration   time.Duration // Window after the last failure before counters reset
	Shards            int           // Number of independently locked partitions
}

type attemptShard struct {
	mu      sync.Mutex
	records map[string]*models.AttemptRecord
}

// LoginRateLimiter tracks consecutive failed logins per normalized identifier.
// State lives in process memory only; a restart clears every lockout.
//
// An identifier with no record is clean. Failures below the threshold leave it
// in a warning state, and reaching the threshold locks it until LockoutDuration
// after the most recent failure. Once that window passes the record counts as
// clean again: counters snap to zero rather than decaying.
type LoginRateLimiter struct {
	shards []*attemptShard
	config LoginRateLimiterConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewLoginRateLimiter creates a LoginRateLimiter, filling zero config values with defaults
func NewLoginRateLimiter(config LoginRateLimiterConfig, logger *slog.Logger) *LoginRateLimiter {
	if config.MaxFailedAttempts <= 0 {
		config.MaxFailedAttempts = DefaultMaxFailedAttempts
	}
	if config.LockoutDuration <= 0 {
		config.LockoutDuration = DefaultLockoutDuration
	}
	if config.Shards <= 0 {
		config.Shards = DefaultLimiterShards
	}

	shards := make([]*attemptShard, config.Shards)
	for i := range shards {
		shards[i] = &attemptShard{records: make(map[string]*models.AttemptRecord)}
	}

	return &LoginRateLimiter{
		shards: shards,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

func (l *LoginRateLimiter) shardFor(identifier string) *attemptShard {
	return l.shards[xxhash.Sum64String(identifier)%uint64(len(l.shards))]
}

// live returns the record for identifier if it has not aged out. Caller holds the shard lock.
func (l *LoginRateLimiter) live(shard *attemptShard, identifier string, now time.Time) *models.AttemptRecord {
	record, ok := shard.records[identifier]
	if !ok || record.Expired(now, l.config.LockoutDuration) {
		return nil
	}
	return record
}

// IsBlocked reports whether identifier is locked out. It never mutates state.
func (l *LoginRateLimiter) IsBlocked(identifier string) bool {
	identifier = models.NormalizeEmail(identifier)
	shard := l.shardFor(identifier)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	record := l.live(shard, identifier, l.now())
	return record != nil && record.FailureCount >= l.config.MaxFailedAttempts
}

// TimeUntilUnlock returns how long identifier stays locked, or zero if it is not locked
func (l *LoginRateLimiter) TimeUntilUnlock(identifier string) time.Duration {
	identifier = models.NormalizeEmail(identifier)
	shard := l.shardFor(identifier)
	now := l.now()

	shard.mu.Lock()
	defer shard.mu.Unlock()

	record := l.live(shard, identifier, now)
	if record == nil || record.LockedUntil == nil || record.FailureCount < l.config.MaxFailedAttempts {
		return 0
	}
	return record.LockedUntil.Sub(now)
}

// RecordFailedAttempt counts one failure for identifier. Failures while
// already locked push the unlock time out again.
func (l *LoginRateLimiter) RecordFailedAttempt(identifier string) {
	identifier = models.NormalizeEmail(identifier)
	shard := l.shardFor(identifier)
	now := l.now()

	shard.mu.Lock()
	defer shard.mu.Unlock()

	record := l.live(shard, identifier, now)
	if record == nil {
		if len(shard.records) >= shardSweepThreshold {
			l.sweep(shard, now)
		}
		record = &models.AttemptRecord{}
		shard.records[identifier] = record
	}

	record.FailureCount++
	record.LastFailure = now

	if record.FailureCount >= l.config.MaxFailedAttempts {
		wasLocked := record.LockedUntil != nil
		lockedUntil := now.Add(l.config.LockoutDuration)
		record.LockedUntil = &lockedUntil

		if !wasLocked {
			metrics.RecordLockout()
			l.logger.Warn("login identifier locked",
				slog.String("identifier", pkglogger.SanitizedEmail(identifier)),
				slog.Int("failed_attempts", record.FailureCount),
				slog.Duration("lockout_duration", l.config.LockoutDuration))
		}
	}
}

// ResetAttempts clears identifier back to the clean state
func (l *LoginRateLimiter) ResetAttempts(identifier string) {
	identifier = models.NormalizeEmail(identifier)
	shard := l.shardFor(identifier)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	delete(shard.records, identifier)
}

// sweep drops every aged-out record in shard. Caller holds the shard lock.
func (l *LoginRateLimiter) sweep(shard *attemptShard, now time.Time) {
	for identifier, record := range shard.records {
		if record.Expired(now, l.config.LockoutDuration) {
			delete(shard.records, identifier)
		}
	}
}

// PruneExpired drops aged-out records from every shard and returns how many were removed
func (l *LoginRateLimiter) PruneExpired() int {
	now := l.now()
	removed := 0
	for _, shard := range l.shards {
		shard.mu.Lock()
		before := len(shard.records)
		l.sweep(shard, now)
		removed += before - len(shard.records)
		shard.mu.Unlock()
	}
	return removed
}
