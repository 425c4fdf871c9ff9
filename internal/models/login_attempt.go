package models

import "time"

// AttemptRecord tracks consecutive failed logins for one normalized identifier.
// Only the login rate limiter reads or writes these.
type AttemptRecord struct {
	FailureCount int
	LastFailure  time.Time
	LockedUntil  *time.Time // set once FailureCount reaches the threshold
}

// Expired reports whether the record has aged out of the lockout window
func (r *AttemptRecord) Expired(now time.Time, window time.Duration) bool {
	return !now.Before(r.LastFailure.Add(window))
}
