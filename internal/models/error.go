package models

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure conditions
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("resource not found")
	ErrDuplicateEmail = errors.New("email already in use")
	ErrRateLimited    = errors.New("too many failed login attempts")
	ErrUnavailable    = errors.New("account store unavailable")

	// ErrBootstrapClosed is returned by a first-administrator insert that
	// lost the race against another administrator being created
	ErrBootstrapClosed = errors.New("administrator store is not empty")
)

// RateLimitError reports an active lockout and how long it has left
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	minutes := int64(e.RetryAfter / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	suffix := "s"
	if minutes == 1 {
		suffix = ""
	}
	return fmt.Sprintf("Too many failed attempts. Please try again in %d minute%s.", minutes, suffix)
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}
