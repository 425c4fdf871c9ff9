package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		hint string
		want Role
		ok   bool
	}{
		{"", "", true},
		{"   ", "", true},
		{"admin", RoleAdmin, true},
		{"Administrator", RoleAdmin, true},
		{" landlord ", RoleLandlord, true},
		{"STUDENT", RoleStudent, true},
		{"owner", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			got, ok := ParseRole(tt.hint)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestParseVerificationStatus(t *testing.T) {
	status, ok := ParseVerificationStatus(" approved ")
	assert.True(t, ok)
	assert.Equal(t, VerificationApproved, status)

	_, ok = ParseVerificationStatus("done")
	assert.False(t, ok)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
}

func TestRateLimitError(t *testing.T) {
	tests := []struct {
		retryAfter time.Duration
		want       string
	}{
		{15 * time.Minute, "Too many failed attempts. Please try again in 15 minutes."},
		{90 * time.Second, "Too many failed attempts. Please try again in 1 minute."},
		{10 * time.Second, "Too many failed attempts. Please try again in 1 minute."},
	}

	for _, tt := range tests {
		err := &RateLimitError{RetryAfter: tt.retryAfter}
		assert.Equal(t, tt.want, err.Error())
		assert.True(t, errors.Is(err, ErrRateLimited))
	}
}

func TestAttemptRecord_Expired(t *testing.T) {
	last := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	record := &AttemptRecord{FailureCount: 2, LastFailure: last}

	assert.False(t, record.Expired(last.Add(14*time.Minute), 15*time.Minute))
	assert.True(t, record.Expired(last.Add(15*time.Minute), 15*time.Minute))
}

func TestLoginSucceeded(t *testing.T) {
	admin := &Administrator{ID: "admin-1", SuperAdmin: true, RoleStatus: AdminActive}
	outcome := LoginSucceeded(admin)
	assert.True(t, outcome.Success)
	assert.Equal(t, RoleAdmin, outcome.Role)
	assert.Equal(t, "admin-1", outcome.AccountID)
	assert.True(t, outcome.IsSuperAdmin)

	outcome = LoginSucceeded(&Student{ID: "student-1"})
	assert.Equal(t, RoleStudent, outcome.Role)
	assert.False(t, outcome.IsSuperAdmin)
	assert.Empty(t, outcome.Message)
}

func TestAdministrator_LoginState(t *testing.T) {
	assert.Equal(t, StateActive, (&Administrator{RoleStatus: AdminActive}).LoginState())
	assert.Equal(t, StatePending, (&Administrator{RoleStatus: AdminInactive}).LoginState())
	assert.Equal(t, StateSuspended, (&Administrator{RoleStatus: AdminSuspended}).LoginState())
}
