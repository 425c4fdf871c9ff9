package models

import (
	"strings"
	"time"
)

// VerificationStatus is the review state of a listing verification
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationApproved VerificationStatus = "APPROVED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// ParseVerificationStatus accepts a status name in any case
func ParseVerificationStatus(value string) (VerificationStatus, bool) {
	switch status := VerificationStatus(strings.ToUpper(strings.TrimSpace(value))); status {
	case VerificationPending, VerificationApproved, VerificationRejected:
		return status, true
	default:
		return "", false
	}
}

// Verification is an administrator review of an accommodation listing
type Verification struct {
	ID               string             `json:"id"`
	AccommodationID  string             `json:"accommodation_id"`
	AdministratorID  *string            `json:"administrator_id,omitempty"`
	Status           VerificationStatus `json:"status"`
	Notes            string             `json:"notes,omitempty"`
	VerificationDate *time.Time         `json:"verification_date,omitempty"`
	CreatedAt        *time.Time         `json:"created_at,omitempty"`
	UpdatedAt        time.Time          `json:"updated_at"`
}
