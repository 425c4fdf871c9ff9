package models

import (
	"strings"
	"time"
)

// Role identifies which account store a principal lives in
type Role string

const (
	RoleStudent  Role = "STUDENT"
	RoleLandlord Role = "LANDLORD"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole normalizes a caller-supplied role hint.
// A blank hint returns ("", true): no role restriction was requested.
func ParseRole(hint string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(hint)) {
	case "":
		return "", true
	case "ADMIN", "ADMINISTRATOR":
		return RoleAdmin, true
	case "LANDLORD":
		return RoleLandlord, true
	case "STUDENT":
		return RoleStudent, true
	default:
		return "", false
	}
}

// NormalizeEmail case-folds and trims an email or username identifier
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Account is the part of every role's record that login resolution needs
type Account interface {
	AccountID() string
	AccountRole() Role
	AccountEmail() string
	StoredPassword() string
}

// AccountState is the login eligibility of an account
type AccountState int

const (
	StateActive AccountState = iota
	StatePending
	StateSuspended
)

// LoginGate is implemented by accounts whose records can exist without
// being allowed to sign in yet
type LoginGate interface {
	LoginState() AccountState
}

// Contact holds the shared contact details of every account kind
type Contact struct {
	Email                string `json:"email"`
	PhoneNumber          string `json:"phone_number,omitempty"`
	AlternatePhoneNumber string `json:"alternate_phone_number,omitempty"`
}

type Student struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Password  string    `json:"-"`
	Contact   Contact   `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Student) AccountID() string      { return s.ID }
func (s *Student) AccountRole() Role      { return RoleStudent }
func (s *Student) AccountEmail() string   { return s.Contact.Email }
func (s *Student) StoredPassword() string { return s.Password }

type Landlord struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Password  string    `json:"-"`
	Verified  bool      `json:"verified"`
	Contact   Contact   `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *Landlord) AccountID() string      { return l.ID }
func (l *Landlord) AccountRole() Role      { return RoleLandlord }
func (l *Landlord) AccountEmail() string   { return l.Contact.Email }
func (l *Landlord) StoredPassword() string { return l.Password }

// AdminRoleStatus is the lifecycle state of an administrator record
type AdminRoleStatus string

const (
	AdminActive    AdminRoleStatus = "ACTIVE"
	AdminInactive  AdminRoleStatus = "INACTIVE" // pending application
	AdminSuspended AdminRoleStatus = "SUSPENDED"
)

type Administrator struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Surname    string          `json:"surname"`
	Password   string          `json:"-"`
	RoleStatus AdminRoleStatus `json:"role_status"`
	SuperAdmin bool            `json:"super_admin"`
	Contact    Contact         `json:"contact"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (a *Administrator) AccountID() string      { return a.ID }
func (a *Administrator) AccountRole() Role      { return RoleAdmin }
func (a *Administrator) AccountEmail() string   { return a.Contact.Email }
func (a *Administrator) StoredPassword() string { return a.Password }
func (a *Administrator) IsSuperAdmin() bool     { return a.SuperAdmin }

// IsActive reports whether the administrator may sign in and act
func (a *Administrator) IsActive() bool {
	return a.RoleStatus == AdminActive
}

func (a *Administrator) LoginState() AccountState {
	switch a.RoleStatus {
	case AdminActive:
		return StateActive
	case AdminSuspended:
		return StateSuspended
	default:
		return StatePending
	}
}
