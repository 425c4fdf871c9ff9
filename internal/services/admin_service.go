package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/BradenHooton/roomgate/internal/metrics"
	"github.com/BradenHooton/roomgate/internal/models"
	pkgauth "github.com/BradenHooton/roomgate/pkg/auth"
	pkglogger "github.com/BradenHooton/roomgate/pkg/logger"
)

// AdministratorRepository is the subset of administrator storage needed by AdministratorService.
type AdministratorRepository interface {
	GetByID(ctx context.Context, id string) (*models.Administrator, error)
	GetByEmail(ctx context.Context, email string) (*models.Administrator, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
	ListByStatus(ctx context.Context, status models.AdminRoleStatus) ([]*models.Administrator, error)
	Create(ctx context.Context, admin *models.Administrator) (*models.Administrator, error)
	CreateFirst(ctx context.Context, admin *models.Administrator) (*models.Administrator, error)
	Update(ctx context.Context, admin *models.Administrator) (*models.Administrator, error)
}

// LandlordRepository is the subset of landlord storage needed for verification.
type LandlordRepository interface {
	GetByID(ctx context.Context, id string) (*models.Landlord, error)
	Update(ctx context.Context, landlord *models.Landlord) (*models.Landlord, error)
}

// VerificationRepository is the subset of listing verification storage needed for review.
type VerificationRepository interface {
	GetByID(ctx context.Context, id string) (*models.Verification, error)
	Update(ctx context.Context, v *models.Verification) (*models.Verification, error)
}

// ApplicationNotifier is told when an administrator application is decided.
type ApplicationNotifier interface {
	NotifyApplicationDecision(ctx context.Context, applicant *models.Administrator, approved bool) error
}

// AdministratorInput carries the caller-supplied fields of a new administrator.
// Whether the record is a super-admin is decided by the service, never the caller.
type AdministratorInput struct {
	Name                 string
	Surname              string
	Email                string
	Password             string
	PhoneNumber          string
	AlternatePhoneNumber string
}

// Administrator lifecycle actions, used as metric labels
const (
	actionBootstrap      = "bootstrap"
	actionCreate         = "create"
	actionApply          = "apply"
	actionApprove        = "approve"
	actionReject         = "reject"
	actionVerifyLandlord = "verify_landlord"
	actionVerifyListing  = "verify_listing"
)

// AdministratorService runs the administrator lifecycle. Every privileged
// call re-checks the acting administrator's password; nothing is cached
// between calls.
type AdministratorService struct {
	admins        AdministratorRepository
	landlords     LandlordRepository
	verifications VerificationRepository
	verifier      pkgauth.PasswordVerifier
	notifier      ApplicationNotifier
	logger        *slog.Logger
	now           func() time.Time

	// bootstrapMu serializes the empty-store check with the first insert
	bootstrapMu sync.Mutex
}

// NewAdministratorService creates a new AdministratorService. notifier may be nil.
func NewAdministratorService(
	admins AdministratorRepository,
	landlords LandlordRepository,
	verifications VerificationRepository,
	verifier pkgauth.PasswordVerifier,
	notifier ApplicationNotifier,
	logger *slog.Logger,
) *AdministratorService {
	return &AdministratorService{
		admins:        admins,
		landlords:     landlords,
		verifications: verifications,
		verifier:      verifier,
		notifier:      notifier,
		logger:        logger,
		now:           time.Now,
	}
}

// HasAnyAdministrators reports whether the administrator store is non-empty
func (s *AdministratorService) HasAnyAdministrators(ctx context.Context) (bool, error) {
	count, err := s.admins.Count(ctx)
	if err != nil {
		return false, s.storeError("count administrators", err)
	}
	return count > 0, nil
}

// CreateAdministrator creates an administrator. While the store is empty the
// new record becomes the ACTIVE bootstrap super-admin and no acting
// credentials are needed. Afterwards actingAdminID and actingPassword must
// belong to an ACTIVE super-admin, checked before the input is looked at, and
// the new record is ACTIVE but never a super-admin.
func (s *AdministratorService) CreateAdministrator(ctx context.Context, input AdministratorInput, actingAdminID, actingPassword string) (*models.Administrator, error) {
	created, err := s.createFirst(ctx, input)
	if err == nil {
		metrics.RecordAdminTransition(actionBootstrap, transitionResult(nil))
		s.logger.Info("bootstrap administrator created",
			slog.String("admin_id", created.ID),
			slog.String("email", pkglogger.SanitizedEmail(created.Contact.Email)))
		return created, nil
	}
	if !errors.Is(err, models.ErrBootstrapClosed) {
		metrics.RecordAdminTransition(actionBootstrap, transitionResult(err))
		return nil, err
	}

	created, err = s.createPrivileged(ctx, input, actingAdminID, actingPassword)
	metrics.RecordAdminTransition(actionCreate, transitionResult(err))
	return created, err
}

// createFirst inserts the bootstrap super-admin, or returns
// models.ErrBootstrapClosed without touching input if any administrator exists.
func (s *AdministratorService) createFirst(ctx context.Context, input AdministratorInput) (*models.Administrator, error) {
	s.bootstrapMu.Lock()
	defer s.bootstrapMu.Unlock()

	count, err := s.admins.Count(ctx)
	if err != nil {
		return nil, s.storeError("count administrators", err)
	}
	if count > 0 {
		return nil, models.ErrBootstrapClosed
	}

	first, err := s.newAdministrator(input)
	if err != nil {
		return nil, err
	}
	first.RoleStatus = models.AdminActive
	first.SuperAdmin = true

	created, err := s.admins.CreateFirst(ctx, first)
	if err != nil {
		if errors.Is(err, models.ErrBootstrapClosed) {
			return nil, err
		}
		return nil, s.storeError("create bootstrap administrator", err)
	}
	return created, nil
}

func (s *AdministratorService) createPrivileged(ctx context.Context, input AdministratorInput, actingAdminID, actingPassword string) (*models.Administrator, error) {
	actor, err := s.authenticateSuperAdminByID(ctx, actingAdminID, actingPassword)
	if err != nil {
		s.logger.Warn("administrator creation forbidden",
			slog.String("acting_admin_id", actingAdminID))
		return nil, err
	}

	admin, err := s.newAdministrator(input)
	if err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, admin.Contact.Email); err != nil {
		return nil, err
	}

	admin.RoleStatus = models.AdminActive
	admin.SuperAdmin = false

	created, err := s.admins.Create(ctx, admin)
	if err != nil {
		return nil, s.storeError("create administrator", err)
	}

	s.logger.Info("administrator created",
		slog.String("admin_id", created.ID),
		slog.String("created_by", actor.ID))
	return created, nil
}

// SubmitApplication stores a pending administrator application. The record is
// always INACTIVE and never a super-admin, whatever the input says.
func (s *AdministratorService) SubmitApplication(ctx context.Context, input AdministratorInput) (*models.Administrator, error) {
	created, err := s.submitApplication(ctx, input)
	metrics.RecordAdminTransition(actionApply, transitionResult(err))
	return created, err
}

func (s *AdministratorService) submitApplication(ctx context.Context, input AdministratorInput) (*models.Administrator, error) {
	admin, err := s.newAdministrator(input)
	if err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, admin.Contact.Email); err != nil {
		return nil, err
	}

	admin.RoleStatus = models.AdminInactive
	admin.SuperAdmin = false

	created, err := s.admins.Create(ctx, admin)
	if err != nil {
		return nil, s.storeError("create administrator application", err)
	}

	s.logger.Info("administrator application submitted",
		slog.String("admin_id", created.ID),
		slog.String("email", pkglogger.SanitizedEmail(created.Contact.Email)))
	return created, nil
}

// ListPendingAdministrators returns INACTIVE applications to an ACTIVE super-admin
func (s *AdministratorService) ListPendingAdministrators(ctx context.Context, superAdminEmail, superAdminPassword string) ([]*models.Administrator, error) {
	if _, err := s.authenticateSuperAdmin(ctx, superAdminEmail, superAdminPassword); err != nil {
		return nil, err
	}

	pending, err := s.admins.ListByStatus(ctx, models.AdminInactive)
	if err != nil {
		return nil, s.storeError("list pending administrators", err)
	}
	return pending, nil
}

// ApproveAdministrator activates an application. Approving an applicant that
// is already a super-admin returns it unchanged.
func (s *AdministratorService) ApproveAdministrator(ctx context.Context, applicantID, superAdminEmail, superAdminPassword string) (*models.Administrator, error) {
	admin, err := s.decide(ctx, applicantID, superAdminEmail, superAdminPassword, true)
	metrics.RecordAdminTransition(actionApprove, transitionResult(err))
	return admin, err
}

// RejectAdministrator suspends an application. Super-admins cannot be rejected.
func (s *AdministratorService) RejectAdministrator(ctx context.Context, applicantID, superAdminEmail, superAdminPassword string) (*models.Administrator, error) {
	admin, err := s.decide(ctx, applicantID, superAdminEmail, superAdminPassword, false)
	metrics.RecordAdminTransition(actionReject, transitionResult(err))
	return admin, err
}

func (s *AdministratorService) decide(ctx context.Context, applicantID, superAdminEmail, superAdminPassword string, approve bool) (*models.Administrator, error) {
	actor, err := s.authenticateSuperAdmin(ctx, superAdminEmail, superAdminPassword)
	if err != nil {
		s.logger.Warn("administrator decision forbidden",
			slog.String("acting_email", pkglogger.SanitizedEmail(superAdminEmail)),
			slog.Bool("approve", approve))
		return nil, err
	}

	applicant, err := s.admins.GetByID(ctx, strings.TrimSpace(applicantID))
	if err != nil {
		return nil, s.storeError("get applicant", err)
	}

	if applicant.SuperAdmin {
		if approve {
			return applicant, nil
		}
		return nil, fmt.Errorf("%w: super administrators cannot be rejected", models.ErrForbidden)
	}

	status := models.AdminSuspended
	if approve {
		status = models.AdminActive
	}
	if applicant.RoleStatus == status {
		return applicant, nil
	}

	previous := applicant.RoleStatus
	applicant.RoleStatus = status
	applicant.UpdatedAt = s.now()

	updated, err := s.admins.Update(ctx, applicant)
	if err != nil {
		return nil, s.storeError("update applicant", err)
	}

	s.logger.Info("administrator application decided",
		slog.String("admin_id", updated.ID),
		slog.String("decided_by", actor.ID),
		slog.String("from", string(previous)),
		slog.String("to", string(updated.RoleStatus)))

	s.notify(ctx, updated, approve)
	return updated, nil
}

func (s *AdministratorService) notify(ctx context.Context, applicant *models.Administrator, approved bool) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyApplicationDecision(ctx, applicant, approved); err != nil {
		s.logger.Error("failed to notify applicant",
			slog.String("admin_id", applicant.ID),
			slog.Any("error", err))
	}
}

// AuthenticateAdministrator checks that adminID names an ACTIVE administrator
// whose password is password. Any mismatch is models.ErrForbidden.
func (s *AdministratorService) AuthenticateAdministrator(ctx context.Context, adminID, password string) (*models.Administrator, error) {
	adminID = strings.TrimSpace(adminID)
	if adminID == "" || password == "" {
		return nil, models.ErrForbidden
	}

	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrForbidden
		}
		return nil, s.storeError("get acting administrator", err)
	}
	return s.authorize(admin, password, false)
}

func (s *AdministratorService) authenticateSuperAdminByID(ctx context.Context, adminID, password string) (*models.Administrator, error) {
	admin, err := s.AuthenticateAdministrator(ctx, adminID, password)
	if err != nil {
		return nil, err
	}
	if !admin.SuperAdmin {
		return nil, models.ErrForbidden
	}
	return admin, nil
}

func (s *AdministratorService) authenticateSuperAdmin(ctx context.Context, email, password string) (*models.Administrator, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, models.ErrForbidden
	}

	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrForbidden
		}
		return nil, s.storeError("get acting administrator", err)
	}
	return s.authorize(admin, password, true)
}

func (s *AdministratorService) authorize(admin *models.Administrator, password string, requireSuper bool) (*models.Administrator, error) {
	if !pkgauth.PasswordMatches(s.verifier, password, admin.Password) {
		return nil, models.ErrForbidden
	}
	if !admin.IsActive() {
		return nil, models.ErrForbidden
	}
	if requireSuper && !admin.SuperAdmin {
		return nil, models.ErrForbidden
	}
	return admin, nil
}

// VerifyLandlord records an administrator's decision on a landlord's identity
func (s *AdministratorService) VerifyLandlord(ctx context.Context, adminID, adminPassword, landlordID string, approved bool) (*models.Landlord, error) {
	landlord, err := s.verifyLandlord(ctx, adminID, adminPassword, landlordID, approved)
	metrics.RecordAdminTransition(actionVerifyLandlord, transitionResult(err))
	return landlord, err
}

func (s *AdministratorService) verifyLandlord(ctx context.Context, adminID, adminPassword, landlordID string, approved bool) (*models.Landlord, error) {
	admin, err := s.AuthenticateAdministrator(ctx, adminID, adminPassword)
	if err != nil {
		return nil, err
	}

	landlord, err := s.landlords.GetByID(ctx, strings.TrimSpace(landlordID))
	if err != nil {
		return nil, s.storeError("get landlord", err)
	}

	landlord.Verified = approved
	landlord.UpdatedAt = s.now()

	updated, err := s.landlords.Update(ctx, landlord)
	if err != nil {
		return nil, s.storeError("update landlord", err)
	}

	s.logger.Info("landlord verification updated",
		slog.String("landlord_id", updated.ID),
		slog.String("admin_id", admin.ID),
		slog.Bool("verified", updated.Verified))
	return updated, nil
}

// VerifyListing sets the review status of a listing verification. A nil notes
// keeps the existing notes.
func (s *AdministratorService) VerifyListing(ctx context.Context, adminID, adminPassword, verificationID, status string, notes *string) (*models.Verification, error) {
	v, err := s.verifyListing(ctx, adminID, adminPassword, verificationID, status, notes)
	metrics.RecordAdminTransition(actionVerifyListing, transitionResult(err))
	return v, err
}

func (s *AdministratorService) verifyListing(ctx context.Context, adminID, adminPassword, verificationID, status string, notes *string) (*models.Verification, error) {
	admin, err := s.AuthenticateAdministrator(ctx, adminID, adminPassword)
	if err != nil {
		return nil, err
	}

	parsed, ok := models.ParseVerificationStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: unknown verification status %q", models.ErrInvalidInput, status)
	}

	v, err := s.verifications.GetByID(ctx, strings.TrimSpace(verificationID))
	if err != nil {
		return nil, s.storeError("get verification", err)
	}

	now := s.now()
	v.Status = parsed
	v.AdministratorID = &admin.ID
	v.VerificationDate = &now
	v.UpdatedAt = now
	if v.CreatedAt == nil {
		v.CreatedAt = &now
	}
	if notes != nil {
		v.Notes = strings.TrimSpace(*notes)
	}

	updated, err := s.verifications.Update(ctx, v)
	if err != nil {
		return nil, s.storeError("update verification", err)
	}

	s.logger.Info("listing verification updated",
		slog.String("verification_id", updated.ID),
		slog.String("admin_id", admin.ID),
		slog.String("status", string(updated.Status)))
	return updated, nil
}

// newAdministrator validates input and builds a record with a hashed password
func (s *AdministratorService) newAdministrator(input AdministratorInput) (*models.Administrator, error) {
	email := models.NormalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	surname := strings.TrimSpace(input.Surname)
	password := strings.TrimSpace(input.Password)

	if email == "" || name == "" || surname == "" || password == "" {
		return nil, fmt.Errorf("%w: name, surname, email and password are required", models.ErrInvalidInput)
	}

	if !pkgauth.IsHashed(password) {
		if err := pkgauth.ValidatePassword(password); err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrInvalidInput, err)
		}
	}

	stored, err := pkgauth.HashForStorage(s.verifier, password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password is too long", models.ErrInvalidInput)
		}
		return nil, fmt.Errorf("failed to hash administrator password: %w", err)
	}

	return &models.Administrator{
		Name:     name,
		Surname:  surname,
		Password: stored,
		Contact: models.Contact{
			Email:                email,
			PhoneNumber:          strings.TrimSpace(input.PhoneNumber),
			AlternatePhoneNumber: strings.TrimSpace(input.AlternatePhoneNumber),
		},
	}, nil
}

func (s *AdministratorService) ensureEmailFree(ctx context.Context, email string) error {
	exists, err := s.admins.ExistsByEmail(ctx, email)
	if err != nil {
		return s.storeError("check administrator email", err)
	}
	if exists {
		return models.ErrDuplicateEmail
	}
	return nil
}

// storeError passes domain errors through and wraps everything else as ErrUnavailable
func (s *AdministratorService) storeError(op string, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrDuplicateEmail),
		errors.Is(err, models.ErrInvalidInput):
		return err
	}
	s.logger.Error("administrator store error", slog.String("op", op), slog.Any("error", err))
	return fmt.Errorf("%w: %s: %v", models.ErrUnavailable, op, err)
}

func transitionResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrForbidden):
		return "forbidden"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrDuplicateEmail):
		return "rejected"
	default:
		return "error"
	}
}
