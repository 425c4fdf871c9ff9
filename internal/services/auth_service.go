package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/BradenHooton/roomgate/internal/auth"
	"github.com/BradenHooton/roomgate/internal/metrics"
	"github.com/BradenHooton/roomgate/internal/models"
	pkgauth "github.com/BradenHooton/roomgate/pkg/auth"
	pkglogger "github.com/BradenHooton/roomgate/pkg/logger"
)

// User-facing login failure messages
const (
	MsgInvalidCredentials     = "Invalid email or password."
	MsgInvalidRoleCredentials = "Invalid email or password for the selected account type."
	MsgAdminPending           = "Your administrator account is awaiting approval."
	MsgAdminSuspended         = "Your administrator account has been suspended."
)

// LoginLimiter is the failed-attempt tracker consulted by AuthenticationService
type LoginLimiter interface {
	IsBlocked(identifier string) bool
	TimeUntilUnlock(identifier string) time.Duration
	RecordFailedAttempt(identifier string)
	ResetAttempts(identifier string)
}

// AuthenticationService resolves a login against several account stores.
// Stores are tried in the order of the lookups slice when no role hint is given.
type AuthenticationService struct {
	lookups  []AccountLookup
	verifier pkgauth.PasswordVerifier
	limiter  LoginLimiter
	timing   *auth.TimingDelay
	logger   *slog.Logger
}

// NewAuthenticationService creates a new AuthenticationService.
// lookups must be ordered by login precedence; timing may be nil.
func NewAuthenticationService(lookups []AccountLookup, verifier pkgauth.PasswordVerifier, limiter LoginLimiter, timing *auth.TimingDelay, logger *slog.Logger) *AuthenticationService {
	return &AuthenticationService{
		lookups:  lookups,
		verifier: verifier,
		limiter:  limiter,
		timing:   timing,
		logger:   logger,
	}
}

// resolution is what checking one store produced
type resolution struct {
	account models.Account // set when the password matched an account allowed to sign in
	gated   string         // set when the password matched an account that may not sign in yet
}

// Login authenticates identifier and password, optionally restricted to the
// store named by roleHint.
//
// Credential failures come back as an unsuccessful *models.LoginOutcome with a
// nil error. Errors are reserved for ErrInvalidInput, *models.RateLimitError
// and ErrUnavailable.
func (s *AuthenticationService) Login(ctx context.Context, identifier, password, roleHint string) (*models.LoginOutcome, error) {
	start := time.Now()

	identifier = models.NormalizeEmail(identifier)
	if identifier == "" || strings.TrimSpace(password) == "" {
		metrics.RecordLogin(metrics.RoleAny, metrics.OutcomeInvalidInput)
		return nil, fmt.Errorf("%w: email and password are required", models.ErrInvalidInput)
	}

	role, ok := models.ParseRole(roleHint)
	if ok && role != "" && s.lookupFor(role) == nil {
		ok = false
	}
	if !ok {
		metrics.RecordLogin(metrics.RoleAny, metrics.OutcomeInvalidInput)
		return nil, fmt.Errorf("%w: unknown account type", models.ErrInvalidInput)
	}

	roleLabel := metrics.RoleAny
	if role != "" {
		roleLabel = strings.ToLower(string(role))
	}

	if s.limiter.IsBlocked(identifier) {
		s.logger.Info("login rejected: identifier locked",
			slog.String("identifier", pkglogger.SanitizedEmail(identifier)))
		metrics.RecordLogin(roleLabel, metrics.OutcomeRateLimited)
		return nil, &models.RateLimitError{RetryAfter: s.limiter.TimeUntilUnlock(identifier)}
	}

	var (
		outcome *models.LoginOutcome
		err     error
	)
	if role != "" {
		outcome, err = s.loginAs(ctx, s.lookupFor(role), identifier, password)
	} else {
		outcome, err = s.loginAny(ctx, identifier, password)
	}

	if err != nil {
		// store outages are not held against the identifier
		s.logger.Error("login failed: account store error",
			slog.String("identifier", pkglogger.SanitizedEmail(identifier)),
			slog.Any("error", err))
		metrics.RecordLogin(roleLabel, metrics.OutcomeUnavailable)
		return nil, err
	}

	if outcome.Success {
		s.limiter.ResetAttempts(identifier)
		s.logger.Info("login succeeded",
			slog.String("account_id", outcome.AccountID),
			slog.String("role", string(outcome.Role)))
		metrics.RecordLogin(strings.ToLower(string(outcome.Role)), metrics.OutcomeSuccess)
		return outcome, nil
	}

	s.limiter.RecordFailedAttempt(identifier)
	s.logger.Info("login failed",
		slog.String("identifier", pkglogger.SanitizedEmail(identifier)),
		slog.String("role_hint", string(role)))
	if outcome.Message == MsgAdminPending || outcome.Message == MsgAdminSuspended {
		metrics.RecordLogin(strings.ToLower(string(models.RoleAdmin)), metrics.OutcomeAdminPending)
	} else {
		metrics.RecordLogin(roleLabel, metrics.OutcomeFailure)
	}

	s.timing.PadFailure(ctx, start)
	return outcome, nil
}

// loginAs checks exactly one store
func (s *AuthenticationService) loginAs(ctx context.Context, lookup AccountLookup, identifier, password string) (*models.LoginOutcome, error) {
	res, err := s.check(ctx, lookup, identifier, password)
	if err != nil {
		return nil, err
	}
	switch {
	case res.account != nil:
		return models.LoginSucceeded(res.account), nil
	case res.gated != "":
		return models.LoginFailed(res.gated), nil
	default:
		return models.LoginFailed(MsgInvalidRoleCredentials), nil
	}
}

// loginAny walks every store in precedence order. A gated match is
// remembered while later stores get their chance to succeed.
func (s *AuthenticationService) loginAny(ctx context.Context, identifier, password string) (*models.LoginOutcome, error) {
	var gated string

	for _, lookup := range s.lookups {
		res, err := s.check(ctx, lookup, identifier, password)
		if err != nil {
			return nil, err
		}
		if res.account != nil {
			return models.LoginSucceeded(res.account), nil
		}
		if gated == "" {
			gated = res.gated
		}
	}

	if gated != "" {
		return models.LoginFailed(gated), nil
	}
	return models.LoginFailed(MsgInvalidCredentials), nil
}

func (s *AuthenticationService) check(ctx context.Context, lookup AccountLookup, identifier, password string) (resolution, error) {
	account, err := lookup.FindByEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return resolution{}, nil
		}
		return resolution{}, fmt.Errorf("%w: %s lookup: %v", models.ErrUnavailable, lookup.Role(), err)
	}

	if !pkgauth.PasswordMatches(s.verifier, password, account.StoredPassword()) {
		return resolution{}, nil
	}

	if gate, ok := account.(models.LoginGate); ok {
		switch gate.LoginState() {
		case models.StatePending:
			return resolution{gated: MsgAdminPending}, nil
		case models.StateSuspended:
			return resolution{gated: MsgAdminSuspended}, nil
		}
	}

	return resolution{account: account}, nil
}

func (s *AuthenticationService) lookupFor(role models.Role) AccountLookup {
	for _, lookup := range s.lookups {
		if lookup.Role() == role {
			return lookup
		}
	}
	return nil
}

// EmailExists reports whether any store holds an account with email
func (s *AuthenticationService) EmailExists(ctx context.Context, email string) (bool, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return false, fmt.Errorf("%w: email is required", models.ErrInvalidInput)
	}

	for _, lookup := range s.lookups {
		_, err := lookup.FindByEmail(ctx, email)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Error("email lookup failed",
				slog.String("role", string(lookup.Role())),
				slog.Any("error", err))
			return false, fmt.Errorf("%w: %s lookup: %v", models.ErrUnavailable, lookup.Role(), err)
		}
	}
	return false, nil
}
