package services

import (
	"context"

	"github.com/BradenHooton/roomgate/internal/models"
)

// AccountLookup resolves an email to an account in one role's store.
// FindByEmail returns models.ErrNotFound when no account has the email.
type AccountLookup interface {
	Role() models.Role
	FindByEmail(ctx context.Context, email string) (models.Account, error)
}

type accountLookup[T models.Account] struct {
	role models.Role
	find func(ctx context.Context, email string) (T, error)
}

// NewAccountLookup adapts a typed repository finder, such as
// StudentRepository.GetByEmail, into an AccountLookup for role.
func NewAccountLookup[T models.Account](role models.Role, find func(ctx context.Context, email string) (T, error)) AccountLookup {
	return &accountLookup[T]{role: role, find: find}
}

func (l *accountLookup[T]) Role() models.Role {
	return l.role
}

func (l *accountLookup[T]) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	account, err := l.find(ctx, email)
	if err != nil {
		// a typed nil must not escape as a non-nil interface
		return nil, err
	}
	return account, nil
}
