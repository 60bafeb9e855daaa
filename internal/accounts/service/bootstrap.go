package service

import (
	"context"
	"errors"
	"time"

	"github.com/stackfort/accountd/internal/accounts/domain"
	"github.com/stackfort/accountd/internal/accounts/store"
	"github.com/stackfort/accountd/pkg/cryptox"
	"github.com/stackfort/accountd/pkg/idx"
	"github.com/stackfort/accountd/pkg/slogx"
)

// ErrAlreadyBootstrapped is returned when EnsureAdmin runs against a
// store that already has users.
var ErrAlreadyBootstrapped = errors.New("store already has users")

// BootstrapService creates the initial superuser on an empty store.
// Public registration never grants the superuser flag, so a fresh
// deployment has no other way to get a first admin.
type BootstrapService struct {
	Store store.Store
}

// EnsureAdmin creates a superuser with the given credentials if and only
// if the user table is empty. Safe to call on every boot; it is a no-op
// (ErrAlreadyBootstrapped) once any user exists.
func (s *BootstrapService) EnsureAdmin(
	ctx context.Context,
	email, username, password string,
) (domain.User, error) {
	if err := validateEmail(email); err != nil {
		return domain.User{}, err
	}
	if err := validateUsername(username); err != nil {
		return domain.User{}, err
	}
	if err := validatePassword(password); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	admin := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
		IsSuperuser:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Emptiness check and insert share a transaction so two concurrent
	// boots cannot both create an admin.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrAlreadyBootstrapped
		}
		return tx.Users().CreateUser(ctx, admin)
	})
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("bootstrap superuser created",
		"user_id", admin.ID,
		"username", admin.Username,
	)
	return admin, nil
}
