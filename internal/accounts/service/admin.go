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

var (
	// ErrSelfDemotion is returned when an admin tries to clear their own
	// superuser flag.
	ErrSelfDemotion = errors.New("cannot revoke own superuser status")

	// ErrSelfDelete is returned when an admin tries to delete their own
	// record through the admin API.
	ErrSelfDelete = errors.New("cannot delete own account")
)

const (
	// DefaultListLimit is used when the caller does not supply a page size.
	DefaultListLimit = 100

	// MaxListLimit caps the page size.
	MaxListLimit = 1000
)

// AdminService is the privileged CRUD surface over all user records.
// Callers must already have passed the superuser guard; the only
// caller-identity checks here are the self-protection invariants.
type AdminService struct {
	Store store.Store
}

// ListUsers returns a page ordered by creation time, newest first.
// skip below zero is clamped to zero; limit outside [1, MaxListLimit]
// falls back to DefaultListLimit.
func (s *AdminService) ListUsers(ctx context.Context, skip, limit int) ([]domain.User, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > MaxListLimit {
		limit = DefaultListLimit
	}
	return s.Store.Users().ListUsers(ctx, skip, limit)
}

// CountUsers returns the total live record count.
func (s *AdminService) CountUsers(ctx context.Context) (int, error) {
	return s.Store.Users().CountUsers(ctx)
}

// GetUser returns the record with the given id.
func (s *AdminService) GetUser(ctx context.Context, id string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, id)
}

// CreateUser creates an account with explicit role flags. Email
// collisions are reported before username collisions.
func (s *AdminService) CreateUser(
	ctx context.Context,
	email, username, password, fullName string,
	isActive, isSuperuser bool,
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
	if err := validateFullName(fullName); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		FullName:     fullName,
		IsActive:     isActive,
		IsSuperuser:  isSuperuser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByEmail(ctx, email); err == nil {
			return store.ErrEmailTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if _, err := tx.Users().GetUserByUsername(ctx, username); err == nil {
			return store.ErrUsernameTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		return tx.Users().CreateUser(ctx, user)
	})
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("admin created user",
		"user_id", user.ID,
		"username", user.Username,
		"is_superuser", user.IsSuperuser,
	)
	return user, nil
}

// UpdateUser applies a partial update to any record. When the acting
// admin edits their own record, explicitly clearing is_superuser is
// rejected; editing other records has no such restriction.
func (s *AdminService) UpdateUser(
	ctx context.Context,
	actorID, targetID string,
	patch domain.UserPatch,
) (domain.User, error) {
	if targetID == actorID && patch.IsSuperuser != nil && !*patch.IsSuperuser {
		return domain.User{}, ErrSelfDemotion
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		current, err := tx.Users().GetUserByID(ctx, targetID)
		if err != nil {
			return err
		}

		updated, err := applyUserPatch(ctx, tx.Users(), current, patch)
		if err != nil {
			return err
		}

		return tx.Users().UpdateUser(ctx, updated)
	})
	if err != nil {
		return domain.User{}, err
	}

	return s.Store.Users().GetUserByID(ctx, targetID)
}

// DeleteUser removes a record. The self-delete guard applies before the
// existence check, so deleting your own id fails the same way whether or
// not anything else is wrong with the request.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, targetID string) error {
	if targetID == actorID {
		return ErrSelfDelete
	}

	if err := s.Store.Users().DeleteUser(ctx, targetID); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("admin deleted user",
		"actor_id", actorID,
		"user_id", targetID,
	)
	return nil
}
