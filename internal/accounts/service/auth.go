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

// AuthService orchestrates registration, credential checks and token
// issuance for the self-service endpoints.
type AuthService struct {
	Store  store.Store
	Tokens *TokenService
}

// Register creates a new account with default role flags (active, not
// superuser). Email collisions are reported before username collisions.
func (s *AuthService) Register(
	ctx context.Context,
	email, username, password, fullName string,
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
		IsActive:     true,
		IsSuperuser:  false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Pre-check both uniqueness constraints for friendly ordering of the
	// error (email first); the unique indexes still catch races at
	// commit time and surface the same typed errors.
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

	slogx.FromContext(ctx).Info("user registered",
		"user_id", user.ID,
		"username", user.Username,
	)
	return user, nil
}

// Authenticate checks email+password and returns the user on success.
// Unknown email and wrong password both return ErrInvalidCredentials so
// callers cannot learn which field was wrong.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		slogx.FromContext(ctx).Info("password verification failed", "user_id", user.ID)
		return domain.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates and issues a token pair. Inactive accounts are
// rejected after the credential check so a wrong password on a disabled
// account still reads as bad credentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	pair, err := s.Tokens.IssuePair(user.ID)
	if err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).Info("user logged in", "user_id", user.ID)
	return pair, nil
}

// Refresh validates a refresh token and issues a fresh pair. The token
// must decode, carry the refresh type, and reference a user that still
// exists and is active. Refresh tokens are not single-use; a valid token
// can be replayed until it expires.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.Tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	userID := claims.Subject
	if userID == "" {
		return nil, ErrInvalidRefresh
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidRefresh
	}

	return s.Tokens.IssuePair(user.ID)
}

// UpdateSelf applies a partial update to the caller's own record. Only
// supplied fields change; email and username collisions with other
// records are Conflict errors. Role flags cannot be changed here.
func (s *AuthService) UpdateSelf(
	ctx context.Context,
	userID string,
	patch domain.UserPatch,
) (domain.User, error) {
	// Self-service never touches role flags.
	patch.IsActive = nil
	patch.IsSuperuser = nil

	var updated domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		current, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}

		updated, err = applyUserPatch(ctx, tx.Users(), current, patch)
		if err != nil {
			return err
		}

		return tx.Users().UpdateUser(ctx, updated)
	})
	if err != nil {
		return domain.User{}, err
	}

	return s.Store.Users().GetUserByID(ctx, userID)
}

// DeleteSelf unconditionally deletes the caller's own record.
func (s *AuthService) DeleteSelf(ctx context.Context, userID string) error {
	if err := s.Store.Users().DeleteUser(ctx, userID); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("user deleted own account", "user_id", userID)
	return nil
}

// applyUserPatch validates a patch against the current record, runs the
// email-then-username conflict pre-checks, hashes a supplied password,
// and returns the desired state. The store's unique indexes remain the
// authority for races.
func applyUserPatch(
	ctx context.Context,
	users store.Users,
	current domain.User,
	patch domain.UserPatch,
) (domain.User, error) {
	updated := current

	if patch.Email != nil && *patch.Email != current.Email {
		if err := validateEmail(*patch.Email); err != nil {
			return domain.User{}, err
		}
		if other, err := users.GetUserByEmail(ctx, *patch.Email); err == nil && other.ID != current.ID {
			return domain.User{}, store.ErrEmailTaken
		} else if err != nil && !errors.Is(err, store.ErrNotFound) {
			return domain.User{}, err
		}
		updated.Email = *patch.Email
	}

	if patch.Username != nil && *patch.Username != current.Username {
		if err := validateUsername(*patch.Username); err != nil {
			return domain.User{}, err
		}
		if other, err := users.GetUserByUsername(ctx, *patch.Username); err == nil && other.ID != current.ID {
			return domain.User{}, store.ErrUsernameTaken
		} else if err != nil && !errors.Is(err, store.ErrNotFound) {
			return domain.User{}, err
		}
		updated.Username = *patch.Username
	}

	if patch.Password != nil {
		if err := validatePassword(*patch.Password); err != nil {
			return domain.User{}, err
		}
		hash, err := cryptox.HashPassword(*patch.Password)
		if err != nil {
			return domain.User{}, err
		}
		updated.PasswordHash = hash
	}

	if patch.FullName != nil {
		if err := validateFullName(*patch.FullName); err != nil {
			return domain.User{}, err
		}
		updated.FullName = *patch.FullName
	}

	if patch.IsActive != nil {
		updated.IsActive = *patch.IsActive
	}
	if patch.IsSuperuser != nil {
		updated.IsSuperuser = *patch.IsSuperuser
	}

	return updated, nil
}
