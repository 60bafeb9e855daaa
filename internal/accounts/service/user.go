package service

import (
	"context"

	"github.com/stackfort/accountd/internal/accounts/domain"
	"github.com/stackfort/accountd/internal/accounts/store"
)

// UserService exposes read access to user records for the guard
// middleware and the /auth/me handler.
type UserService struct {
	Store store.Store
}

// GetUserByID returns the user with the given id.
func (s *UserService) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, id)
}
