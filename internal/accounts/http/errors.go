package http

import (
	"errors"
	"net/http"

	"github.com/stackfort/accountd/internal/accounts/domain"
	"github.com/stackfort/accountd/internal/accounts/service"
	"github.com/stackfort/accountd/internal/accounts/store"
	"github.com/stackfort/accountd/pkg/accountsdk"
)

// mapServiceError translates service and store sentinels into the wire
// error written to the client. Unknown errors become a 500 so internals
// never leak.
func mapServiceError(err error) *accountsdk.APIError {
	switch {
	case errors.Is(err, service.ErrValidation):
		return accountsdk.NewAPIError(http.StatusBadRequest,
			accountsdk.ErrorCodeInvalidRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return accountsdk.ErrInvalidCredentials
	case errors.Is(err, service.ErrInactiveUser):
		return accountsdk.ErrInactiveAccount
	case errors.Is(err, service.ErrInvalidRefresh):
		return accountsdk.ErrInvalidToken
	case errors.Is(err, service.ErrSelfDemotion):
		return accountsdk.NewAPIError(http.StatusBadRequest,
			accountsdk.ErrorCodeInvalidRequest, service.ErrSelfDemotion.Error())
	case errors.Is(err, service.ErrSelfDelete):
		return accountsdk.NewAPIError(http.StatusBadRequest,
			accountsdk.ErrorCodeInvalidRequest, service.ErrSelfDelete.Error())
	case errors.Is(err, store.ErrEmailTaken):
		return accountsdk.ErrEmailTaken
	case errors.Is(err, store.ErrUsernameTaken):
		return accountsdk.ErrUsernameTaken
	case errors.Is(err, store.ErrNotFound):
		return accountsdk.ErrNotFound
	default:
		return accountsdk.ErrServerError
	}
}

// toAPIUser builds the public representation. The password hash never
// crosses this boundary.
func toAPIUser(u domain.User) accountsdk.User {
	return accountsdk.User{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		FullName:    u.FullName,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
