package accounts_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stackfort/accountd/pkg/accountsdk"
)

// TestAccountLifecycle covers the full self-service journey: register,
// login, inspect, update, and delete the account.
func TestAccountLifecycle(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	ctx := context.Background()
	client := accountsdk.NewSDKClient(baseURL)

	user, err := client.Register(ctx, accountsdk.RegisterRequest{
		Email:    "journey@example.com",
		Username: "journey",
		Password: "Password123!",
		FullName: "Journey Tester",
	})
	require.NoError(t, err)
	require.Equal(t, "journey@example.com", user.Email)
	require.True(t, user.IsActive)
	require.False(t, user.IsSuperuser)

	session, err := client.Login(ctx, "journey@example.com", "Password123!")
	require.NoError(t, err)

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, user.ID, me.ID)
	require.Equal(t, "Journey Tester", me.FullName)

	updated, err := session.UpdateMe(ctx, accountsdk.UpdateProfileRequest{
		FullName: ptr("Renamed Tester"),
	})
	require.NoError(t, err)
	require.Equal(t, "Renamed Tester", updated.FullName)
	require.Equal(t, "journey@example.com", updated.Email)

	require.NoError(t, session.DeleteMe(ctx))

	// The account is gone, so the credentials stop working.
	_, err = client.Login(ctx, "journey@example.com", "Password123!")
	requireAPIError(t, err, http.StatusUnauthorized, accountsdk.ErrorCodeInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	ctx := context.Background()
	client := accountsdk.NewSDKClient(baseURL)

	_, err := client.Register(ctx, accountsdk.RegisterRequest{
		Email:    "taken@example.com",
		Username: "original",
		Password: "Password123!",
	})
	require.NoError(t, err)

	_, err = client.Register(ctx, accountsdk.RegisterRequest{
		Email:    "taken@example.com",
		Username: "pretender",
		Password: "Password123!",
	})
	requireAPIError(t, err, http.StatusBadRequest, accountsdk.ErrorCodeEmailTaken)

	_, err = client.Register(ctx, accountsdk.RegisterRequest{
		Email:    "fresh@example.com",
		Username: "original",
		Password: "Password123!",
	})
	requireAPIError(t, err, http.StatusBadRequest, accountsdk.ErrorCodeUsernameTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	ctx := context.Background()
	client := accountsdk.NewSDKClient(baseURL)

	registerAndLogin(t, client, "victim@example.com", "victim", "Password123!")

	_, err := client.Login(ctx, "victim@example.com", "WrongPassword!")
	requireAPIError(t, err, http.StatusUnauthorized, accountsdk.ErrorCodeInvalidCredentials)

	_, err = client.Login(ctx, "unknown@example.com", "Password123!")
	requireAPIError(t, err, http.StatusUnauthorized, accountsdk.ErrorCodeInvalidCredentials)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	ctx := context.Background()
	client := accountsdk.NewSDKClient(baseURL)

	user, err := client.Register(ctx, accountsdk.RegisterRequest{
		Email:    "frozen@example.com",
		Username: "frozen",
		Password: "Password123!",
	})
	require.NoError(t, err)

	admin := adminSession(t, client)
	_, err = admin.UpdateUser(ctx, user.ID, accountsdk.AdminUpdateUserRequest{
		IsActive: ptr(false),
	})
	require.NoError(t, err)

	_, err = client.Login(ctx, "frozen@example.com", "Password123!")
	requireAPIError(t, err, http.StatusBadRequest, accountsdk.ErrorCodeInactiveAccount)
}
