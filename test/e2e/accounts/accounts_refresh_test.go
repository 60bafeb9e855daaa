package accounts_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stackfort/accountd/pkg/accountsdk"
)

func TestRefreshTokenFlow(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	ctx := context.Background()
	client := accountsdk.NewSDKClient(baseURL)
	session := registerAndLogin(t, client, "renewer@example.com", "renewer", "Password123!")

	refreshToken := session.RefreshToken()
	require.NotEmpty(t, refreshToken)

	renewed, err := client.Refresh(ctx, refreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, renewed.AccessToken)
	require.Equal(t, "bearer", renewed.TokenType)

	// Refresh tokens are not rotated; the original still works.
	again, err := client.Refresh(ctx, refreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, again.AccessToken)

	// The renewed access token is usable.
	fresh := client.NewSessionFromTokens(renewed.AccessToken, renewed.RefreshToken, renewed.ExpiresIn)
	me, err := fresh.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "renewer@example.com", me.Email)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	ctx := context.Background()
	client := accountsdk.NewSDKClient(baseURL)
	session := registerAndLogin(t, client, "mixup@example.com", "mixup", "Password123!")

	_, err := client.Refresh(ctx, session.AccessToken())
	requireAPIError(t, err, http.StatusUnauthorized, accountsdk.ErrorCodeInvalidToken)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	ctx := context.Background()
	client := accountsdk.NewSDKClient(baseURL)

	_, err := client.Refresh(ctx, "not-a-token")
	requireAPIError(t, err, http.StatusUnauthorized, accountsdk.ErrorCodeInvalidToken)
}

func TestRefreshRejectsDeletedUser(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	ctx := context.Background()
	client := accountsdk.NewSDKClient(baseURL)
	session := registerAndLogin(t, client, "fleeting@example.com", "fleeting", "Password123!")

	refreshToken := session.RefreshToken()
	require.NoError(t, session.DeleteMe(ctx))

	_, err := client.Refresh(ctx, refreshToken)
	requireAPIError(t, err, http.StatusUnauthorized, accountsdk.ErrorCodeInvalidToken)
}
