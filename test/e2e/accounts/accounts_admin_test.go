package accounts_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stackfort/accountd/pkg/accountsdk"
)

// TestAdminUserCRUD walks the whole admin surface with the bootstrapped
// superuser.
func TestAdminUserCRUD(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	ctx := context.Background()
	client := accountsdk.NewSDKClient(baseURL)
	admin := adminSession(t, client)

	created, err := admin.CreateUser(ctx, accountsdk.AdminCreateUserRequest{
		Email:       "crafted@example.com",
		Username:    "crafted",
		Password:    "Password123!",
		FullName:    "Crafted By Admin",
		IsSuperuser: ptr(true),
	})
	require.NoError(t, err)
	require.True(t, created.IsSuperuser)
	require.True(t, created.IsActive)

	fetched, err := admin.GetUser(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, fetched.ID)

	updated, err := admin.UpdateUser(ctx, created.ID, accountsdk.AdminUpdateUserRequest{
		FullName:    ptr("Demoted"),
		IsSuperuser: ptr(false),
	})
	require.NoError(t, err)
	require.Equal(t, "Demoted", updated.FullName)
	require.False(t, updated.IsSuperuser)

	require.NoError(t, admin.DeleteUser(ctx, created.ID))

	_, err = admin.GetUser(ctx, created.ID)
	requireAPIError(t, err, http.StatusNotFound, accountsdk.ErrorCodeNotFound)
}

func TestAdminListAndCount(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	ctx := context.Background()
	client := accountsdk.NewSDKClient(baseURL)
	admin := adminSession(t, client)

	for i := range 3 {
		_, err := client.Register(ctx, accountsdk.RegisterRequest{
			Email:    fmt.Sprintf("listed%d@example.com", i),
			Username: fmt.Sprintf("listed%d", i),
			Password: "Password123!",
		})
		require.NoError(t, err)
	}

	total, err := admin.CountUsers(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, total) // 3 registered + bootstrap admin

	users, err := admin.ListUsers(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, users, 4)
	require.Equal(t, "listed2", users[0].Username)

	// Pagination slices the same ordering.
	page, err := admin.ListUsers(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "listed1", page[0].Username)
}

func TestAdminSurfaceForbiddenForRegularUsers(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	ctx := context.Background()
	client := accountsdk.NewSDKClient(baseURL)
	session := registerAndLogin(t, client, "normie@example.com", "normie", "Password123!")

	_, err := session.ListUsers(ctx, 0, 10)
	requireAPIError(t, err, http.StatusForbidden, accountsdk.ErrorCodeForbidden)

	_, err = session.CreateUser(ctx, accountsdk.AdminCreateUserRequest{
		Email:    "smuggled@example.com",
		Username: "smuggled",
		Password: "Password123!",
	})
	requireAPIError(t, err, http.StatusForbidden, accountsdk.ErrorCodeForbidden)
}

func TestAdminSelfProtections(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	ctx := context.Background()
	client := accountsdk.NewSDKClient(baseURL)
	admin := adminSession(t, client)

	me, err := admin.Me(ctx)
	require.NoError(t, err)

	// A superuser cannot revoke their own flag...
	_, err = admin.UpdateUser(ctx, me.ID, accountsdk.AdminUpdateUserRequest{
		IsSuperuser: ptr(false),
	})
	requireAPIError(t, err, http.StatusBadRequest, accountsdk.ErrorCodeInvalidRequest)

	// ...nor delete their own account through the admin surface.
	err = admin.DeleteUser(ctx, me.ID)
	requireAPIError(t, err, http.StatusBadRequest, accountsdk.ErrorCodeInvalidRequest)

	// Editing other fields of their own record is allowed.
	updated, err := admin.UpdateUser(ctx, me.ID, accountsdk.AdminUpdateUserRequest{
		FullName: ptr("Head Administrator"),
	})
	require.NoError(t, err)
	require.Equal(t, "Head Administrator", updated.FullName)
}
