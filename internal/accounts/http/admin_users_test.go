package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stackfort/accountd/pkg/accountsdk"
)

func TestAdminListUsers(t *testing.T) {
	env := newTestEnv(t)
	_, token := newSuperuser(t, env, "root@example.com", "root", "password123")
	registerUser(t, env, "alpha@example.com", "alpha", "password123")
	registerUser(t, env, "beta@example.com", "beta", "password123")

	rr := doJSON(t, env, http.MethodGet, "/admin/users", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	// The body is a bare array, not a wrapper object.
	users := decodeBody[[]accountsdk.User](t, rr)
	require.Len(t, users, 3)

	rr = doJSON(t, env, http.MethodGet, "/admin/users?skip=1&limit=1", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, decodeBody[[]accountsdk.User](t, rr), 1)
}

func TestAdminCountUsers(t *testing.T) {
	env := newTestEnv(t)
	_, token := newSuperuser(t, env, "root@example.com", "root", "password123")
	registerUser(t, env, "alpha@example.com", "alpha", "password123")

	rr := doJSON(t, env, http.MethodGet, "/admin/users/count", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody[map[string]int](t, rr)
	require.Equal(t, 2, body["total"])
}

func TestAdminCreateUser(t *testing.T) {
	env := newTestEnv(t)
	_, token := newSuperuser(t, env, "root@example.com", "root", "password123")

	rr := doJSON(t, env, http.MethodPost, "/admin/users", token, accountsdk.AdminCreateUserRequest{
		Email:       "minted@example.com",
		Username:    "minted",
		Password:    "password123",
		IsActive:    ptr(false),
		IsSuperuser: ptr(true),
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	created := decodeBody[accountsdk.User](t, rr)
	require.Equal(t, "minted@example.com", created.Email)
	require.False(t, created.IsActive)
	require.True(t, created.IsSuperuser)
}

func TestAdminCreateUserDefaultsRoleFlags(t *testing.T) {
	env := newTestEnv(t)
	_, token := newSuperuser(t, env, "root@example.com", "root", "password123")

	rr := doJSON(t, env, http.MethodPost, "/admin/users", token, accountsdk.AdminCreateUserRequest{
		Email:    "plain@example.com",
		Username: "plain",
		Password: "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	created := decodeBody[accountsdk.User](t, rr)
	require.True(t, created.IsActive)
	require.False(t, created.IsSuperuser)
}

func TestAdminGetUser(t *testing.T) {
	env := newTestEnv(t)
	_, token := newSuperuser(t, env, "root@example.com", "root", "password123")
	target := registerUser(t, env, "lookup@example.com", "lookup", "password123")

	rr := doJSON(t, env, http.MethodGet, "/admin/users/"+target.ID, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, target.ID, decodeBody[accountsdk.User](t, rr).ID)

	rr = doJSON(t, env, http.MethodGet, "/admin/users/does-not-exist", token, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, accountsdk.ErrorCodeNotFound, errorCode(t, rr))
}

func TestAdminUpdateUser(t *testing.T) {
	env := newTestEnv(t)
	_, token := newSuperuser(t, env, "root@example.com", "root", "password123")
	target := registerUser(t, env, "mutable@example.com", "mutable", "password123")

	rr := doJSON(t, env, http.MethodPatch, "/admin/users/"+target.ID, token, accountsdk.AdminUpdateUserRequest{
		FullName: ptr("Renamed"),
		IsActive: ptr(false),
	})
	require.Equal(t, http.StatusOK, rr.Code)

	updated := decodeBody[accountsdk.User](t, rr)
	require.Equal(t, "Renamed", updated.FullName)
	require.False(t, updated.IsActive)
	require.Equal(t, "mutable@example.com", updated.Email)
}

func TestAdminCannotRevokeOwnSuperuser(t *testing.T) {
	env := newTestEnv(t)
	admin, token := newSuperuser(t, env, "root@example.com", "root", "password123")

	rr := doJSON(t, env, http.MethodPatch, "/admin/users/"+admin.ID, token, accountsdk.AdminUpdateUserRequest{
		IsSuperuser: ptr(false),
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, accountsdk.ErrorCodeInvalidRequest, errorCode(t, rr))

	// Editing one's own record without touching the flag is fine.
	rr = doJSON(t, env, http.MethodPatch, "/admin/users/"+admin.ID, token, accountsdk.AdminUpdateUserRequest{
		FullName: ptr("Head Admin"),
	})
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestAdminDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	_, token := newSuperuser(t, env, "root@example.com", "root", "password123")
	target := registerUser(t, env, "doomed@example.com", "doomed", "password123")

	rr := doJSON(t, env, http.MethodDelete, "/admin/users/"+target.ID, token, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, env, http.MethodDelete, "/admin/users/"+target.ID, token, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	env := newTestEnv(t)
	admin, token := newSuperuser(t, env, "root@example.com", "root", "password123")

	rr := doJSON(t, env, http.MethodDelete, "/admin/users/"+admin.ID, token, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, accountsdk.ErrorCodeInvalidRequest, errorCode(t, rr))
}

func TestAdminListOrderedNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	_, token := newSuperuser(t, env, "root@example.com", "root", "password123")

	for i := range 3 {
		registerUser(t, env,
			fmt.Sprintf("user%d@example.com", i),
			fmt.Sprintf("user%d", i),
			"password123")
	}

	rr := doJSON(t, env, http.MethodGet, "/admin/users", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	users := decodeBody[[]accountsdk.User](t, rr)
	require.Len(t, users, 4)
	require.Equal(t, "user2", users[0].Username)
	require.Equal(t, "root", users[3].Username)
}
