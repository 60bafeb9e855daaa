package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stackfort/accountd/internal/accounts/domain"
	"github.com/stackfort/accountd/internal/accounts/store"
)

func newTestAdminService(t *testing.T) (*AdminService, *AuthService, store.Store) {
	t.Helper()

	auth, s := newTestAuthService(t)
	return &AdminService{Store: s}, auth, s
}

func seedAdmin(t *testing.T, svc *AdminService) domain.User {
	t.Helper()

	admin, err := svc.CreateUser(context.Background(),
		"admin@example.com", "admin", "correct-horse", "", true, true)
	require.NoError(t, err)
	return admin
}

func TestAdminCreateUser_RoleFlags(t *testing.T) {
	svc, _, _ := newTestAdminService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "ops@example.com", "ops", "correct-horse", "Ops Bot", false, true)
	require.NoError(t, err)
	require.False(t, user.IsActive)
	require.True(t, user.IsSuperuser)
	require.Equal(t, "Ops Bot", user.FullName)
}

func TestAdminCreateUser_EmailConflictBeforeUsername(t *testing.T) {
	svc, _, _ := newTestAdminService(t)
	ctx := context.Background()

	seedAdmin(t, svc)

	_, err := svc.CreateUser(ctx, "admin@example.com", "admin", "correct-horse", "", true, false)
	require.ErrorIs(t, err, store.ErrEmailTaken)

	_, err = svc.CreateUser(ctx, "other@example.com", "admin", "correct-horse", "", true, false)
	require.ErrorIs(t, err, store.ErrUsernameTaken)
}

func TestAdminGetUser(t *testing.T) {
	svc, _, _ := newTestAdminService(t)
	ctx := context.Background()

	admin := seedAdmin(t, svc)

	got, err := svc.GetUser(ctx, admin.ID)
	require.NoError(t, err)
	require.Equal(t, admin.Email, got.Email)

	_, err = svc.GetUser(ctx, "01JUNKJUNKJUNKJUNKJUNKJUNK")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestAdminListUsers_ClampsArguments(t *testing.T) {
	svc, auth, _ := newTestAdminService(t)
	ctx := context.Background()

	for _, name := range []string{"u1", "u2", "u3"} {
		mustRegister(t, auth, name+"@example.com", name, "correct-horse")
	}

	// Negative skip and oversized limit fall back to sane values.
	users, err := svc.ListUsers(ctx, -5, 5000)
	require.NoError(t, err)
	require.Len(t, users, 3)

	users, err = svc.ListUsers(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, users, 2)
	// Newest first.
	require.Equal(t, "u3", users[0].Username)
	require.Equal(t, "u2", users[1].Username)

	count, err := svc.CountUsers(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestAdminUpdateUser_SelfDemotionGuard(t *testing.T) {
	svc, _, _ := newTestAdminService(t)
	ctx := context.Background()

	admin := seedAdmin(t, svc)

	// Explicitly clearing your own flag fails regardless of other fields.
	_, err := svc.UpdateUser(ctx, admin.ID, admin.ID, domain.UserPatch{
		FullName:    ptr("Still Admin"),
		IsSuperuser: ptr(false),
	})
	require.ErrorIs(t, err, ErrSelfDemotion)

	// Re-asserting the flag is fine.
	_, err = svc.UpdateUser(ctx, admin.ID, admin.ID, domain.UserPatch{
		IsSuperuser: ptr(true),
	})
	require.NoError(t, err)

	// Demoting someone else is allowed.
	other, err := svc.CreateUser(ctx, "other@example.com", "other", "correct-horse", "", true, true)
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, admin.ID, other.ID, domain.UserPatch{
		IsSuperuser: ptr(false),
	})
	require.NoError(t, err)
	require.False(t, updated.IsSuperuser)
}

func TestAdminUpdateUser_NotFoundAndConflict(t *testing.T) {
	svc, _, _ := newTestAdminService(t)
	ctx := context.Background()

	admin := seedAdmin(t, svc)
	other, err := svc.CreateUser(ctx, "other@example.com", "other", "correct-horse", "", true, false)
	require.NoError(t, err)

	_, err = svc.UpdateUser(ctx, admin.ID, "01JUNKJUNKJUNKJUNKJUNKJUNK", domain.UserPatch{
		FullName: ptr("Ghost"),
	})
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.UpdateUser(ctx, admin.ID, other.ID, domain.UserPatch{
		Email: ptr("admin@example.com"),
	})
	require.ErrorIs(t, err, store.ErrEmailTaken)
}

func TestAdminUpdateUser_CanDeactivate(t *testing.T) {
	svc, _, _ := newTestAdminService(t)
	ctx := context.Background()

	admin := seedAdmin(t, svc)
	other, err := svc.CreateUser(ctx, "other@example.com", "other", "correct-horse", "", true, false)
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, admin.ID, other.ID, domain.UserPatch{
		IsActive: ptr(false),
	})
	require.NoError(t, err)
	require.False(t, updated.IsActive)
}

func TestAdminDeleteUser_SelfDeleteGuard(t *testing.T) {
	svc, _, _ := newTestAdminService(t)
	ctx := context.Background()

	admin := seedAdmin(t, svc)

	err := svc.DeleteUser(ctx, admin.ID, admin.ID)
	require.ErrorIs(t, err, ErrSelfDelete)

	// The guard applies before the existence check: deleting your own id
	// never reports NotFound.
	err = svc.DeleteUser(ctx, admin.ID, admin.ID)
	require.NotErrorIs(t, err, store.ErrNotFound)
}

func TestAdminDeleteUser(t *testing.T) {
	svc, _, s := newTestAdminService(t)
	ctx := context.Background()

	admin := seedAdmin(t, svc)
	other, err := svc.CreateUser(ctx, "other@example.com", "other", "correct-horse", "", true, false)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, admin.ID, other.ID))

	_, err = s.Users().GetUserByID(ctx, other.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	err = svc.DeleteUser(ctx, admin.ID, other.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestBootstrap_EnsureAdmin(t *testing.T) {
	auth, s := newTestAuthService(t)
	boot := &BootstrapService{Store: s}
	ctx := context.Background()

	admin, err := boot.EnsureAdmin(ctx, "root@example.com", "root", "correct-horse")
	require.NoError(t, err)
	require.True(t, admin.IsSuperuser)
	require.True(t, admin.IsActive)

	// Second run is a no-op.
	_, err = boot.EnsureAdmin(ctx, "root2@example.com", "root2", "correct-horse")
	require.ErrorIs(t, err, ErrAlreadyBootstrapped)

	// The bootstrap admin can actually log in.
	_, err = auth.Login(ctx, "root@example.com", "correct-horse")
	require.NoError(t, err)
}

func TestBootstrap_SkipsNonEmptyStore(t *testing.T) {
	auth, s := newTestAuthService(t)
	boot := &BootstrapService{Store: s}
	ctx := context.Background()

	mustRegister(t, auth, "alice@example.com", "alice", "correct-horse")

	_, err := boot.EnsureAdmin(ctx, "root@example.com", "root", "correct-horse")
	require.ErrorIs(t, err, ErrAlreadyBootstrapped)
}
