package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stackfort/accountd/pkg/accountsdk"
)

func TestRegisterAndLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	user := registerUser(t, env, "flow@example.com", "flow", "password123")
	require.Equal(t, "flow@example.com", user.Email)
	require.Equal(t, "flow", user.Username)
	require.True(t, user.IsActive)
	require.False(t, user.IsSuperuser)
	require.NotEmpty(t, user.ID)

	tokens := loginTokens(t, env, "flow@example.com", "password123")
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
	require.Equal(t, "bearer", tokens.TokenType)
	require.Equal(t, 60, tokens.ExpiresIn)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "dup@example.com", "dup", "password123")

	rr := doJSON(t, env, http.MethodPost, "/auth/register", "", accountsdk.RegisterRequest{
		Email:    "dup@example.com",
		Username: "other",
		Password: "password123",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, accountsdk.ErrorCodeEmailTaken, errorCode(t, rr))

	rr = doJSON(t, env, http.MethodPost, "/auth/register", "", accountsdk.RegisterRequest{
		Email:    "other@example.com",
		Username: "dup",
		Password: "password123",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, accountsdk.ErrorCodeUsernameTaken, errorCode(t, rr))
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)

	rr := doJSON(t, env, http.MethodPost, "/auth/register", "", accountsdk.RegisterRequest{
		Email:    "not-an-email",
		Username: "someone",
		Password: "password123",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, accountsdk.ErrorCodeInvalidRequest, errorCode(t, rr))

	rr = doJSON(t, env, http.MethodPost, "/auth/register", "", accountsdk.RegisterRequest{
		Email:    "short@example.com",
		Username: "someone",
		Password: "short",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, accountsdk.ErrorCodeInvalidRequest, errorCode(t, rr))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "creds@example.com", "creds", "password123")

	// Wrong password and unknown email look the same to the caller.
	rr := doLoginForm(t, env, "creds@example.com", "wrong-password")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, accountsdk.ErrorCodeInvalidCredentials, errorCode(t, rr))

	rr = doLoginForm(t, env, "nobody@example.com", "password123")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, accountsdk.ErrorCodeInvalidCredentials, errorCode(t, rr))
}

func TestLoginRequiresFormEncoding(t *testing.T) {
	env := newTestEnv(t)

	rr := doJSON(t, env, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "creds@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, accountsdk.ErrorCodeInvalidRequest, errorCode(t, rr))
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	env := newTestEnv(t)
	user := registerUser(t, env, "sleepy@example.com", "sleepy", "password123")

	deactivateUser(t, env, user.ID)

	rr := doLoginForm(t, env, "sleepy@example.com", "password123")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, accountsdk.ErrorCodeInactiveAccount, errorCode(t, rr))
}

func TestRefreshIssuesNewPair(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "fresh@example.com", "fresh", "password123")
	tokens := loginTokens(t, env, "fresh@example.com", "password123")

	rr := doJSON(t, env, http.MethodPost, "/auth/refresh?refresh_token_var="+tokens.RefreshToken, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	renewed := decodeBody[accountsdk.TokenResponse](t, rr)
	require.NotEmpty(t, renewed.AccessToken)
	require.NotEmpty(t, renewed.RefreshToken)
	require.Equal(t, "bearer", renewed.TokenType)
}

func TestRefreshRejectsBadTokens(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "reject@example.com", "reject", "password123")
	tokens := loginTokens(t, env, "reject@example.com", "password123")

	// Missing token.
	rr := doJSON(t, env, http.MethodPost, "/auth/refresh", "", nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, accountsdk.ErrorCodeInvalidToken, errorCode(t, rr))

	// Access token where a refresh token is expected.
	rr = doJSON(t, env, http.MethodPost, "/auth/refresh?refresh_token_var="+tokens.AccessToken, "", nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, accountsdk.ErrorCodeInvalidToken, errorCode(t, rr))

	// Garbage.
	rr = doJSON(t, env, http.MethodPost, "/auth/refresh?refresh_token_var=garbage", "", nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMeRequiresAuthentication(t *testing.T) {
	env := newTestEnv(t)

	rr := doJSON(t, env, http.MethodGet, "/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, accountsdk.ErrorCodeInvalidToken, errorCode(t, rr))

	rr = doJSON(t, env, http.MethodGet, "/auth/me", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMeReturnsOwnAccount(t *testing.T) {
	env := newTestEnv(t)
	created := registerUser(t, env, "self@example.com", "self", "password123")
	tokens := loginTokens(t, env, "self@example.com", "password123")

	rr := doJSON(t, env, http.MethodGet, "/auth/me", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	me := decodeBody[accountsdk.User](t, rr)
	require.Equal(t, created.ID, me.ID)
	require.Equal(t, "self@example.com", me.Email)

	// Password material never leaves the server.
	require.NotContains(t, rr.Body.String(), "password")
	require.NotContains(t, rr.Body.String(), "argon2id")
}

func TestMePatchUpdatesProfile(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "patch@example.com", "patch", "password123")
	tokens := loginTokens(t, env, "patch@example.com", "password123")

	rr := doJSON(t, env, http.MethodPatch, "/auth/me", tokens.AccessToken, accountsdk.UpdateProfileRequest{
		FullName: ptr("Patch McPatchface"),
	})
	require.Equal(t, http.StatusOK, rr.Code)

	me := decodeBody[accountsdk.User](t, rr)
	require.Equal(t, "Patch McPatchface", me.FullName)
	require.Equal(t, "patch@example.com", me.Email)
}

func TestMePatchRejectsTakenEmail(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "holder@example.com", "holder", "password123")
	registerUser(t, env, "mover@example.com", "mover", "password123")
	tokens := loginTokens(t, env, "mover@example.com", "password123")

	rr := doJSON(t, env, http.MethodPatch, "/auth/me", tokens.AccessToken, accountsdk.UpdateProfileRequest{
		Email: ptr("holder@example.com"),
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, accountsdk.ErrorCodeEmailTaken, errorCode(t, rr))
}

func TestMeDeleteRemovesAccount(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "gone@example.com", "gone", "password123")
	tokens := loginTokens(t, env, "gone@example.com", "password123")

	rr := doJSON(t, env, http.MethodDelete, "/auth/me", tokens.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	// The token's subject no longer resolves.
	rr = doJSON(t, env, http.MethodGet, "/auth/me", tokens.AccessToken, nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGuardRejectsDeactivatedCaller(t *testing.T) {
	env := newTestEnv(t)
	user := registerUser(t, env, "benched@example.com", "benched", "password123")
	tokens := loginTokens(t, env, "benched@example.com", "password123")

	deactivateUser(t, env, user.ID)

	rr := doJSON(t, env, http.MethodGet, "/auth/me", tokens.AccessToken, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, accountsdk.ErrorCodeInactiveAccount, errorCode(t, rr))
}

func TestAdminSurfaceRequiresSuperuser(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "pleb@example.com", "pleb", "password123")
	tokens := loginTokens(t, env, "pleb@example.com", "password123")

	rr := doJSON(t, env, http.MethodGet, "/admin/users", tokens.AccessToken, nil)
	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Equal(t, accountsdk.ErrorCodeForbidden, errorCode(t, rr))

	// Anonymous callers fail on authentication, not authorization.
	rr = doJSON(t, env, http.MethodGet, "/admin/users", "", nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, accountsdk.ErrorCodeInvalidToken, errorCode(t, rr))
}

func TestLivez(t *testing.T) {
	env := newTestEnv(t)

	rr := doJSON(t, env, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	health := decodeBody[accountsdk.HealthResponse](t, rr)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "test", health.Version)
	require.NotEmpty(t, health.Uptime)
	require.Nil(t, health.Checks)
}

func TestReadyz(t *testing.T) {
	env := newTestEnv(t)

	rr := doJSON(t, env, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	health := decodeBody[accountsdk.HealthResponse](t, rr)
	require.Equal(t, "ok", health.Status)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Signer)
}

func TestJWKSExposesPublicKeys(t *testing.T) {
	env := newTestEnv(t)

	rr := doJSON(t, env, http.MethodGet, "/.well-known/jwks.json", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	jwks := decodeBody[accountsdk.JWKSResponse](t, rr)
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "test-key", jwks.Keys[0].Kid)
	require.Equal(t, "OKP", jwks.Keys[0].Kty)
}

func TestGlobalRateLimitHeaders(t *testing.T) {
	env := newTestEnv(t)

	var last *httptest.ResponseRecorder
	for range 70 {
		last = doJSON(t, env, http.MethodGet, "/livez", "", nil)
	}
	require.Equal(t, http.StatusTooManyRequests, last.Code)
	require.NotEmpty(t, last.Header().Get("Retry-After"))
	require.Equal(t, accountsdk.ErrorCodeRateLimited, errorCode(t, last))
}

func TestLoginRateLimitKeyedByUsername(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "target@example.com", "target", "password123")

	// Exhaust the strict window for one username.
	var last *httptest.ResponseRecorder
	for range 6 {
		last = doLoginForm(t, env, "target@example.com", "wrong-password")
	}
	require.Equal(t, http.StatusTooManyRequests, last.Code)

	// A different username from the same IP is still admitted.
	rr := doLoginForm(t, env, "someone-else@example.com", "wrong-password")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

// deactivateUser flips is_active directly in the store.
func deactivateUser(t *testing.T, env *testEnv, id string) {
	t.Helper()

	ctx := context.Background()
	user, err := env.store.Users().GetUserByID(ctx, id)
	require.NoError(t, err)
	user.IsActive = false
	require.NoError(t, env.store.Users().UpdateUser(ctx, user))
}
