package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stackfort/accountd/internal/accounts/domain"
	"github.com/stackfort/accountd/internal/accounts/store"
	"github.com/stackfort/accountd/internal/accounts/store/drivers/sqlite"
	"github.com/stackfort/accountd/pkg/cryptox"
	"github.com/stackfort/accountd/pkg/jwtx"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "service-test")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper.key"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

const testIssuer = "accountd-test"

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := jwtx.NewSignerEdDSA("test-key", pemKey)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	return &TokenService{
		Signer:     signer,
		Verifier:   jwtx.NewCommonEdDSA(keys, testIssuer),
		Issuer:     testIssuer,
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}
}

func newTestAuthService(t *testing.T) (*AuthService, store.Store) {
	t.Helper()

	s := newTestStore(t)
	return &AuthService{
		Store:  s,
		Tokens: newTestTokenService(t),
	}, s
}

func mustRegister(t *testing.T, svc *AuthService, email, username, password string) domain.User {
	t.Helper()

	user, err := svc.Register(context.Background(), email, username, password, "")
	require.NoError(t, err)
	return user
}

func ptr[T any](v T) *T { return &v }
