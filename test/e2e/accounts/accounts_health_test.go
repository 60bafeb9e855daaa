package accounts_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stackfort/accountd/pkg/accountsdk"
)

func TestHealthEndpoints(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	ctx := context.Background()
	client := accountsdk.NewSDKClient(baseURL)

	require.NoError(t, client.Livez(ctx))

	health, err := client.Readyz(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.NotEmpty(t, health.Uptime)
	require.NotEmpty(t, health.Version)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Signer)
}

func TestJWKSEndpoint(t *testing.T) {
	baseURL, cleanup := setupAccountContainer(t)
	defer cleanup()

	ctx := context.Background()
	client := accountsdk.NewSDKClient(baseURL)

	jwks, err := client.JWKS(ctx)
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 1)

	key := jwks.Keys[0]
	require.Equal(t, "OKP", key.Kty)
	require.Equal(t, "Ed25519", key.Crv)
	require.Equal(t, "EdDSA", key.Alg)
	require.NotEmpty(t, key.Kid)
	require.NotEmpty(t, key.X)
}
