package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/stackfort/accountd/pkg/cryptox"
	"github.com/stackfort/accountd/pkg/jwtx"
)

// InitSigningKeys builds the signer and key set used to mint and verify
// tokens.
//
// When ACCOUNTD_KEY_FILE points at a PKCS#8 PEM key, that key is loaded
// and tokens survive restarts. Without it a fresh keypair is generated at
// boot, which invalidates every previously issued token.
//
// Supported algorithms: EdDSA, ES256.
func InitSigningKeys(cfg Config, logger *slog.Logger) (jwtx.Signer, *jwtx.KeySet, jwtx.Verifier, error) {
	pemKey, persistent, err := loadOrGenerateKey(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	var signer jwtx.Signer
	switch cfg.Algorithm {
	case "ES256":
		signer, err = jwtx.NewSignerES256(cfg.KeyID, pemKey)
	case "EdDSA":
		signer, err = jwtx.NewSignerEdDSA(cfg.KeyID, pemKey)
	default:
		return nil, nil, nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to construct signer: %w", err)
	}

	keys := jwtx.NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to register signing key: %w", err)
	}

	var verifier jwtx.Verifier
	switch cfg.Algorithm {
	case "ES256":
		verifier = jwtx.NewCommonES256(keys, cfg.Issuer)
	default:
		verifier = jwtx.NewCommonEdDSA(keys, cfg.Issuer)
	}

	if persistent {
		logger.Info("signing key loaded",
			"algorithm", cfg.Algorithm,
			"kid", cfg.KeyID,
			"path", cfg.KeyFile,
		)
	} else {
		logger.Info("generated ephemeral signing key",
			"algorithm", cfg.Algorithm,
			"kid", cfg.KeyID,
		)
		logger.Warn("all previously issued tokens are now invalid")
	}

	return signer, keys, verifier, nil
}

func loadOrGenerateKey(cfg Config) (pemKey []byte, persistent bool, err error) {
	if cfg.KeyFile != "" {
		pemKey, err = os.ReadFile(cfg.KeyFile)
		if err != nil {
			return nil, false, fmt.Errorf("failed to read key file: %w", err)
		}
		return pemKey, true, nil
	}

	switch cfg.Algorithm {
	case "ES256":
		pemKey, err = cryptox.GenerateES256Key()
	default:
		pemKey, err = cryptox.GenerateEd25519Key()
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate signing key: %w", err)
	}
	return pemKey, false, nil
}
