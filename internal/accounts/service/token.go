package service

import (
	"errors"
	"time"

	"github.com/stackfort/accountd/internal/accounts/domain"
	"github.com/stackfort/accountd/pkg/jwtx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInactiveUser       = errors.New("inactive_user")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
)

// TokenService mints and verifies the stateless JWT pairs. Refresh
// tokens are not persisted or rotated; validity is solely signature,
// expiry and type.
type TokenService struct {
	Signer     jwtx.Signer
	Verifier   jwtx.Verifier
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// IssuePair mints an access/refresh pair bound to the user id.
func (s *TokenService) IssuePair(userID string) (*domain.TokenPair, error) {
	now := time.Now()

	accessClaims := jwtx.NewClaims(userID, jwtx.TokenTypeAccess, s.AccessTTL, s.Issuer, now)
	accessToken, err := s.Signer.Sign(accessClaims)
	if err != nil {
		return nil, err
	}

	refreshClaims := jwtx.NewClaims(userID, jwtx.TokenTypeRefresh, s.RefreshTTL, s.Issuer, now)
	refreshToken, err := s.Signer.Sign(refreshClaims)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.AccessTTL,
	}, nil
}

// VerifyAccess validates an access token and returns its claims.
func (s *TokenService) VerifyAccess(token string) (jwtx.Claims, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return jwtx.Claims{}, err
	}
	if err := claims.ValidateType(jwtx.TokenTypeAccess); err != nil {
		return jwtx.Claims{}, err
	}
	return claims, nil
}

// VerifyRefresh validates a refresh token and returns its claims.
func (s *TokenService) VerifyRefresh(token string) (jwtx.Claims, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return jwtx.Claims{}, err
	}
	if err := claims.ValidateType(jwtx.TokenTypeRefresh); err != nil {
		return jwtx.Claims{}, err
	}
	return claims, nil
}
