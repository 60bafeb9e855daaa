package http

import (
	"net/http"
	"time"

	"github.com/stackfort/accountd/internal/accounts/service"
	"github.com/stackfort/accountd/pkg/accountsdk"
	"github.com/stackfort/accountd/pkg/httpx"
)

type RefreshHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP exchanges a refresh token for a new pair. The token travels
// as the refresh_token_var query parameter.
//
//	@Summary		Refresh the token pair
//	@Description	Issues a fresh access/refresh pair from a valid refresh token. Refresh tokens are not rotated.
//	@Tags			Auth
//	@Produce		json
//	@Param			refresh_token_var	query		string	true	"Refresh token"
//	@Success		200	{object}	accountsdk.TokenResponse	"New token pair"
//	@Failure		401	{object}	accountsdk.ErrorResponse	"Invalid, expired or wrong-type token, or user missing/inactive"
//	@Failure		429	{object}	accountsdk.ErrorResponse	"Rate limited"
//	@Router			/auth/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	refreshToken := r.URL.Query().Get("refresh_token_var")
	if refreshToken == "" {
		accountsdk.ErrInvalidToken.WriteError(w)
		return
	}

	pair, err := h.AuthService.Refresh(ctx, refreshToken)
	if err != nil {
		mapServiceError(err).WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int(pair.ExpiresIn / time.Second),
	})
}
