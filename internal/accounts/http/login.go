package http

import (
	"mime"
	"net/http"
	"time"

	"github.com/stackfort/accountd/internal/accounts/service"
	"github.com/stackfort/accountd/pkg/accountsdk"
	"github.com/stackfort/accountd/pkg/httpx"
	"github.com/stackfort/accountd/pkg/slogx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles password login. The body is form-encoded and the
// username field carries the email address.
//
//	@Summary		Log in with email and password
//	@Description	Exchanges credentials for a JWT access/refresh pair. The form's username field carries the email address.
//	@Tags			Auth
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			username	formData	string	true	"Email address"
//	@Param			password	formData	string	true	"Password"
//	@Success		200	{object}	accountsdk.TokenResponse	"Token pair"
//	@Failure		400	{object}	accountsdk.ErrorResponse	"Malformed request or inactive account"
//	@Failure		401	{object}	accountsdk.ErrorResponse	"Bad credentials"
//	@Failure		429	{object}	accountsdk.ErrorResponse	"Rate limited"
//	@Router			/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/x-www-form-urlencoded" {
		accountsdk.ErrInvalidContentType.WriteError(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		accountsdk.ErrInvalidFormBody.WriteError(w)
		return
	}

	email := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		accountsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.AuthService.Login(ctx, email, password)
	if err != nil {
		apiErr := mapServiceError(err)
		if apiErr == accountsdk.ErrServerError {
			log.Error("login failed", "err", err)
		}
		apiErr.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, accountsdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int(pair.ExpiresIn / time.Second),
	})
}
