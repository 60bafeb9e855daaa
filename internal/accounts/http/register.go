package http

import (
	"encoding/json"
	"net/http"

	"github.com/stackfort/accountd/internal/accounts/service"
	"github.com/stackfort/accountd/pkg/accountsdk"
	"github.com/stackfort/accountd/pkg/httpx"
	"github.com/stackfort/accountd/pkg/slogx"
)

type RegisterHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles public account registration.
//
//	@Summary		Register a new account
//	@Description	Creates an account with default role flags (active, not superuser).
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.RegisterRequest	true	"Account details"
//	@Success		201		{object}	accountsdk.User				"Created account"
//	@Failure		400		{object}	accountsdk.ErrorResponse	"Validation failure or duplicate email/username"
//	@Failure		429		{object}	accountsdk.ErrorResponse	"Rate limited"
//	@Router			/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountsdk.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accountsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.AuthService.Register(ctx, req.Email, req.Username, req.Password, req.FullName)
	if err != nil {
		apiErr := mapServiceError(err)
		if apiErr == accountsdk.ErrServerError {
			log.Error("registration failed", "err", err)
		}
		apiErr.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toAPIUser(user))
}
