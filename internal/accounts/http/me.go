package http

import (
	"encoding/json"
	"net/http"

	"github.com/stackfort/accountd/internal/accounts/domain"
	"github.com/stackfort/accountd/internal/accounts/service"
	"github.com/stackfort/accountd/pkg/accountsdk"
	"github.com/stackfort/accountd/pkg/httpx"
	"github.com/stackfort/accountd/pkg/slogx"
)

type MeHandler struct {
	AuthService *service.AuthService
}

// HandleGet returns the caller's own account.
//
//	@Summary		Get own account
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	accountsdk.User				"Caller's account"
//	@Failure		401	{object}	accountsdk.ErrorResponse	"Invalid or missing access token"
//	@Router			/auth/me [get].
func (h *MeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		accountsdk.ErrInvalidToken.WriteError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAPIUser(user))
}

// HandlePatch applies a partial update to the caller's own account.
//
//	@Summary		Update own account
//	@Description	Partial update; absent fields are untouched. Role flags cannot be changed here.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.UpdateProfileRequest	true	"Fields to change"
//	@Success		200		{object}	accountsdk.User					"Updated account"
//	@Failure		400		{object}	accountsdk.ErrorResponse		"Validation failure or email/username collision"
//	@Failure		401		{object}	accountsdk.ErrorResponse		"Invalid or missing access token"
//	@Router			/auth/me [patch].
func (h *MeHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	user, ok := userFromContext(ctx)
	if !ok {
		accountsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req accountsdk.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accountsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	updated, err := h.AuthService.UpdateSelf(ctx, user.ID, domain.UserPatch{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		apiErr := mapServiceError(err)
		if apiErr == accountsdk.ErrServerError {
			log.Error("self update failed", "user_id", user.ID, "err", err)
		}
		apiErr.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAPIUser(updated))
}

// HandleDelete removes the caller's own account.
//
//	@Summary		Delete own account
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204	"Account deleted"
//	@Failure		401	{object}	accountsdk.ErrorResponse	"Invalid or missing access token"
//	@Router			/auth/me [delete].
func (h *MeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := userFromContext(ctx)
	if !ok {
		accountsdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.AuthService.DeleteSelf(ctx, user.ID); err != nil {
		mapServiceError(err).WriteError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
