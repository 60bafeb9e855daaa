package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/stackfort/accountd/internal/accounts/domain"
	"github.com/stackfort/accountd/internal/accounts/service"
	"github.com/stackfort/accountd/pkg/accountsdk"
	"github.com/stackfort/accountd/pkg/httpx"
	"github.com/stackfort/accountd/pkg/slogx"
)

// AdminUsersHandler is the superuser-gated CRUD surface over all
// accounts. The guard chain has already verified the caller.
type AdminUsersHandler struct {
	AdminService *service.AdminService
}

// HandleList returns a page of accounts.
//
//	@Summary		List accounts
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			skip	query		int	false	"Offset (default 0)"
//	@Param			limit	query		int	false	"Page size, 1-1000 (default 100)"
//	@Success		200	{array}		accountsdk.User				"Page of accounts"
//	@Failure		401	{object}	accountsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403	{object}	accountsdk.ErrorResponse	"Caller is not a superuser"
//	@Router			/admin/users [get].
func (h *AdminUsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	skip := parseIntQuery(r, "skip", 0)
	limit := parseIntQuery(r, "limit", 0)

	users, err := h.AdminService.ListUsers(ctx, skip, limit)
	if err != nil {
		log.Error("list users failed", "err", err)
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]accountsdk.User, 0, len(users))
	for _, u := range users {
		out = append(out, toAPIUser(u))
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCount returns the total account count.
//
//	@Summary		Count accounts
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	map[string]int				"Total as {total: n}"
//	@Failure		403	{object}	accountsdk.ErrorResponse	"Caller is not a superuser"
//	@Router			/admin/users/count [get].
func (h *AdminUsersHandler) HandleCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := h.AdminService.CountUsers(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("count users failed", "err", err)
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]int{"total": total})
}

// HandleGet returns one account by id.
//
//	@Summary		Get an account
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Account id"
//	@Success		200	{object}	accountsdk.User				"Account"
//	@Failure		403	{object}	accountsdk.ErrorResponse	"Caller is not a superuser"
//	@Failure		404	{object}	accountsdk.ErrorResponse	"No such account"
//	@Router			/admin/users/{id} [get].
func (h *AdminUsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.AdminService.GetUser(ctx, r.PathValue("id"))
	if err != nil {
		mapServiceError(err).WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAPIUser(user))
}

// HandleCreate creates an account with explicit role flags.
//
//	@Summary		Create an account
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.AdminCreateUserRequest	true	"Account details incl. role flags"
//	@Success		201		{object}	accountsdk.User						"Created account"
//	@Failure		400		{object}	accountsdk.ErrorResponse			"Validation failure or duplicate email/username"
//	@Failure		403		{object}	accountsdk.ErrorResponse			"Caller is not a superuser"
//	@Router			/admin/users [post].
func (h *AdminUsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountsdk.AdminCreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accountsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	isSuperuser := false
	if req.IsSuperuser != nil {
		isSuperuser = *req.IsSuperuser
	}

	user, err := h.AdminService.CreateUser(ctx,
		req.Email, req.Username, req.Password, req.FullName, isActive, isSuperuser)
	if err != nil {
		apiErr := mapServiceError(err)
		if apiErr == accountsdk.ErrServerError {
			log.Error("admin create user failed", "err", err)
		}
		apiErr.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toAPIUser(user))
}

// HandleUpdate applies a partial update to any account.
//
//	@Summary		Update an account
//	@Description	Partial update; absent fields are untouched. An admin cannot clear their own superuser flag.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Account id"
//	@Param			request	body		accountsdk.AdminUpdateUserRequest	true	"Fields to change"
//	@Success		200		{object}	accountsdk.User						"Updated account"
//	@Failure		400		{object}	accountsdk.ErrorResponse			"Validation failure, duplicate, or self-demotion"
//	@Failure		403		{object}	accountsdk.ErrorResponse			"Caller is not a superuser"
//	@Failure		404		{object}	accountsdk.ErrorResponse			"No such account"
//	@Router			/admin/users/{id} [patch].
func (h *AdminUsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	actor, ok := userFromContext(ctx)
	if !ok {
		accountsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req accountsdk.AdminUpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		accountsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.AdminService.UpdateUser(ctx, actor.ID, r.PathValue("id"), domain.UserPatch{
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		FullName:    req.FullName,
		IsActive:    req.IsActive,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		apiErr := mapServiceError(err)
		if apiErr == accountsdk.ErrServerError {
			log.Error("admin update user failed", "err", err)
		}
		apiErr.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAPIUser(user))
}

// HandleDelete removes an account.
//
//	@Summary		Delete an account
//	@Description	An admin cannot delete their own account through this endpoint.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Account id"
//	@Success		204	"Account deleted"
//	@Failure		400	{object}	accountsdk.ErrorResponse	"Self-delete attempt"
//	@Failure		403	{object}	accountsdk.ErrorResponse	"Caller is not a superuser"
//	@Failure		404	{object}	accountsdk.ErrorResponse	"No such account"
//	@Router			/admin/users/{id} [delete].
func (h *AdminUsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	actor, ok := userFromContext(ctx)
	if !ok {
		accountsdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.AdminService.DeleteUser(ctx, actor.ID, r.PathValue("id")); err != nil {
		mapServiceError(err).WriteError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseIntQuery(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return val
}
