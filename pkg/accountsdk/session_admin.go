package accountsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// All admin operations require the session's user to be a superuser; the
// server responds 403 forbidden otherwise.

// ListUsers returns a page of accounts ordered by creation time,
// newest first. skip is the offset; limit caps the page size (the server
// allows 1 to 1000, default 100). Pass limit <= 0 to use the default.
func (s *Session) ListUsers(ctx context.Context, skip, limit int) ([]User, error) {
	query := url.Values{}
	query.Set("skip", fmt.Sprintf("%d", skip))
	if limit > 0 {
		query.Set("limit", fmt.Sprintf("%d", limit))
	}

	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/admin/users?"+query.Encode(), nil, nil)
	if err != nil {
		return nil, err
	}

	var users []User
	if err := decodeJSON(resp, &users, http.StatusOK); err != nil {
		return nil, err
	}
	return users, nil
}

// CountUsers returns the total number of accounts.
func (s *Session) CountUsers(ctx context.Context) (int, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/admin/users/count", nil, nil)
	if err != nil {
		return 0, err
	}

	var count struct {
		Total int `json:"total"`
	}
	if err := decodeJSON(resp, &count, http.StatusOK); err != nil {
		return 0, err
	}
	return count.Total, nil
}

// GetUser returns the account with the given id.
func (s *Session) GetUser(ctx context.Context, id string) (*User, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/admin/users/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates an account through the admin API. Unlike public
// registration, the active and superuser flags can be set.
func (s *Session) CreateUser(ctx context.Context, req AdminCreateUserRequest) (*User, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/admin/users",
		bytes.NewReader(body),
		map[string]string{"Content-Type": "application/json"},
	)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user, http.StatusCreated); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial update to any account. Only non-nil
// fields of the request are changed. Attempting to clear your own
// superuser flag is rejected by the server.
func (s *Session) UpdateUser(ctx context.Context, id string, req AdminUpdateUserRequest) (*User, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPatch, "/admin/users/"+url.PathEscape(id),
		bytes.NewReader(body),
		map[string]string{"Content-Type": "application/json"},
	)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser permanently deletes an account. Deleting your own account
// through the admin API is rejected by the server; use DeleteMe instead.
func (s *Session) DeleteUser(ctx context.Context, id string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
